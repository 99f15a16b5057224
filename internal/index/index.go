// Package index provides the per-session search index. It is rebuilt
// from a note snapshot each time a search session opens, lives in an
// in-memory SQLite database, and is never persisted: note identity
// stays in the filenames, and the index is pure derived state.
package index

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/halvard/daybook/internal/models"
)

// MinQueryLen is the minimum query length; shorter queries yield empty
// results, not an error.
const MinQueryLen = 2

const schemaSQL = `
CREATE TABLE notes (
	path       TEXT PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT '',
	title_lc   TEXT NOT NULL DEFAULT '',
	body       TEXT NOT NULL DEFAULT '',
	body_lc    TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL
);
`

// Match ranks, best first.
const (
	rankExactTitle = 0
	rankTitle      = 1
	rankBody       = 2
)

// Result is one search hit.
type Result struct {
	Path    string
	Title   string
	Rank    int
	Snippet string // body context around the match; empty for title hits
	Updated time.Time
}

// Index is a transient search index over one note snapshot.
type Index struct {
	conn *sql.DB
}

// Build creates an in-memory index from the snapshot. Call Close when
// the search session ends.
func Build(notes []models.Note) (*Index, error) {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("index: open: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}

	stmt, err := conn.Prepare(`INSERT OR REPLACE INTO notes (path, title, title_lc, body, body_lc, updated_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, n := range notes {
		if _, err := stmt.Exec(
			n.Path,
			n.Title,
			strings.ToLower(n.Title),
			n.Body,
			strings.ToLower(n.Body),
			n.Updated,
		); err != nil {
			conn.Close()
			return nil, fmt.Errorf("index: insert %s: %w", n.Path, err)
		}
	}

	return &Index{conn: conn}, nil
}

// Close releases the in-memory database.
func (idx *Index) Close() error {
	return idx.conn.Close()
}

// Search returns notes whose title or body contains the query,
// case-insensitive. Exact title matches rank first, then
// title-contains, then body-only; ties break by updated descending,
// then path ascending.
func (idx *Index) Search(query string, limit int) ([]Result, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if len([]rune(q)) < MinQueryLen {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := idx.conn.Query(`
		SELECT path,
		       title,
		       body,
		       body_lc,
		       updated_at,
		       CASE
		           WHEN title_lc = ?             THEN 0
		           WHEN instr(title_lc, ?) > 0   THEN 1
		           ELSE 2
		       END AS rank
		FROM notes
		WHERE instr(title_lc, ?) > 0 OR instr(body_lc, ?) > 0
		ORDER BY rank, updated_at DESC, path ASC
		LIMIT ?
	`, q, q, q, q, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var r Result
		var body, bodyLC string
		if err := rows.Scan(&r.Path, &r.Title, &body, &bodyLC, &r.Updated, &r.Rank); err != nil {
			return nil, err
		}
		if r.Rank == rankBody {
			r.Snippet = snippet(body, bodyLC, q)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// snippet extracts a short context window around the first body match.
func snippet(body, bodyLC, q string) string {
	const window = 40
	pos := strings.Index(bodyLC, q)
	if pos < 0 || pos >= len(body) {
		return ""
	}
	start := pos - window
	if start < 0 {
		start = 0
	}
	end := pos + len(q) + window
	if end > len(body) {
		end = len(body)
	}
	s := strings.ReplaceAll(body[start:end], "\n", " ")
	return strings.TrimSpace(s)
}
