// Package notestore implements the durable note repository: two
// partitions of markdown files (event-linked and standalone) whose
// derived filenames are the note identities. Files are the only source
// of truth; everything else is rebuilt from them on demand.
package notestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/halvard/daybook/internal/apperr"
	"github.com/halvard/daybook/internal/models"
	"github.com/halvard/daybook/internal/notepath"
	"github.com/halvard/daybook/internal/parser"
	"github.com/halvard/daybook/internal/storage"
)

// Enricher provides best-effort agenda markdown for an event
// description. An empty string means no enrichment; implementations
// must never block beyond their own timeout or return an error.
type Enricher interface {
	AgendaMarkdown(ctx context.Context, description string) string
}

// Store coordinates file storage, header parsing, and path derivation.
type Store struct {
	files    storage.Provider
	enricher Enricher
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a Store. enricher may be nil to disable agenda
// enrichment.
func New(files storage.Provider, enricher Enricher, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		files:    files,
		enricher: enricher,
		logger:   logger,
		now:      time.Now,
	}
}

// AbsPath returns the absolute filesystem path for a note path, for
// handing to external tools like the editor.
func (s *Store) AbsPath(path string) string {
	return filepath.Join(s.files.Root(), filepath.FromSlash(path))
}

// EnsureLayout creates the partition directories.
func (s *Store) EnsureLayout() error {
	if err := s.files.EnsureDir(notepath.EventsDir); err != nil {
		return err
	}
	return s.files.EnsureDir(notepath.StandaloneDir)
}

// ListNotes returns metadata (no body) for every note in the given
// partition. Unreadable or malformed files are logged and skipped; a
// single corrupt file never aborts the listing.
func (s *Store) ListNotes(kind models.NoteKind) []models.Note {
	dir := notepath.StandaloneDir
	if kind == models.KindEvent {
		dir = notepath.EventsDir
	}
	return s.listDir(dir, false)
}

// AllNotes returns metadata for every note in both partitions.
func (s *Store) AllNotes() []models.Note {
	notes := s.listDir(notepath.EventsDir, false)
	return append(notes, s.listDir(notepath.StandaloneDir, false)...)
}

// Snapshot returns every note including its body, for search index
// builds. Fail-soft like ListNotes.
func (s *Store) Snapshot() []models.Note {
	notes := s.listDir(notepath.EventsDir, true)
	return append(notes, s.listDir(notepath.StandaloneDir, true)...)
}

func (s *Store) listDir(dir string, withBody bool) []models.Note {
	metas, err := s.files.List(dir)
	if err != nil {
		s.logger.Warn("list failed", slog.String("dir", dir), slog.String("error", err.Error()))
		return nil
	}
	var out []models.Note
	for _, m := range metas {
		data, readErr := s.files.Read(m.Path)
		if readErr != nil {
			s.logger.Warn("skipping unreadable note", slog.String("path", m.Path), slog.String("error", readErr.Error()))
			continue
		}
		n := s.noteFromFile(m.Path, data, m.ModTime)
		if !withBody {
			n.Body = ""
		}
		out = append(out, n)
	}
	return out
}

// LoadNote reads and parses a single note. Missing files return
// apperr.ErrNotFound; a malformed header degrades to a raw-body note,
// never an error.
func (s *Store) LoadNote(path string) (*models.Note, error) {
	data, err := s.files.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("notestore: load %s: %w", path, apperr.ErrNotFound)
		}
		return nil, err
	}
	modTime := s.now()
	if info, statErr := s.files.Stat(path); statErr == nil {
		modTime = info.ModTime
	}
	n := s.noteFromFile(path, data, modTime)
	return &n, nil
}

// noteFromFile builds a Note from raw file content. Header fields win;
// anything missing falls back to the filename stem and file mtime, per
// the malformed-header recovery contract.
func (s *Store) noteFromFile(path string, data []byte, modTime time.Time) models.Note {
	res := parser.Parse(data)

	n := models.Note{
		Path: path,
		Kind: notepath.KindOf(path),
		Body: res.Body,
		Tags: []string{},
	}

	n.Title = parser.DeriveTitle(res)
	if n.Title == "" {
		n.Title = n.Stem()
	}

	if res.HasHeader {
		n.Created = res.Header.Created
		n.Updated = res.Header.Updated
		if res.Header.Tags != nil {
			n.Tags = res.Header.Tags
		}
		n.Event = res.Header.Event
	}
	if n.Created.IsZero() {
		n.Created = modTime
	}
	if n.Updated.IsZero() {
		n.Updated = modTime
	}
	return n
}

// HasNoteForEvent reports whether a note already exists at the event's
// derived path. The path is the association: no header scan, no index.
func (s *Store) HasNoteForEvent(ev models.Event) bool {
	return s.files.Exists(notepath.EventPath(ev))
}

// CreateOrGetEventNote returns the note for an event, creating it when
// absent. Calling twice for the same event yields the same file and
// created=false on the second call. Agenda enrichment is attempted only
// at creation and any enrichment failure degrades to the base template.
func (s *Store) CreateOrGetEventNote(ctx context.Context, ev models.Event) (*models.Note, bool, error) {
	path := notepath.EventPath(ev)

	if s.files.Exists(path) {
		n, err := s.LoadNote(path)
		if err != nil {
			return nil, false, err
		}
		return n, false, nil
	}

	agenda := ""
	if s.enricher != nil {
		agenda = s.enricher.AgendaMarkdown(ctx, ev.Description)
	}

	now := s.now()
	header := parser.Header{
		Title:   ev.Title,
		Created: now,
		Updated: now,
		Tags:    []string{},
		Event: &models.EventRef{
			ID:       ev.ID,
			Title:    ev.Title,
			Date:     ev.Start,
			Calendar: ev.CalendarName,
			Location: ev.Location,
			AllDay:   ev.AllDay,
		},
	}
	body := eventNoteBody(ev, agenda)

	data, err := parser.Marshal(header, body)
	if err != nil {
		return nil, false, err
	}
	if err := s.files.Write(path, data); err != nil {
		return nil, false, err
	}
	s.logger.Info("created event note", slog.String("path", path), slog.String("event_id", ev.ID))

	n := s.noteFromFile(path, data, now)
	return &n, true, nil
}

// CreateStandaloneNote creates a note with no calendar association,
// keyed by the creation timestamp.
func (s *Store) CreateStandaloneNote(title string, tags []string) (*models.Note, error) {
	now := s.now()
	path := notepath.StandalonePath(title, now)

	if tags == nil {
		tags = []string{}
	}
	header := parser.Header{
		Title:   title,
		Created: now,
		Updated: now,
		Tags:    tags,
	}
	data, err := parser.Marshal(header, standaloneNoteBody(title))
	if err != nil {
		return nil, err
	}
	if err := s.files.Write(path, data); err != nil {
		return nil, err
	}
	s.logger.Info("created standalone note", slog.String("path", path))

	n := s.noteFromFile(path, data, now)
	return &n, nil
}

// SaveNote rewrites a note's header and body, refreshing only the
// updated timestamp. The write is atomic; a failure leaves the previous
// file intact.
func (s *Store) SaveNote(n *models.Note) error {
	n.Updated = s.now()
	header := parser.Header{
		Title:   n.Title,
		Created: n.Created,
		Updated: n.Updated,
		Tags:    n.Tags,
		Event:   n.Event,
	}
	if header.Tags == nil {
		header.Tags = []string{}
	}
	data, err := parser.Marshal(header, n.Body)
	if err != nil {
		return err
	}
	return s.files.Write(n.Path, data)
}

// DeleteNote removes a note file. Deleting an already-absent path is a
// no-op.
func (s *Store) DeleteNote(path string) error {
	return s.files.Delete(path)
}
