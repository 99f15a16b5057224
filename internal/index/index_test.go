package index

import (
	"strings"
	"testing"
	"time"

	"github.com/halvard/daybook/internal/models"
)

func buildTestIndex(t *testing.T, notes []models.Note) *Index {
	t.Helper()
	idx, err := Build(notes)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func note(path, title, body string, updated time.Time) models.Note {
	return models.Note{Path: path, Title: title, Body: body, Updated: updated}
}

func TestSearch_ShortQueryEmpty(t *testing.T) {
	idx := buildTestIndex(t, []models.Note{
		note("a.md", "Apple", "fruit", time.Now()),
	})
	for _, q := range []string{"", "a", " a "} {
		results, err := idx.Search(q, 10)
		if err != nil {
			t.Fatalf("Search(%q): %v", q, err)
		}
		if len(results) != 0 {
			t.Errorf("Search(%q) returned %d results, want 0", q, len(results))
		}
	}
}

func TestSearch_BodyOnlyRankedAfterTitle(t *testing.T) {
	now := time.Now()
	idx := buildTestIndex(t, []models.Note{
		note("body.md", "Unrelated", "the budget discussion went long", now),
		note("title.md", "Budget review", "nothing here", now),
	})
	results, err := idx.Search("budget", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Path != "title.md" {
		t.Errorf("title match should rank first, got %q", results[0].Path)
	}
	if results[1].Path != "body.md" {
		t.Errorf("body match should rank second, got %q", results[1].Path)
	}
	if results[1].Snippet == "" || !strings.Contains(strings.ToLower(results[1].Snippet), "budget") {
		t.Errorf("body hit should carry a snippet, got %q", results[1].Snippet)
	}
}

func TestSearch_ExactTitleFirst(t *testing.T) {
	now := time.Now()
	idx := buildTestIndex(t, []models.Note{
		note("contains.md", "The budget meeting", "", now),
		note("exact.md", "Budget", "", now),
	})
	results, err := idx.Search("Budget", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].Path != "exact.md" {
		t.Fatalf("exact title should rank first: %+v", results)
	}
}

func TestSearch_CaseInsensitive(t *testing.T) {
	idx := buildTestIndex(t, []models.Note{
		note("a.md", "RETROSPECTIVE", "", time.Now()),
	})
	results, err := idx.Search("retro", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("case-insensitive match failed: %+v", results)
	}
}

func TestSearch_TiesBrokenByUpdatedDesc(t *testing.T) {
	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	idx := buildTestIndex(t, []models.Note{
		note("old.md", "Sync notes", "", older),
		note("new.md", "Sync plan", "", newer),
	})
	results, err := idx.Search("sync", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].Path != "new.md" {
		t.Fatalf("newer note should rank first on tie: %+v", results)
	}
}

func TestSearch_NoMatch(t *testing.T) {
	idx := buildTestIndex(t, []models.Note{
		note("a.md", "Apple", "fruit", time.Now()),
	})
	results, err := idx.Search("zebra", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}
