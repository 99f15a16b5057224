// Package testutil provides shared test helpers for setting up note
// stores.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/halvard/daybook/internal/notestore"
	"github.com/halvard/daybook/internal/storage"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestNotesDir creates a temporary notes root with a storage.Provider
// rooted in it.
func TestNotesDir(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	files, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, files
}

// TestStore creates a ready-to-use note store over a temporary notes
// root. enricher may be nil.
func TestStore(t *testing.T, enricher notestore.Enricher) *notestore.Store {
	t.Helper()
	_, files := TestNotesDir(t)
	store := notestore.New(files, enricher, DiscardLogger())
	if err := store.EnsureLayout(); err != nil {
		t.Fatal(err)
	}
	return store
}
