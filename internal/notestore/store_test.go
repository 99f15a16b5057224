package notestore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/halvard/daybook/internal/apperr"
	"github.com/halvard/daybook/internal/models"
	"github.com/halvard/daybook/internal/storage"
)

type stubEnricher struct {
	markdown string
	calls    int
}

func (e *stubEnricher) AgendaMarkdown(_ context.Context, _ string) string {
	e.calls++
	return e.markdown
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T, enricher Enricher) (*Store, storage.Provider) {
	t.Helper()
	fs, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	s := New(fs, enricher, testLogger())
	if err := s.EnsureLayout(); err != nil {
		t.Fatalf("EnsureLayout: %v", err)
	}
	return s, fs
}

func testEvent() models.Event {
	return models.Event{
		ID:           "cal-event-42",
		Title:        "Weekly Standup",
		CalendarName: "Work",
		Location:     "Room 4",
		Description:  "Sync on progress",
		Start:        time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC),
		End:          time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
	}
}

func TestCreateOrGetEventNote_Idempotent(t *testing.T) {
	s, _ := newTestStore(t, nil)
	ev := testEvent()

	n1, created, err := s.CreateOrGetEventNote(context.Background(), ev)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if !created {
		t.Error("first call should create")
	}

	n2, created, err := s.CreateOrGetEventNote(context.Background(), ev)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if created {
		t.Error("second call must not create")
	}
	if n1.Path != n2.Path {
		t.Errorf("paths differ: %q vs %q", n1.Path, n2.Path)
	}
	if len(s.ListNotes(models.KindEvent)) != 1 {
		t.Error("expected exactly one note file")
	}
}

func TestCreateOrGetEventNote_SecondCallKeepsContent(t *testing.T) {
	s, files := newTestStore(t, nil)
	ev := testEvent()

	n, _, err := s.CreateOrGetEventNote(context.Background(), ev)
	if err != nil {
		t.Fatal(err)
	}
	// Simulate an external edit between runs.
	edited := "---\ntitle: Weekly Standup\n---\n\nuser content\n"
	if err := files.Write(n.Path, []byte(edited)); err != nil {
		t.Fatal(err)
	}

	n2, created, err := s.CreateOrGetEventNote(context.Background(), ev)
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Error("must not recreate")
	}
	if !strings.Contains(n2.Body, "user content") {
		t.Errorf("existing content replaced: %q", n2.Body)
	}
}

func TestCreateEventNote_HeaderSnapshot(t *testing.T) {
	s, _ := newTestStore(t, nil)
	ev := testEvent()

	n, _, err := s.CreateOrGetEventNote(context.Background(), ev)
	if err != nil {
		t.Fatal(err)
	}
	if n.Event == nil {
		t.Fatal("expected event snapshot in header")
	}
	if n.Event.ID != ev.ID || n.Event.Calendar != "Work" || n.Event.Location != "Room 4" {
		t.Errorf("snapshot = %+v", n.Event)
	}
	if !n.Event.Date.Equal(ev.Start) {
		t.Errorf("snapshot date = %v", n.Event.Date)
	}
	if !strings.Contains(n.Body, "## Event Details") {
		t.Errorf("template missing: %q", n.Body)
	}
	if !strings.Contains(n.Body, "> Sync on progress") {
		t.Errorf("description quote missing: %q", n.Body)
	}
}

func TestSaveLoad_RoundTripOnlyUpdatedChanges(t *testing.T) {
	s, _ := newTestStore(t, nil)
	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return created }

	n, _, err := s.CreateOrGetEventNote(context.Background(), testEvent())
	if err != nil {
		t.Fatal(err)
	}

	later := created.Add(2 * time.Hour)
	s.now = func() time.Time { return later }

	loaded, err := s.LoadNote(n.Path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveNote(loaded); err != nil {
		t.Fatal(err)
	}

	again, err := s.LoadNote(n.Path)
	if err != nil {
		t.Fatal(err)
	}
	if again.Title != n.Title {
		t.Errorf("title changed: %q", again.Title)
	}
	if !again.Created.Equal(created) {
		t.Errorf("created changed: %v", again.Created)
	}
	if len(again.Tags) != 0 {
		t.Errorf("tags changed: %v", again.Tags)
	}
	if again.Event == nil || again.Event.ID != "cal-event-42" {
		t.Errorf("event ref changed: %+v", again.Event)
	}
	if !again.Updated.Equal(later) {
		t.Errorf("updated = %v, want %v", again.Updated, later)
	}
	if again.Body != n.Body {
		t.Errorf("body changed:\n%q\nwant\n%q", again.Body, n.Body)
	}
}

func TestCreateStandaloneNote(t *testing.T) {
	s, _ := newTestStore(t, nil)
	s.now = func() time.Time { return time.Date(2025, 3, 10, 14, 5, 9, 0, time.UTC) }

	n, err := s.CreateStandaloneNote("Shopping list", []string{"home"})
	if err != nil {
		t.Fatal(err)
	}
	if n.Path != "standalone/2025-03-10_140509_Shopping_list.md" {
		t.Errorf("path = %q", n.Path)
	}
	if n.Kind != models.KindStandalone || n.IsEventNote() {
		t.Error("should be standalone")
	}
	if len(n.Tags) != 1 || n.Tags[0] != "home" {
		t.Errorf("tags = %v", n.Tags)
	}
}

func TestLoadNote_Missing(t *testing.T) {
	s, _ := newTestStore(t, nil)
	_, err := s.LoadNote("events/nope.md")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListNotes_MalformedHeaderFallsBack(t *testing.T) {
	s, files := newTestStore(t, nil)
	_, _, _ = s.CreateOrGetEventNote(context.Background(), testEvent())

	bad := "---\n: broken: yaml: {{{\n---\nraw text body\n"
	if err := files.Write("events/2025-01-01_0900_Broken_Note.md", []byte(bad)); err != nil {
		t.Fatal(err)
	}

	notes := s.ListNotes(models.KindEvent)
	if len(notes) != 2 {
		t.Fatalf("malformed note must not break listing, got %d notes", len(notes))
	}
	var broken *models.Note
	for i := range notes {
		if strings.Contains(notes[i].Path, "Broken_Note") {
			broken = &notes[i]
		}
	}
	if broken == nil {
		t.Fatal("broken note missing from listing")
	}
	if broken.Title != "2025-01-01_0900_Broken_Note" {
		t.Errorf("fallback title = %q", broken.Title)
	}
	if broken.Event != nil {
		t.Error("fallback note must have no event ref")
	}

	loaded, err := s.LoadNote(broken.Path)
	if err != nil {
		t.Fatalf("loading malformed note should not fail: %v", err)
	}
	if !strings.Contains(loaded.Body, "raw text body") {
		t.Errorf("raw body lost: %q", loaded.Body)
	}
}

func TestDeleteNote_AbsentIsNoop(t *testing.T) {
	s, _ := newTestStore(t, nil)
	before := len(s.AllNotes())
	if err := s.DeleteNote("standalone/never.md"); err != nil {
		t.Errorf("delete absent: %v", err)
	}
	if len(s.AllNotes()) != before {
		t.Error("store changed")
	}
}

func TestDeleteNote(t *testing.T) {
	s, _ := newTestStore(t, nil)
	n, err := s.CreateStandaloneNote("Bye", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteNote(n.Path); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadNote(n.Path); !errors.Is(err, apperr.ErrNotFound) {
		t.Error("note should be gone")
	}
}

func TestEnrichment_InjectedAtCreationOnly(t *testing.T) {
	enricher := &stubEnricher{markdown: "## Indico Agenda\n\n**09:00** - Opening talk\n"}
	s, _ := newTestStore(t, enricher)

	n, _, err := s.CreateOrGetEventNote(context.Background(), testEvent())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(n.Body, "## Indico Agenda") {
		t.Errorf("agenda missing from body: %q", n.Body)
	}

	_, _, err = s.CreateOrGetEventNote(context.Background(), testEvent())
	if err != nil {
		t.Fatal(err)
	}
	if enricher.calls != 1 {
		t.Errorf("enricher called %d times, want 1 (creation only)", enricher.calls)
	}
}

func TestEnrichment_EmptyResultProducesBaseNote(t *testing.T) {
	s, _ := newTestStore(t, &stubEnricher{markdown: ""})

	n, _, err := s.CreateOrGetEventNote(context.Background(), testEvent())
	if err != nil {
		t.Fatalf("creation must not fail on empty enrichment: %v", err)
	}
	if strings.Contains(n.Body, "Agenda") {
		t.Errorf("unexpected agenda section: %q", n.Body)
	}
	if !strings.Contains(n.Body, "## Action Items") {
		t.Errorf("base template incomplete: %q", n.Body)
	}
}
