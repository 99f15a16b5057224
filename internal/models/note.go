package models

import (
	"path/filepath"
	"strings"
	"time"
)

// NoteKind distinguishes the two store partitions.
type NoteKind string

const (
	KindEvent      NoteKind = "event"
	KindStandalone NoteKind = "standalone"
)

// EventRef is a snapshot of the calendar event a note was created for.
// It is embedded in the note header at creation time and never updated,
// so renamed or moved calendar events do not retroactively change notes.
type EventRef struct {
	ID       string    `yaml:"id"`
	Title    string    `yaml:"title"`
	Date     time.Time `yaml:"date"`
	Calendar string    `yaml:"calendar"`
	Location string    `yaml:"location"`
	AllDay   bool      `yaml:"all_day"`
}

// Note represents a markdown note file. Path is relative to the notes
// root and doubles as the note's primary key within its partition.
// Body is empty for notes returned by list operations.
type Note struct {
	Path    string
	Kind    NoteKind
	Title   string
	Created time.Time
	Updated time.Time
	Tags    []string
	Event   *EventRef
	Body    string
}

// IsEventNote reports whether the note is linked to a calendar event.
func (n Note) IsEventNote() bool {
	return n.Event != nil
}

// SortDate returns the event date for event-linked notes, otherwise the
// creation time. This is the "date" sort key.
func (n Note) SortDate() time.Time {
	if n.Event != nil {
		return n.Event.Date
	}
	return n.Created
}

// Stem returns the filename without directory or extension, used as the
// title fallback for notes with a missing or malformed header.
func (n Note) Stem() string {
	return strings.TrimSuffix(filepath.Base(n.Path), ".md")
}

// TodoItem is a single "#todo" line found in a note body.
type TodoItem struct {
	Path      string // note path relative to the notes root
	Line      int    // 1-based line number
	Content   string // text after the #todo marker
	FullLine  string // the complete original line
	NoteTitle string
}
