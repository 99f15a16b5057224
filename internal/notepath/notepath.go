// Package notepath derives the canonical file path for a note from its
// identity. The path is the note's primary key: existence of a note for
// an event is a pure filesystem lookup on the derived path, so no
// separate index of identities is ever kept.
package notepath

import (
	"fmt"
	"path"
	"regexp"
	"time"

	"github.com/halvard/daybook/internal/models"
)

// Store partition directories, relative to the notes root.
const (
	EventsDir     = "events"
	StandaloneDir = "standalone"
)

const maxTitleRunes = 100

var nonAlnumRe = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Sanitize converts a title into a safe filename fragment: runs of
// non-alphanumeric characters collapse to a single underscore, edge
// underscores are trimmed, and the result is capped at 100 runes.
func Sanitize(title string) string {
	safe := nonAlnumRe.ReplaceAllString(title, "_")
	// Trim leading/trailing separators left by the collapse.
	for len(safe) > 0 && safe[0] == '_' {
		safe = safe[1:]
	}
	for len(safe) > 0 && safe[len(safe)-1] == '_' {
		safe = safe[:len(safe)-1]
	}
	runes := []rune(safe)
	if len(runes) > maxTitleRunes {
		safe = string(runes[:maxTitleRunes])
	}
	if safe == "" {
		return "untitled"
	}
	return safe
}

// EventFilename derives the deterministic filename for an event note:
// {YYYY-MM-DD}_{HHMM|allday}_{sanitized-title}.md. The derivation must
// stay bit-for-bit stable for note identity to round-trip against
// existing stores.
func EventFilename(ev models.Event) string {
	timePart := "allday"
	if !ev.AllDay {
		timePart = ev.Start.Format("1504")
	}
	return fmt.Sprintf("%s_%s_%s.md", ev.Start.Format("2006-01-02"), timePart, Sanitize(ev.Title))
}

// EventPath returns the store-relative path for an event note.
func EventPath(ev models.Event) string {
	return path.Join(EventsDir, EventFilename(ev))
}

// StandaloneFilename derives the filename for a standalone note. The
// creation timestamp stands in for a natural dedup key.
func StandaloneFilename(title string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s.md", now.Format("2006-01-02"), now.Format("150405"), Sanitize(title))
}

// StandalonePath returns the store-relative path for a standalone note.
func StandalonePath(title string, now time.Time) string {
	return path.Join(StandaloneDir, StandaloneFilename(title, now))
}

// KindOf reports which partition a store-relative path belongs to.
func KindOf(p string) models.NoteKind {
	if path.Dir(p) == EventsDir {
		return models.KindEvent
	}
	return models.KindStandalone
}
