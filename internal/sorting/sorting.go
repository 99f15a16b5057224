// Package sorting orders note and event snapshots for list rendering.
// Sorts are pure functions of the snapshot; no sort state persists
// beyond the caller's currently selected key.
package sorting

import (
	"sort"
	"strings"

	"github.com/halvard/daybook/internal/models"
)

// Key selects the ordering for the notes list.
type Key int

const (
	DateDesc Key = iota
	DateAsc
	TitleAsc
	TitleDesc
	UpdatedDesc
	UpdatedAsc
)

// Keys lists every sort key in menu order.
var Keys = []Key{DateDesc, DateAsc, TitleAsc, TitleDesc, UpdatedDesc, UpdatedAsc}

// Label returns the user-facing description of the key.
func (k Key) Label() string {
	switch k {
	case DateDesc:
		return "Date (newest first)"
	case DateAsc:
		return "Date (oldest first)"
	case TitleAsc:
		return "Title (A-Z)"
	case TitleDesc:
		return "Title (Z-A)"
	case UpdatedDesc:
		return "Updated (newest first)"
	case UpdatedAsc:
		return "Updated (oldest first)"
	}
	return "Date (newest first)"
}

// Notes returns a sorted copy of the snapshot. The date key uses the
// event date for linked notes and the creation time otherwise; title
// comparison is case-insensitive. Ties always break by path ascending
// so the ordering is deterministic.
func Notes(notes []models.Note, key Key) []models.Note {
	out := make([]models.Note, len(notes))
	copy(out, notes)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch key {
		case DateAsc:
			if !a.SortDate().Equal(b.SortDate()) {
				return a.SortDate().Before(b.SortDate())
			}
		case DateDesc:
			if !a.SortDate().Equal(b.SortDate()) {
				return a.SortDate().After(b.SortDate())
			}
		case TitleAsc:
			at, bt := strings.ToLower(a.Title), strings.ToLower(b.Title)
			if at != bt {
				return at < bt
			}
		case TitleDesc:
			at, bt := strings.ToLower(a.Title), strings.ToLower(b.Title)
			if at != bt {
				return at > bt
			}
		case UpdatedAsc:
			if !a.Updated.Equal(b.Updated) {
				return a.Updated.Before(b.Updated)
			}
		case UpdatedDesc:
			if !a.Updated.Equal(b.Updated) {
				return a.Updated.After(b.Updated)
			}
		}
		return a.Path < b.Path
	})
	return out
}

// Events returns a copy of the event snapshot ordered by start time,
// ties broken by event id.
func Events(events []models.Event) []models.Event {
	out := make([]models.Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
