// Package models defines the domain types for Daybook.
package models

import (
	"fmt"
	"time"
)

// Event is the normalized representation of a calendar event as provided
// by a calendar source for a single run. The ID is stable across runs for
// the same underlying event and is the join key to notes.
type Event struct {
	ID           string
	Title        string
	CalendarName string
	Location     string
	Description  string
	Start        time.Time
	End          time.Time
	AllDay       bool
}

// DateStr returns the event date formatted as YYYY-MM-DD.
func (e Event) DateStr() string {
	return e.Start.Format("2006-01-02")
}

// TimeStr returns the formatted time range, or "All day".
func (e Event) TimeStr() string {
	if e.AllDay {
		return "All day"
	}
	return fmt.Sprintf("%s - %s", e.Start.Format("15:04"), e.End.Format("15:04"))
}

// DurationStr returns a human-readable duration ("1h 30m", "45m", "All day").
func (e Event) DurationStr() string {
	if e.AllDay {
		return "All day"
	}
	d := e.End.Sub(e.Start)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours > 0 {
		if minutes > 0 {
			return fmt.Sprintf("%dh %dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", minutes)
}
