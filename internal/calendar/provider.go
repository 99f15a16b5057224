// Package calendar provides the read-only event feed. The core treats
// the provider as an external collaborator: it returns normalized
// events for a time window and may fail with an access-denied
// condition that the UI surfaces without crashing.
package calendar

import (
	"context"
	"time"

	"github.com/halvard/daybook/internal/models"
)

// Provider yields calendar events for a half-open window [from, to).
type Provider interface {
	Events(ctx context.Context, from, to time.Time) ([]models.Event, error)
}

// DayWindow returns the window covering the day containing t.
func DayWindow(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return from, from.AddDate(0, 0, 1)
}

// WeekWindow returns the Monday-to-Monday window containing t.
func WeekWindow(t time.Time) (time.Time, time.Time) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	from := day.AddDate(0, 0, -offset)
	return from, from.AddDate(0, 0, 7)
}
