package calendar

import (
	"time"

	"github.com/teambition/rrule-go"

	"github.com/halvard/daybook/internal/models"
)

// expandOccurrences turns a raw VEVENT into zero or more concrete
// events inside [from, to). Non-recurring events pass through when they
// overlap the window. Recurring events get one instance per occurrence,
// with an id derived from the UID and the occurrence start so the same
// instance always maps to the same note path.
func expandOccurrences(raw rawEvent, from, to time.Time) []models.Event {
	if raw.rrule == "" {
		if raw.end.After(from) && raw.start.Before(to) {
			return []models.Event{toEvent(raw, raw.uid, raw.start, raw.end)}
		}
		return nil
	}

	rule, err := rrule.StrToRRule(raw.rrule)
	if err != nil {
		// Unparseable rule: fall back to the base occurrence.
		if raw.end.After(from) && raw.start.Before(to) {
			return []models.Event{toEvent(raw, raw.uid, raw.start, raw.end)}
		}
		return nil
	}
	rule.DTStart(raw.start)

	dur := raw.end.Sub(raw.start)
	var out []models.Event
	for _, start := range rule.Between(from, to, true) {
		if !start.Before(to) {
			continue
		}
		id := raw.uid + "@" + start.UTC().Format("20060102T150405Z")
		out = append(out, toEvent(raw, id, start, start.Add(dur)))
	}
	return out
}

func toEvent(raw rawEvent, id string, start, end time.Time) models.Event {
	name := raw.source.Name
	if name == "" {
		name = raw.source.ID
	}
	return models.Event{
		ID:           id,
		Title:        raw.summary,
		CalendarName: name,
		Location:     raw.location,
		Description:  raw.description,
		Start:        start,
		End:          end,
		AllDay:       raw.allDay,
	}
}
