package calendar

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/halvard/daybook/internal/apperr"
	"github.com/halvard/daybook/internal/models"
)

// Source is a single ICS subscription.
type Source struct {
	ID   string
	Name string // calendar display name; falls back to ID
	URL  string
}

// Client implements Provider over one or more ICS feeds.
type Client struct {
	sources []Source
	client  *http.Client
	logger  *slog.Logger
}

// NewClient creates an ICS-backed calendar client. timeout bounds each
// feed fetch.
func NewClient(sources []Source, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		sources: sources,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Events fetches every source, parses the feeds, and expands
// recurrences into [from, to). A failing source is logged and skipped
// so one broken feed does not hide the others; when every source fails
// the first error is returned — wrapping apperr.ErrAccessDenied when
// the feed rejected our credentials.
func (c *Client) Events(ctx context.Context, from, to time.Time) ([]models.Event, error) {
	var out []models.Event
	var firstErr error
	fetched := 0

	for _, src := range c.sources {
		body, err := c.fetch(ctx, src)
		if err != nil {
			c.logger.Warn("calendar: fetch failed", slog.String("source", src.ID), slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		fetched++

		raws, err := parseICS(src, body, c.logger)
		if err != nil {
			c.logger.Warn("calendar: parse failed", slog.String("source", src.ID), slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		for _, raw := range raws {
			out = append(out, expandOccurrences(raw, from, to)...)
		}
	}

	if fetched == 0 && firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func (c *Client) fetch(ctx context.Context, src Source) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("calendar: request %s: %w", src.ID, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar: fetch %s: %w", src.ID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("calendar: read %s: %w", src.ID, readErr)
		}
		return body, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("calendar: %s: %w", src.ID, apperr.ErrAccessDenied)
	default:
		return nil, fmt.Errorf("calendar: fetch %s: %s", src.ID, resp.Status)
	}
}

// rawEvent is a VEVENT before recurrence expansion.
type rawEvent struct {
	source      Source
	uid         string
	summary     string
	description string
	location    string
	start       time.Time
	end         time.Time
	allDay      bool
	rrule       string
}

// parseICS parses one feed. VEVENTs that fail to parse are logged and
// skipped, never aborting the whole feed.
func parseICS(src Source, body []byte, logger *slog.Logger) ([]rawEvent, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var out []rawEvent
	for _, ve := range cal.Events() {
		raw, perr := parseVEvent(src, ve)
		if perr != nil {
			logger.Warn("calendar: skipping vevent", slog.String("source", src.ID), slog.String("error", perr.Error()))
			continue
		}
		out = append(out, raw)
	}
	return out, nil
}

func parseVEvent(src Source, ve *ical.VEvent) (rawEvent, error) {
	out := rawEvent{source: src}

	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return out, fmt.Errorf("missing UID")
	}
	out.uid = uid.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.location = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.rrule = p.Value
	}

	// All-day: DTSTART carries VALUE=DATE or a date-only value.
	if p := ve.GetProperty(ical.ComponentPropertyDtStart); p != nil {
		if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			out.allDay = true
		}
		if !strings.Contains(p.Value, "T") {
			out.allDay = true
		}
	}

	var err error
	if out.allDay {
		out.start, err = ve.GetAllDayStartAt()
	} else {
		out.start, err = ve.GetStartAt()
	}
	if err != nil {
		return out, fmt.Errorf("dtstart: %w", err)
	}

	if out.allDay {
		out.end, err = ve.GetAllDayEndAt()
	} else {
		out.end, err = ve.GetEndAt()
	}
	if err != nil || !out.end.After(out.start) {
		// Missing or bogus DTEND: default to one hour, or one day for
		// all-day events.
		if out.allDay {
			out.end = out.start.AddDate(0, 0, 1)
		} else {
			out.end = out.start.Add(time.Hour)
		}
	}

	return out, nil
}
