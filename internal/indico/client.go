// Package indico fetches meeting agendas from Indico instances. Event
// descriptions often carry a link like https://indico.cern.ch/event/123/;
// when one is found the JSON export API is queried and the agenda is
// rendered as a markdown block. Every failure path degrades to "no
// agenda" so note creation is never blocked by a flaky Indico server.
package indico

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"
)

// eventURLRe matches Indico event links. The scheme is captured along
// with the host so the link can be queried as found.
var eventURLRe = regexp.MustCompile(`(?i)(https?://[^/\s]+)/event/(\d+)/?`)

// Contribution is a single talk in a meeting agenda.
type Contribution struct {
	Title       string
	Speakers    []string
	StartTime   string // HH:MM:SS, empty when unknown
	Duration    string // human readable, e.g. "1h 5m"
	Description string
}

// Agenda is the meeting programme for one Indico event. Fetched is
// false when the server could not be reached or returned nothing
// usable.
type Agenda struct {
	EventID       string
	Title         string
	Description   string
	URL           string
	Contributions []Contribution
	Fetched       bool
}

// Client queries the Indico HTTP export API.
type Client struct {
	client *http.Client
	token  string
	logger *slog.Logger
}

// NewClient creates an Indico client. token may be empty for public
// events.
func NewClient(token string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		client: &http.Client{Timeout: timeout},
		token:  token,
		logger: logger,
	}
}

// FindEventURL returns the base URL and event id of the first Indico
// link in text.
func FindEventURL(text string) (base, id string, ok bool) {
	m := eventURLRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// AgendaMarkdown scans text for an Indico event link and returns the
// agenda rendered as markdown. It returns the empty string when no
// link is present or the agenda could not be fetched.
func (c *Client) AgendaMarkdown(ctx context.Context, text string) string {
	base, id, ok := FindEventURL(text)
	if !ok {
		return ""
	}
	agenda := c.FetchAgenda(ctx, base, id)
	if !agenda.Fetched {
		c.logger.Warn("indico: agenda unavailable", slog.String("event", id))
		return ""
	}
	return FormatMarkdown(agenda)
}

// Export response shapes. The Indico export API wraps everything in a
// results array.
type exportResponse struct {
	Results []eventData `json:"results"`
}

type eventData struct {
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Contributions []contribData `json:"contributions"`
}

type contribData struct {
	Title       string       `json:"title"`
	Speakers    []personData `json:"speakers"`
	Presenters  []personData `json:"presenters"`
	StartDate   *dateTime    `json:"startDate"`
	Duration    int          `json:"duration"` // minutes
	Description string       `json:"description"`
}

type personData struct {
	FullName  string `json:"fullName"`
	FullName2 string `json:"full_name"`
	Name      string `json:"name"`
}

type dateTime struct {
	Time string `json:"time"`
}

// FetchAgenda queries the export API for one event. The detailed
// endpoints are tried first; when neither yields contributions the
// plain export still provides the event title.
func (c *Client) FetchAgenda(ctx context.Context, base, id string) Agenda {
	agenda := Agenda{
		EventID: id,
		Title:   "Event " + id,
		URL:     fmt.Sprintf("%s/event/%s/", base, id),
	}

	detailed := []string{
		fmt.Sprintf("%s/export/event/%s.json?detail=contributions", base, id),
		fmt.Sprintf("%s/export/event/%s.json?detail=sessions", base, id),
	}
	for _, url := range detailed {
		ev, ok := c.fetchEvent(ctx, url)
		if !ok {
			continue
		}
		contribs := parseContributions(ev.Contributions)
		if len(contribs) == 0 {
			continue
		}
		agenda.Title = titleOr(ev.Title, agenda.Title)
		agenda.Description = ev.Description
		agenda.Contributions = contribs
		agenda.Fetched = true
		return agenda
	}

	// No contributions anywhere: at least pick up the title.
	if ev, ok := c.fetchEvent(ctx, fmt.Sprintf("%s/export/event/%s.json", base, id)); ok {
		agenda.Title = titleOr(ev.Title, agenda.Title)
		agenda.Description = ev.Description
		agenda.Fetched = true
		return agenda
	}

	return agenda
}

func (c *Client) fetchEvent(ctx context.Context, url string) (eventData, bool) {
	var zero eventData

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return zero, false
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("indico: fetch failed", slog.String("url", url), slog.String("error", err.Error()))
		return zero, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return zero, false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, false
	}
	var parsed exportResponse
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Results) == 0 {
		return zero, false
	}
	return parsed.Results[0], true
}

func parseContributions(raw []contribData) []Contribution {
	var out []Contribution
	for _, c := range raw {
		if c.Title == "" {
			continue
		}
		people := c.Speakers
		if len(people) == 0 {
			people = c.Presenters
		}
		var start string
		if c.StartDate != nil {
			start = c.StartDate.Time
		}
		out = append(out, Contribution{
			Title:       c.Title,
			Speakers:    speakerNames(people),
			StartTime:   start,
			Duration:    formatDuration(c.Duration),
			Description: c.Description,
		})
	}
	// Chronological, untimed entries last.
	sort.SliceStable(out, func(i, j int) bool {
		return sortTime(out[i].StartTime) < sortTime(out[j].StartTime)
	})
	return out
}

func sortTime(t string) string {
	if t == "" {
		return "99:99:99"
	}
	return t
}

func speakerNames(people []personData) []string {
	var names []string
	for _, p := range people {
		name := p.FullName
		if name == "" {
			name = p.FullName2
		}
		if name == "" {
			name = p.Name
		}
		if name == "" {
			continue
		}
		names = append(names, flipName(name))
	}
	return names
}

// flipName turns Indico's "Last, First" into "First Last".
func flipName(name string) string {
	first, last, ok := strings.Cut(name, ", ")
	if !ok {
		return name
	}
	return last + " " + first
}

// formatDuration renders minutes as "30m", "2h" or "1h 5m".
func formatDuration(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

func titleOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
