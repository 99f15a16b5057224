package indico

import (
	"fmt"
	"strings"
)

// FormatMarkdown renders an agenda as a markdown block suitable for
// embedding in a note body.
func FormatMarkdown(a Agenda) string {
	var b strings.Builder
	b.WriteString("## Indico Agenda\n\n")
	fmt.Fprintf(&b, "[View on Indico](%s)\n\n", a.URL)

	if a.Description != "" {
		fmt.Fprintf(&b, "> %s\n\n", a.Description)
	}

	if len(a.Contributions) == 0 {
		b.WriteString("*No contributions found in this event.*\n")
		return b.String()
	}

	for i, c := range a.Contributions {
		if c.StartTime != "" {
			fmt.Fprintf(&b, "**%s** - %s\n", c.StartTime, c.Title)
		} else {
			fmt.Fprintf(&b, "**%d.** %s\n", i+1, c.Title)
		}
		if len(c.Speakers) > 0 {
			fmt.Fprintf(&b, "   - *Speakers*: %s\n", strings.Join(c.Speakers, ", "))
		}
		if c.Duration != "" {
			fmt.Fprintf(&b, "   - *Duration*: %s\n", c.Duration)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
