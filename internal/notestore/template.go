package notestore

import (
	"fmt"
	"strings"

	"github.com/halvard/daybook/internal/models"
)

// eventNoteBody renders the initial body for an event note: event
// details, the event description as a quote, an optional agenda block,
// and empty sections for the user to fill in.
func eventNoteBody(ev models.Event, agenda string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", ev.Title)
	b.WriteString("## Event Details\n\n")
	fmt.Fprintf(&b, "- **Date**: %s\n", ev.DateStr())
	fmt.Fprintf(&b, "- **Time**: %s\n", ev.TimeStr())
	fmt.Fprintf(&b, "- **Duration**: %s\n", ev.DurationStr())
	fmt.Fprintf(&b, "- **Calendar**: %s\n", ev.CalendarName)
	if ev.Location != "" {
		fmt.Fprintf(&b, "- **Location**: %s\n", ev.Location)
	}

	b.WriteString("\n## Notes\n\n")
	if desc := strings.TrimSpace(ev.Description); desc != "" {
		for _, line := range strings.Split(desc, "\n") {
			fmt.Fprintf(&b, "> %s\n", line)
		}
		b.WriteString("\n")
	}

	if agenda != "" {
		b.WriteString(agenda)
		b.WriteString("\n")
	}

	b.WriteString("## Action Items\n\n- [ ] \n\n## Summary\n\n")
	return b.String()
}

// standaloneNoteBody renders the initial body for a standalone note.
func standaloneNoteBody(title string) string {
	return fmt.Sprintf("# %s\n\n## Notes\n\n", title)
}
