package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/halvard/daybook/internal/sorting"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	tabActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).Padding(0, 1)
	tabIdleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	warnStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n")

	switch m.mode {
	case modeHelp:
		b.WriteString(helpView())
	case modePreview:
		b.WriteString(titleStyle.Render(m.previewTitle))
		b.WriteString("\n")
		b.WriteString(m.preview.View())
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("esc close · up/down scroll"))
	case modeSearch:
		b.WriteString(m.searchView())
	case modeSort:
		b.WriteString(m.sortView())
	case modeNewNote:
		b.WriteString(promptStyle.Render("New standalone note"))
		b.WriteString("\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("enter create · esc cancel"))
	case modeGotoDate:
		b.WriteString(promptStyle.Render("Jump to date"))
		b.WriteString("\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("enter jump · esc cancel"))
	default:
		b.WriteString(m.listView())
	}

	b.WriteString("\n")
	if m.denied {
		b.WriteString(warnStyle.Render("Calendar access denied. Standalone notes remain available."))
		b.WriteString("\n")
	}
	b.WriteString(statusStyle.Render(m.status))
	return b.String()
}

func (m Model) headerView() string {
	span := m.day.Format("Mon, Jan 2 2006")
	if m.weekView {
		span = "Week of " + m.day.Format("Jan 2 2006")
	}
	if m.loadingEvents {
		span += " (loading)"
	}

	tabs := []string{"1 Events", "2 Notes", "3 Todos"}
	var rendered []string
	for i, label := range tabs {
		if tab(i) == m.tab {
			rendered = append(rendered, tabActiveStyle.Render(label))
		} else {
			rendered = append(rendered, tabIdleStyle.Render(label))
		}
	}
	return titleStyle.Render("daybook") + "  " + span + "\n" + strings.Join(rendered, " ")
}

func (m Model) listView() string {
	switch m.tab {
	case tabEvents:
		return m.eventsView()
	case tabNotes:
		return m.notesView()
	default:
		return m.todosView()
	}
}

func (m Model) eventsView() string {
	if len(m.events) == 0 {
		return dimStyle.Render("No events for this day.")
	}
	var b strings.Builder
	for i, ev := range m.events {
		noteMark := " "
		if m.store.HasNoteForEvent(ev) {
			noteMark = "*"
		}
		line := fmt.Sprintf("%-11s %-10s %-40s %s", ev.DateStr(), ev.TimeStr(), truncate(ev.Title, 40), ev.CalendarName)
		line = noteMark + " " + line
		if i == m.cursor[tabEvents] {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("* has note"))
	return b.String()
}

func (m Model) notesView() string {
	if len(m.notes) == 0 {
		return dimStyle.Render("No notes yet. Press n to create one.")
	}
	var b strings.Builder
	for i, n := range m.notes {
		kind := "S"
		if n.IsEventNote() {
			kind = "E"
		}
		tags := strings.Join(n.Tags, ",")
		line := fmt.Sprintf("%s %-40s %-16s %-11s %s",
			kind, truncate(n.Title, 40), truncate(tags, 16),
			n.SortDate().Format("2006-01-02"), n.Updated.Format("2006-01-02"))
		if i == m.cursor[tabNotes] {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) todosView() string {
	if len(m.todos) == 0 {
		return dimStyle.Render("No todos found. Add #todo lines to your notes.")
	}
	var b strings.Builder
	for i, t := range m.todos {
		line := fmt.Sprintf("[ ] %-50s %-25s L%d",
			truncate(t.Content, 50), truncate(selectedTodoTitle(t), 25), t.Line)
		if i == m.cursor[tabTodos] {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("space complete · o open note"))
	return b.String()
}

func (m Model) searchView() string {
	var b strings.Builder
	b.WriteString(promptStyle.Render("Search"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if len(m.searchResults) == 0 {
		b.WriteString(dimStyle.Render("Type at least 2 characters."))
	}
	for i, r := range m.searchResults {
		line := truncate(r.Title, 40)
		if r.Snippet != "" {
			line += "  " + dimStyle.Render(truncate(r.Snippet, 60))
		}
		if i == m.searchCursor {
			line = selectedStyle.Render(truncate(r.Title, 40)) + "  " + dimStyle.Render(truncate(r.Snippet, 60))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter open · up/down move · esc cancel"))
	return b.String()
}

func (m Model) sortView() string {
	var b strings.Builder
	b.WriteString(promptStyle.Render("Sort notes by"))
	b.WriteString("\n\n")
	for i, key := range sorting.Keys {
		line := "  " + key.Label()
		if i == m.sortCursor {
			line = selectedStyle.Render("> " + key.Label())
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter select · esc cancel"))
	return b.String()
}

func helpView() string {
	rows := []string{
		"o/enter  open or create note",
		"n        new standalone note",
		"s        search notes",
		"p        preview note",
		"d        delete note (confirm)",
		"S        change sort key",
		"v        toggle day/week view",
		"r        refresh",
		"g        jump to date",
		"t        today",
		"left/right  previous/next day",
		"w/b      forward/back one week",
		"tab 1 2 3  switch tab",
		"space    complete todo",
		"q        quit",
	}
	return promptStyle.Render("Keys") + "\n\n" + strings.Join(rows, "\n")
}

// renderMarkdown renders note markdown for the preview pane, falling
// back to the raw text when rendering fails.
func renderMarkdown(body string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return body
	}
	out, err := r.Render(body)
	if err != nil {
		return body
	}
	return out
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return string(runes[:n])
	}
	return string(runes[:n-1]) + "…"
}
