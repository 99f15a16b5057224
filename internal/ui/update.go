package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/halvard/daybook/internal/apperr"
	"github.com/halvard/daybook/internal/index"
	"github.com/halvard/daybook/internal/models"
	"github.com/halvard/daybook/internal/notepath"
	"github.com/halvard/daybook/internal/sorting"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = msg.Width - 10
		m.preview.Width = msg.Width - 4
		m.preview.Height = msg.Height - 6
		return m, nil

	case eventsMsg:
		m.loadingEvents = false
		m.events = msg.events
		m.denied = errors.Is(msg.err, apperr.ErrAccessDenied)
		if msg.err != nil && !m.denied {
			m.status = fmt.Sprintf("Calendar error: %v", msg.err)
		}
		m.cursor[tabEvents] = clampCursor(m.cursor[tabEvents], len(m.events))
		return m, nil

	case notesMsg:
		m.notes = msg.notes
		m.todos = msg.todos
		m.cursor[tabNotes] = clampCursor(m.cursor[tabNotes], len(m.notes))
		m.cursor[tabTodos] = clampCursor(m.cursor[tabTodos], len(m.todos))
		return m, nil

	case editorFinishedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Editor failed: %v", msg.err)
		} else {
			m.status = "Editor closed"
		}
		return m, m.loadNotesCmd()

	case FileChangedMsg:
		return m, m.loadNotesCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.updateSearch(msg)
	case modeNewNote:
		return m.updateNewNote(msg)
	case modeConfirmDelete:
		return m.updateConfirmDelete(msg)
	case modeGotoDate:
		return m.updateGotoDate(msg)
	case modeSort:
		return m.updateSort(msg)
	case modeHelp:
		m.mode = modeList
		return m, nil
	case modePreview:
		return m.updatePreview(msg)
	}
	return m.updateList(msg)
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "tab":
		m.tab = (m.tab + 1) % 3
	case "1":
		m.tab = tabEvents
	case "2":
		m.tab = tabNotes
	case "3":
		m.tab = tabTodos

	case "up", "k":
		m.cursor[m.tab] = clampCursor(m.cursor[m.tab]-1, m.listLen())
	case "down", "j":
		m.cursor[m.tab] = clampCursor(m.cursor[m.tab]+1, m.listLen())

	case "n":
		m.mode = modeNewNote
		m.input.Placeholder = "Note title"
		m.input.SetValue("")
		m.input.Focus()
		return m, nil

	case "r":
		m.loadingEvents = true
		m.status = "Refreshing"
		return m, tea.Batch(m.loadEventsCmd(), m.loadNotesCmd())

	case "g":
		m.mode = modeGotoDate
		m.input.Placeholder = "YYYY-MM-DD"
		m.input.SetValue("")
		m.input.Focus()
		return m, nil

	case "t":
		m.day = time.Now()
		m.loadingEvents = true
		return m, m.loadEventsCmd()
	case "left":
		m.day = m.day.AddDate(0, 0, -1)
		m.loadingEvents = true
		return m, m.loadEventsCmd()
	case "right":
		m.day = m.day.AddDate(0, 0, 1)
		m.loadingEvents = true
		return m, m.loadEventsCmd()
	case "w":
		m.day = m.day.AddDate(0, 0, 7)
		m.loadingEvents = true
		return m, m.loadEventsCmd()
	case "b":
		m.day = m.day.AddDate(0, 0, -7)
		m.loadingEvents = true
		return m, m.loadEventsCmd()
	case "v":
		m.weekView = !m.weekView
		m.loadingEvents = true
		return m, m.loadEventsCmd()

	case "o", "enter":
		return m.openSelected()

	case "p":
		return m.previewSelected()

	case "s":
		return m.startSearch()

	case "d":
		return m.requestDelete()

	case "S":
		m.mode = modeSort
		m.sortCursor = int(m.sortKey)
		return m, nil

	case " ":
		if m.tab == tabTodos {
			return m.completeSelectedTodo()
		}

	case "?":
		m.mode = modeHelp
	}
	return m, nil
}

func (m Model) listLen() int {
	switch m.tab {
	case tabEvents:
		return len(m.events)
	case tabNotes:
		return len(m.notes)
	default:
		return len(m.todos)
	}
}

// openSelected opens the note for the current selection, creating it
// first for events that have none yet.
func (m Model) openSelected() (tea.Model, tea.Cmd) {
	switch m.tab {
	case tabEvents:
		if len(m.events) == 0 {
			return m, nil
		}
		ev := m.events[m.cursor[tabEvents]]
		note, created, err := m.store.CreateOrGetEventNote(context.Background(), ev)
		if err != nil {
			m.status = fmt.Sprintf("Create failed: %v", err)
			return m, nil
		}
		if created {
			m.status = "Created " + note.Path
		}
		return m, m.openInEditor(note.Path)

	case tabNotes:
		if len(m.notes) == 0 {
			return m, nil
		}
		return m, m.openInEditor(m.notes[m.cursor[tabNotes]].Path)

	default:
		if len(m.todos) == 0 {
			return m, nil
		}
		return m, m.openInEditor(m.todos[m.cursor[tabTodos]].Path)
	}
}

func (m Model) previewSelected() (tea.Model, tea.Cmd) {
	var path string
	switch m.tab {
	case tabNotes:
		if len(m.notes) == 0 {
			return m, nil
		}
		path = m.notes[m.cursor[tabNotes]].Path
	case tabEvents:
		if len(m.events) == 0 {
			return m, nil
		}
		ev := m.events[m.cursor[tabEvents]]
		if !m.store.HasNoteForEvent(ev) {
			m.status = "No note yet. Press o to create one."
			return m, nil
		}
		path = notepath.EventPath(ev)
	default:
		return m, nil
	}

	note, err := m.store.LoadNote(path)
	if err != nil {
		m.status = fmt.Sprintf("Load failed: %v", err)
		return m, nil
	}
	m.previewTitle = note.Title
	m.preview.SetContent(renderMarkdown(note.Body, m.preview.Width))
	m.preview.GotoTop()
	m.mode = modePreview
	return m, nil
}

func (m Model) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "p":
		m.mode = modeList
		return m, nil
	}
	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

// startSearch rebuilds the search index from the current store
// contents. The index lives only for this search session.
func (m Model) startSearch() (tea.Model, tea.Cmd) {
	idx, err := index.Build(m.store.Snapshot())
	if err != nil {
		m.status = fmt.Sprintf("Search unavailable: %v", err)
		return m, nil
	}
	m.searchIdx = idx
	m.searchResults = nil
	m.searchCursor = 0
	m.mode = modeSearch
	m.input.Placeholder = "Search notes (min 2 chars)"
	m.input.SetValue("")
	m.input.Focus()
	return m, nil
}

func (m Model) closeSearch() Model {
	if m.searchIdx != nil {
		m.searchIdx.Close()
		m.searchIdx = nil
	}
	m.searchResults = nil
	m.input.Blur()
	m.mode = modeList
	return m
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closeSearch(), nil
	case "enter":
		if len(m.searchResults) == 0 {
			return m, nil
		}
		path := m.searchResults[m.searchCursor].Path
		m = m.closeSearch()
		return m, m.openInEditor(path)
	case "up":
		m.searchCursor = clampCursor(m.searchCursor-1, len(m.searchResults))
		return m, nil
	case "down":
		m.searchCursor = clampCursor(m.searchCursor+1, len(m.searchResults))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.searchIdx != nil {
		results, err := m.searchIdx.Search(m.input.Value(), 50)
		if err != nil {
			m.status = fmt.Sprintf("Search failed: %v", err)
		} else {
			m.searchResults = results
			m.searchCursor = clampCursor(m.searchCursor, len(results))
		}
	}
	return m, cmd
}

func (m Model) updateNewNote(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.input.Value())
		if title == "" {
			m.status = "Title cannot be empty"
			return m, nil
		}
		note, err := m.store.CreateStandaloneNote(title, nil)
		if err != nil {
			m.status = fmt.Sprintf("Create failed: %v", err)
			return m, nil
		}
		m.mode = modeList
		m.input.Blur()
		m.status = "Created " + note.Path
		return m, tea.Batch(m.openInEditor(note.Path), m.loadNotesCmd())
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) requestDelete() (tea.Model, tea.Cmd) {
	switch m.tab {
	case tabNotes:
		if len(m.notes) == 0 {
			return m, nil
		}
		m.pendingDelete = m.notes[m.cursor[tabNotes]].Path
	case tabEvents:
		if len(m.events) == 0 {
			return m, nil
		}
		ev := m.events[m.cursor[tabEvents]]
		if !m.store.HasNoteForEvent(ev) {
			m.status = "No note to delete"
			return m, nil
		}
		m.pendingDelete = notepath.EventPath(ev)
	default:
		return m, nil
	}
	m.mode = modeConfirmDelete
	m.status = fmt.Sprintf("Delete %s? y/n", m.pendingDelete)
	return m, nil
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		path := m.pendingDelete
		m.pendingDelete = ""
		m.mode = modeList
		if err := m.store.DeleteNote(path); err != nil {
			m.status = fmt.Sprintf("Delete failed: %v", err)
			return m, nil
		}
		m.status = "Deleted " + path
		return m, m.loadNotesCmd()
	case "n", "N", "esc":
		m.pendingDelete = ""
		m.mode = modeList
		m.status = "Delete cancelled"
	}
	return m, nil
}

func (m Model) updateGotoDate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.input.Blur()
		return m, nil
	case "enter":
		day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(m.input.Value()), time.Local)
		if err != nil {
			m.status = "Invalid date, use YYYY-MM-DD"
			return m, nil
		}
		m.day = day
		m.mode = modeList
		m.input.Blur()
		m.loadingEvents = true
		return m, m.loadEventsCmd()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateSort(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		return m, nil
	case "up", "k":
		m.sortCursor = clampCursor(m.sortCursor-1, len(sorting.Keys))
	case "down", "j":
		m.sortCursor = clampCursor(m.sortCursor+1, len(sorting.Keys))
	case "enter":
		m.sortKey = sorting.Keys[m.sortCursor]
		m.mode = modeList
		m.notes = sorting.Notes(m.notes, m.sortKey)
		m.status = "Sorted by " + m.sortKey.Label()
	}
	return m, nil
}

func (m Model) completeSelectedTodo() (tea.Model, tea.Cmd) {
	if len(m.todos) == 0 {
		return m, nil
	}
	todo := m.todos[m.cursor[tabTodos]]
	done, err := m.store.CompleteTodo(todo)
	if err != nil {
		m.status = fmt.Sprintf("Complete failed: %v", err)
		return m, nil
	}
	if !done {
		m.status = "Todo changed on disk, refreshing"
	} else {
		m.status = "Completed todo"
	}
	return m, m.loadNotesCmd()
}

func selectedTodoTitle(t models.TodoItem) string {
	if t.NoteTitle != "" {
		return t.NoteTitle
	}
	return t.Path
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
