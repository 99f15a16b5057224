// Package ui implements the terminal interface: a tabbed list of
// calendar events, notes, and todos, with modal flows for search,
// note creation, deletion, date jumps, and sorting. The UI owns no
// state of its own beyond cursors and the selected sort key; lists are
// re-fetched from the store and calendar provider on every refresh.
package ui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/halvard/daybook/internal/calendar"
	"github.com/halvard/daybook/internal/editor"
	"github.com/halvard/daybook/internal/index"
	"github.com/halvard/daybook/internal/models"
	"github.com/halvard/daybook/internal/notestore"
	"github.com/halvard/daybook/internal/sorting"
)

type tab int

const (
	tabEvents tab = iota
	tabNotes
	tabTodos
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeNewNote
	modeConfirmDelete
	modeGotoDate
	modeSort
	modeHelp
	modePreview
)

// Model is the bubbletea model for the whole application.
type Model struct {
	store    *notestore.Store
	provider calendar.Provider
	launcher *editor.Launcher
	logger   *slog.Logger

	day      time.Time
	weekView bool

	tab    tab
	mode   mode
	cursor [3]int

	events []models.Event
	notes  []models.Note
	todos  []models.TodoItem

	sortKey    sorting.Key
	sortCursor int

	input textinput.Model

	searchIdx     *index.Index
	searchResults []index.Result
	searchCursor  int

	preview      viewport.Model
	previewTitle string

	pendingDelete string // note path awaiting confirmation
	status        string
	denied        bool
	loadingEvents bool

	width  int
	height int
}

// New wires the model to its collaborators. provider may be nil when
// no calendar sources are configured; the notes and todos tabs remain
// fully usable.
func New(store *notestore.Store, provider calendar.Provider, launcher *editor.Launcher, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 40

	return Model{
		store:    store,
		provider: provider,
		launcher: launcher,
		logger:   logger,
		day:      time.Now(),
		input:    ti,
		preview:  viewport.New(80, 20),
		status:   "Press ? for help",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadEventsCmd(), m.loadNotesCmd())
}

// Messages.

type eventsMsg struct {
	events []models.Event
	err    error
}

type notesMsg struct {
	notes []models.Note
	todos []models.TodoItem
}

type editorFinishedMsg struct{ err error }

// FileChangedMsg is sent from outside the program when the notes tree
// changes on disk, typically after an external editor save.
type FileChangedMsg struct{}

// Commands.

func (m Model) loadEventsCmd() tea.Cmd {
	provider := m.provider
	day, week := m.day, m.weekView
	return func() tea.Msg {
		if provider == nil {
			return eventsMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		from, to := calendar.DayWindow(day)
		if week {
			from, to = calendar.WeekWindow(day)
		}
		events, err := provider.Events(ctx, from, to)
		return eventsMsg{events: sorting.Events(events), err: err}
	}
}

func (m Model) loadNotesCmd() tea.Cmd {
	store := m.store
	key := m.sortKey
	return func() tea.Msg {
		return notesMsg{
			notes: sorting.Notes(store.AllNotes(), key),
			todos: store.ListTodos(),
		}
	}
}

// openInEditor suspends the TUI and runs the editor on the note file.
func (m Model) openInEditor(path string) tea.Cmd {
	cmd := m.launcher.Cmd(m.store.AbsPath(path))
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}
