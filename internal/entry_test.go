package internal

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/halvard/daybook/internal/testutil"
)

// quitModel exits as soon as the program starts.
type quitModel struct{}

func (quitModel) Init() tea.Cmd                       { return tea.Quit }
func (quitModel) Update(tea.Msg) (tea.Model, tea.Cmd) { return quitModel{}, nil }
func (quitModel) View() string                        { return "" }

func TestRunProgramUnwindsAfterQuit(t *testing.T) {
	notesDir := t.TempDir()
	program := tea.NewProgram(quitModel{},
		tea.WithInput(strings.NewReader("")),
		tea.WithOutput(io.Discard))

	done := make(chan error, 1)
	go func() {
		done <- runProgram(context.Background(), program, notesDir, testutil.DiscardLogger())
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runProgram: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runProgram did not return after the program quit")
	}
}

func TestSetupWithLogger(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Notes.Path = t.TempDir()

	gotCfg, logger, logFile, err := setup([]Option{
		WithConfig(cfg),
		WithLogger(testutil.DiscardLogger()),
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if logFile != nil {
		logFile.Close()
		t.Error("expected no log file when a logger is injected")
	}
	if logger == nil {
		t.Error("expected the injected logger back")
	}
	if gotCfg != cfg {
		t.Error("expected the configured *Config back")
	}
}
