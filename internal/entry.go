// Package internal provides the main application initialization and
// runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/halvard/daybook/internal/calendar"
	"github.com/halvard/daybook/internal/editor"
	"github.com/halvard/daybook/internal/indico"
	"github.com/halvard/daybook/internal/mcpserver"
	"github.com/halvard/daybook/internal/notestore"
	"github.com/halvard/daybook/internal/storage"
	"github.com/halvard/daybook/internal/ui"
)

// Run starts the terminal UI with the given options.
func Run(ctx context.Context, opts ...Option) error {
	cfg, logger, logFile, err := setup(opts)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	store, _, err := buildStore(cfg, logger)
	if err != nil {
		return err
	}

	var provider calendar.Provider
	if len(cfg.Calendar.Sources) > 0 {
		var sources []calendar.Source
		for _, s := range cfg.Calendar.Sources {
			sources = append(sources, calendar.Source{ID: s.ID, Name: s.Name, URL: s.URL})
		}
		provider = calendar.NewClient(sources, cfg.Calendar.FetchTimeout(), logger)
	}

	launcher := editor.New(cfg.Editor.Command)
	model := ui.New(store, provider, launcher, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())

	if err := runProgram(ctx, program, cfg.Notes.Path, logger); err != nil {
		logger.Error("application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("stopped")
	return nil
}

// runProgram runs the terminal program alongside the notes watcher and
// a signal handler. The program exiting (quit key or error) cancels the
// shared context so the helper goroutines unwind and Wait returns.
func runProgram(ctx context.Context, program *tea.Program, notesPath string, logger *slog.Logger) error {
	g, gCtx := errgroup.WithContext(ctx)
	runCtx, stop := context.WithCancel(gCtx)
	defer stop()

	// Watch the notes tree so external editor saves refresh the lists.
	g.Go(func() error {
		err := notestore.Watch(runCtx, notesPath, logger, func() {
			program.Send(ui.FileChangedMsg{})
		})
		if err != nil {
			logger.Warn("watcher unavailable", slog.String("error", err.Error()))
		}
		return nil
	})

	g.Go(func() error {
		defer stop()
		_, err := program.Run()
		return err
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("received shutdown signal", slog.String("signal", sig.String()))
			program.Quit()
		case <-runCtx.Done():
		}
		return nil
	})

	return g.Wait()
}

// RunMCP starts the MCP stdio server over the same note store.
func RunMCP(ctx context.Context, opts ...Option) error {
	cfg, logger, logFile, err := setup(opts)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	store, enricher, err := buildStore(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("starting MCP server", slog.String("notes_path", cfg.Notes.Path))
	return mcpserver.New(store, enricher).ServeStdio()
}

// setup applies options and initializes logging. The UI owns stdout,
// so the structured JSON log goes to a file.
func setup(opts []Option) (*Config, *slog.Logger, *os.File, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, nil, nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := app.logger
	var logFile *os.File
	if logger == nil {
		var err error
		logFile, err = os.OpenFile(cfg.App.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open log file: %w", err)
		}
		logger = slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
		slog.SetDefault(logger)
	}

	logger.Info("configuration loaded",
		slog.String("notes_path", cfg.Notes.Path),
		slog.String("editor", cfg.Editor.Command),
		slog.Int("calendar_sources", len(cfg.Calendar.Sources)),
		slog.String("log_level", cfg.App.LogLevel.String()))

	return cfg, logger, logFile, nil
}

// buildStore initializes the notes directory, file storage, and the
// store with its agenda enricher.
func buildStore(cfg *Config, logger *slog.Logger) (*notestore.Store, notestore.Enricher, error) {
	if err := os.MkdirAll(cfg.Notes.Path, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create notes dir: %w", err)
	}
	files, err := storage.NewFS(cfg.Notes.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}

	enricher := indico.NewClient(cfg.Indico.Token, cfg.Indico.Timeout(), logger)
	store := notestore.New(files, enricher, logger)
	if err := store.EnsureLayout(); err != nil {
		return nil, nil, fmt.Errorf("init note layout: %w", err)
	}
	return store, enricher, nil
}
