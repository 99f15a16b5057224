package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Notes    NotesConfig       `yaml:"notes"`
	Editor   EditorConfig      `yaml:"editor"`
	Calendar CalendarConfig    `yaml:"calendar"`
	Indico   IndicoConfig      `yaml:"indico"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Notes.Validate(); err != nil {
		return err
	}
	if err := c.Calendar.Validate(); err != nil {
		return err
	}
	return c.Indico.Validate()
}

// ApplicationConfig holds application-level configuration. Logs go to
// a file because the terminal is owned by the UI.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	LogFile  string     `yaml:"log_file"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LogFile, validation.Required),
	)
}

// NotesConfig holds the path to the notes directory.
type NotesConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the notes configuration.
func (c *NotesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// EditorConfig holds the external editor command line.
type EditorConfig struct {
	Command string `yaml:"command"`
}

// CalendarSource is one ICS subscription.
type CalendarSource struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Validate validates a calendar source.
func (c CalendarSource) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ID, validation.Required),
		validation.Field(&c.URL, validation.Required),
	)
}

// CalendarConfig holds the calendar feed configuration. An empty
// source list is valid; the app then runs notes-only.
type CalendarConfig struct {
	Sources             []CalendarSource `yaml:"sources"`
	FetchTimeoutSeconds int              `yaml:"fetch_timeout_seconds"`
}

// FetchTimeout returns the per-feed fetch timeout.
func (c *CalendarConfig) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// Validate validates the calendar configuration.
func (c *CalendarConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.FetchTimeoutSeconds, validation.Required, validation.Min(1), validation.Max(300)),
	); err != nil {
		return err
	}
	for i, src := range c.Sources {
		if err := src.Validate(); err != nil {
			return fmt.Errorf("calendar source %d: %w", i, err)
		}
	}
	return nil
}

// IndicoConfig holds the agenda enrichment configuration. Token may be
// empty for public events.
type IndicoConfig struct {
	Token          string `yaml:"token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the agenda fetch timeout.
func (c *IndicoConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate validates the Indico configuration.
func (c *IndicoConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.TimeoutSeconds, validation.Required, validation.Min(1), validation.Max(120)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			LogFile:  "daybook.log",
		},
		Notes: NotesConfig{
			Path: "./notes",
		},
		Editor: EditorConfig{
			Command: "nvim",
		},
		Calendar: CalendarConfig{
			FetchTimeoutSeconds: 15,
		},
		Indico: IndicoConfig{
			TimeoutSeconds: 10,
		},
	}
}
