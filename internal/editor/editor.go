// Package editor builds the external editor invocation used to open a
// note. The TUI suspends itself around the command, so GUI editors
// that return immediately get a --wait flag appended.
package editor

import (
	"os/exec"
	"path/filepath"
	"strings"
)

const defaultCommand = "nvim"

// guiEditors return before the file is closed unless asked to wait.
var guiEditors = map[string]bool{
	"code":          true,
	"code-insiders": true,
	"subl":          true,
	"sublime_text":  true,
}

// Launcher builds exec commands for the configured editor.
type Launcher struct {
	command string
}

// New creates a launcher for the given editor command line. An empty
// command falls back to nvim.
func New(command string) *Launcher {
	command = strings.TrimSpace(command)
	if command == "" {
		command = defaultCommand
	}
	return &Launcher{command: command}
}

// Command returns the configured editor command line.
func (l *Launcher) Command() string {
	return l.command
}

// Cmd returns the exec.Cmd opening path in the editor.
func (l *Launcher) Cmd(path string) *exec.Cmd {
	fields := strings.Fields(l.command)
	name := fields[0]
	args := fields[1:]

	if guiEditors[filepath.Base(name)] && !hasWaitFlag(args) {
		args = append(args, "--wait")
	}
	args = append(args, path)
	return exec.Command(name, args...)
}

func hasWaitFlag(args []string) bool {
	for _, a := range args {
		if a == "--wait" || a == "-w" {
			return true
		}
	}
	return false
}
