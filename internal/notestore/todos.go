package notestore

import (
	"log/slog"
	"strings"

	"github.com/halvard/daybook/internal/models"
	"github.com/halvard/daybook/internal/notepath"
)

const todoMarker = "#todo"

// ListTodos scans every note in both partitions for lines containing
// "#todo" (case-insensitive). Line numbers are 1-based positions in the
// raw file, header included, so CompleteTodo can edit in place.
func (s *Store) ListTodos() []models.TodoItem {
	var todos []models.TodoItem
	for _, dir := range []string{notepath.EventsDir, notepath.StandaloneDir} {
		metas, err := s.files.List(dir)
		if err != nil {
			s.logger.Warn("todo scan: list failed", slog.String("dir", dir), slog.String("error", err.Error()))
			continue
		}
		for _, m := range metas {
			data, readErr := s.files.Read(m.Path)
			if readErr != nil {
				continue
			}
			note := s.noteFromFile(m.Path, data, m.ModTime)
			todos = append(todos, scanTodos(m.Path, note.Title, string(data))...)
		}
	}
	return todos
}

func scanTodos(path, noteTitle, content string) []models.TodoItem {
	var out []models.TodoItem
	for i, line := range strings.Split(content, "\n") {
		idx := strings.Index(strings.ToLower(line), todoMarker)
		if idx < 0 {
			continue
		}
		text := strings.TrimSpace(line[idx+len(todoMarker):])
		text = strings.TrimSpace(strings.TrimPrefix(text, ":"))
		out = append(out, models.TodoItem{
			Path:      path,
			Line:      i + 1,
			Content:   text,
			FullLine:  line,
			NoteTitle: noteTitle,
		})
	}
	return out
}

// CompleteTodo removes the todo's line from its note. The line must
// still match what was scanned; a stale item (file edited since) is
// left untouched and reported as not completed.
func (s *Store) CompleteTodo(todo models.TodoItem) (bool, error) {
	data, err := s.files.Read(todo.Path)
	if err != nil {
		return false, err
	}
	lines := strings.Split(string(data), "\n")
	if todo.Line < 1 || todo.Line > len(lines) {
		return false, nil
	}
	if strings.TrimSpace(lines[todo.Line-1]) != strings.TrimSpace(todo.FullLine) {
		return false, nil
	}
	lines = append(lines[:todo.Line-1], lines[todo.Line:]...)
	if err := s.files.Write(todo.Path, []byte(strings.Join(lines, "\n"))); err != nil {
		return false, err
	}
	return true, nil
}
