// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"sidepad/internal/service"
)

// FormatTodo formats a todo line.
// Format: "{N:>4}  [ ] {TITLE}\n", with [x] for completed todos.
func FormatTodo(w io.Writer, num int, todo service.TodoItem) {
	mark := " "
	if todo.Completed {
		mark = "x"
	}
	fmt.Fprintf(w, "%4d  [%s] %s\n", num, mark, normalizeTitle(todo.Title))
}

// FormatNote formats a note title line.
// Format: "{N:>4}  {TITLE}\n"
func FormatNote(w io.Writer, num int, note service.NoteItem) {
	fmt.Fprintf(w, "%4d  %s\n", num, normalizeTitle(note.Title))
}

// FormatNoteFull formats a note title line followed by its content,
// each content line indented by six spaces.
func FormatNoteFull(w io.Writer, num int, note service.NoteItem) {
	FormatNote(w, num, note)
	content := strings.ReplaceAll(note.Content, "\r\n", "\n")
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(w, "      %s\n", line)
	}
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
