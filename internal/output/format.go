// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todos/internal/service"
	"todos/internal/store"
)

// FormatItem formats one todo line.
// Format: "{N:>4}  [x] {TEXT}  #{ID}\n" (4-wide right-aligned number, two spaces,
// completion box, text, id reference)
func FormatItem(w io.Writer, num int, item service.Item) {
	box := " "
	if item.Completed {
		box = "x"
	}
	fmt.Fprintf(w, "%4d  [%s] %s  #%d\n", num, box, normalizeText(item.Text), item.ID)
}

// FormatItems formats a numbered list starting at 1.
func FormatItems(w io.Writer, items []service.Item) {
	for i, item := range items {
		FormatItem(w, i+1, item)
	}
}

// FormatStats formats the completion counters.
func FormatStats(w io.Writer, s store.Stats) {
	fmt.Fprintf(w, "total %d  completed %d  pending %d\n", s.Total, s.Completed, s.Pending)
}

// normalizeText normalizes a todo text for display.
// - Empty or whitespace-only texts become "(untitled)"
// - Newlines are replaced with spaces
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}
