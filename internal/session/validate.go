package session

import (
	"strings"
	"unicode/utf8"

	"todos/internal/service"
)

// ValidateText checks a todo text before any mutation begins and returns
// it trimmed.
func ValidateText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &service.ValidationError{Field: "text", Reason: "todo text is required"}
	}
	if utf8.RuneCountInString(text) > service.MaxTextLen {
		return "", &service.ValidationError{Field: "text", Reason: "todo text must be at most 200 characters"}
	}
	return text, nil
}
