package service

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound reports that a todo does not exist.
// A TransportError for a 404 response matches it with errors.Is.
var ErrNotFound = errors.New("not found")

// MaxTextLen is the maximum number of characters in a todo text.
const MaxTextLen = 200

// ValidationError rejects user input before any mutation begins.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransportError reports a failed remote call: either a non-success
// status or a network failure.
type TransportError struct {
	Op     string // fetch, create, remove, update
	Method string
	URL    string
	Status int // 0 when no response was received
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: %s failed with status %d", e.Method, e.URL, e.Op, e.Status)
	}
	return fmt.Sprintf("%s %s: %s failed: %v", e.Method, e.URL, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is matches ErrNotFound for 404 responses.
func (e *TransportError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// IsTransport reports whether err is or wraps a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
