package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"todos/internal/service"
	"todos/internal/session"
	"todos/internal/store"
)

// ItemRef is a parsed todo reference: either a 1-based position in the
// listed view or "#<id>".
type ItemRef struct {
	Num  int   // 1-based position, 0 when ByID
	ID   int64 // remote id, 0 unless ByID
	ByID bool
}

// ErrItemRefRequired indicates no todo reference was provided.
var ErrItemRefRequired = errors.New("todo reference required")

// ErrOutOfRange indicates a position or id that names no todo.
var ErrOutOfRange = errors.New("todo out of range")

// ParseItemRef parses a todo reference.
//
//	3      third todo of the view
//	#152   todo with id 152
func ParseItemRef(arg string) (ItemRef, error) {
	if arg == "" {
		return ItemRef{}, ErrItemRefRequired
	}

	if rest, ok := strings.CutPrefix(arg, "#"); ok {
		if !isAllDigits(rest) {
			return ItemRef{}, fmt.Errorf("invalid todo reference: %s", arg)
		}
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return ItemRef{}, fmt.Errorf("invalid todo reference: %s", arg)
		}
		return ItemRef{ID: id, ByID: true}, nil
	}

	if !isAllDigits(arg) {
		return ItemRef{}, fmt.Errorf("invalid todo reference: %s", arg)
	}
	num, err := strconv.Atoi(arg)
	if err != nil || num < 1 {
		return ItemRef{}, fmt.Errorf("invalid todo reference: %s", arg)
	}
	return ItemRef{Num: num}, nil
}

func (r ItemRef) String() string {
	if r.ByID {
		return fmt.Sprintf("#%d", r.ID)
	}
	return strconv.Itoa(r.Num)
}

// Resolve finds the referenced todo. Positions index the view v.
func (r ItemRef) Resolve(sess *session.Session, v store.View) (service.Item, error) {
	if r.ByID {
		item, ok := sess.Get(r.ID)
		if !ok {
			return service.Item{}, fmt.Errorf("%w: %s", ErrOutOfRange, r)
		}
		return item, nil
	}

	visible := sess.ListVisible(v)
	if r.Num < 1 || r.Num > len(visible) {
		return service.Item{}, fmt.Errorf("%w: %s", ErrOutOfRange, r)
	}
	return visible[r.Num-1], nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
