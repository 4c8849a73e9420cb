package store

import (
	"fmt"
	"strings"

	"todos/internal/service"
)

// Filter selects items by completion state.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
)

// ParseFilter parses a filter name. Empty means all.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterCompleted, FilterPending:
		return f, nil
	default:
		return "", fmt.Errorf("unknown filter: %s", s)
	}
}

// View is a derived, filtered presentation of the mirror.
type View struct {
	Filter Filter
	Search string
}

// Matches reports whether item is part of the view. Search is a
// case-insensitive substring match on the text.
func (v View) Matches(item service.Item) bool {
	switch v.Filter {
	case FilterCompleted:
		if !item.Completed {
			return false
		}
	case FilterPending:
		if item.Completed {
			return false
		}
	}
	if v.Search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Text), strings.ToLower(v.Search))
}

// Visible returns the items of the view in mirror order.
func Visible(items []service.Item, v View) []service.Item {
	out := make([]service.Item, 0, len(items))
	for _, it := range items {
		if v.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}

// Stats counts items by completion state.
type Stats struct {
	Total     int
	Completed int
	Pending   int
}

// Count returns the stats of items.
func Count(items []service.Item) Stats {
	s := Stats{Total: len(items)}
	for _, it := range items {
		if it.Completed {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	return s
}
