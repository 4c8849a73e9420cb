package store

import "todos/internal/service"

// Move returns a copy of items with the element at from reinserted at to.
// Both indices must satisfy 0 <= idx < len(items); otherwise items is
// returned unchanged with ok=false. from == to is a valid identity move.
func Move(items []service.Item, from, to int) ([]service.Item, bool) {
	n := len(items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return items, false
	}
	out := clone(items)
	if from == to {
		return out, true
	}
	moved := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = moved
	return out, true
}

// ResolveDisplay maps positions in the displayed (possibly filtered) sequence
// to positions in the underlying sequence, through the identities of the
// items at those display positions.
func ResolveDisplay(all, visible []service.Item, from, to int) (int, int, bool) {
	if from < 0 || from >= len(visible) || to < 0 || to >= len(visible) {
		return 0, 0, false
	}
	src := indexOf(all, visible[from].ID)
	dst := indexOf(all, visible[to].ID)
	if src < 0 || dst < 0 {
		return 0, 0, false
	}
	return src, dst, true
}

// IndexOf returns the position of the item with the given ID, or -1.
func IndexOf(items []service.Item, id int64) int {
	return indexOf(items, id)
}
