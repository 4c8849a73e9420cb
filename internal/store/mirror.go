// Package store holds the local mirror of the todo collection and the pure
// helpers that reorder and filter it.
package store

import (
	"sync"

	"todos/internal/service"
)

// Mirror is the client-local ordered collection plus the grabbed-item pointer.
// Every operation is atomic. At most one item with a given ID is ever held.
type Mirror struct {
	mu      sync.RWMutex
	items   []service.Item
	grabbed *service.Item
}

// NewMirror returns an empty mirror.
func NewMirror() *Mirror {
	return &Mirror{}
}

// Items returns a copy of the current sequence.
func (m *Mirror) Items() []service.Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clone(m.items)
}

// Len returns the number of items.
func (m *Mirror) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Get returns the item with the given ID.
func (m *Mirror) Get(id int64) (service.Item, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := indexOf(m.items, id); i >= 0 {
		return m.items[i], true
	}
	return service.Item{}, false
}

// ReplaceAll sets the sequence wholesale. Later duplicates of an ID are dropped.
func (m *Mirror) ReplaceAll(items []service.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = dedupe(items)
}

// InsertFront prepends item, dropping any existing entry with the same ID.
func (m *Mirror) InsertFront(item service.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rest := without(m.items, item.ID)
	m.items = append([]service.Item{item}, rest...)
}

// RemoveByID removes the matching item. No-op if absent.
func (m *Mirror) RemoveByID(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = without(m.items, id)
}

// ToggleByID flips Completed on the matching item. No-op if absent.
func (m *Mirror) ToggleByID(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := indexOf(m.items, id); i >= 0 {
		m.items[i].Completed = !m.items[i].Completed
	}
}

// ReplaceByID overwrites the item with the same ID in place. No-op if absent.
func (m *Mirror) ReplaceByID(item service.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := indexOf(m.items, item.ID); i >= 0 {
		m.items[i] = item
	}
}

// Swap puts item at the position of the entry bearing oldID, dropping any
// other entry that already carries item.ID. If oldID is absent, item is
// inserted at the front.
func (m *Mirror) Swap(oldID int64, item service.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = swap(m.items, oldID, item)
}

// Reorder moves the element at from to position to. Out-of-range indices
// leave the sequence unchanged and return false.
func (m *Mirror) Reorder(from, to int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	moved, ok := Move(m.items, from, to)
	if ok {
		m.items = moved
	}
	return ok
}

// SetGrabbed sets or clears (nil) the grabbed-item pointer.
// The item is not required to be present in the sequence.
func (m *Mirror) SetGrabbed(item *service.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item == nil {
		m.grabbed = nil
		return
	}
	cp := *item
	m.grabbed = &cp
}

// Grabbed returns the grabbed item, if any.
func (m *Mirror) Grabbed() (service.Item, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.grabbed == nil {
		return service.Item{}, false
	}
	return *m.grabbed, true
}

func clone(items []service.Item) []service.Item {
	if items == nil {
		return nil
	}
	out := make([]service.Item, len(items))
	copy(out, items)
	return out
}

func indexOf(items []service.Item, id int64) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func without(items []service.Item, id int64) []service.Item {
	out := make([]service.Item, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

func dedupe(items []service.Item) []service.Item {
	seen := make(map[int64]struct{}, len(items))
	out := make([]service.Item, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ID]; ok {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out
}

func swap(items []service.Item, oldID int64, item service.Item) []service.Item {
	out := make([]service.Item, 0, len(items)+1)
	placed := false
	for _, it := range items {
		switch {
		case it.ID == oldID && !placed:
			out = append(out, item)
			placed = true
		case it.ID == item.ID || it.ID == oldID:
			// dropped: duplicate of the incoming ID
		default:
			out = append(out, it)
		}
	}
	if !placed {
		out = append([]service.Item{item}, out...)
	}
	return out
}

// SwapItems is the slice form of Mirror.Swap, used on cached snapshots.
func SwapItems(items []service.Item, oldID int64, item service.Item) []service.Item {
	return swap(items, oldID, item)
}

// Without returns a copy of items minus the entry with the given ID.
func Without(items []service.Item, id int64) []service.Item {
	return without(items, id)
}

// Replace returns a copy of items with the entry bearing item.ID overwritten
// in place. Reports whether such an entry existed.
func Replace(items []service.Item, item service.Item) ([]service.Item, bool) {
	out := clone(items)
	i := indexOf(out, item.ID)
	if i < 0 {
		return out, false
	}
	out[i] = item
	return out, true
}
