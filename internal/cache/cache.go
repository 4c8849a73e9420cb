// Package cache holds the last server-confirmed collection snapshots used as
// the rollback source of truth.
package cache

import (
	"sync"

	"todos/internal/service"
)

// Key names one logical collection.
type Key string

// TodosKey is the only collection the client knows.
const TodosKey Key = "todos"

// Snapshot is a typed copy of a collection state.
type Snapshot struct {
	Items []service.Item
	Total int
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Total: s.Total}
	if s.Items != nil {
		out.Items = make([]service.Item, len(s.Items))
		copy(out.Items, s.Items)
	}
	return out
}

// Find returns the item with the given ID.
func (s Snapshot) Find(id int64) (service.Item, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return service.Item{}, false
}

type entry struct {
	snap       Snapshot
	present    bool
	generation uint64
}

// Cache stores one snapshot per key and a generation counter that is bumped
// whenever a mutation supersedes outstanding reads of that key.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[Key]*entry)}
}

func (c *Cache) entry(key Key) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	return e
}

// Get returns a copy of the snapshot for key, and whether one exists.
func (c *Cache) Get(key Key) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(key)
	if !e.present {
		return Snapshot{}, false
	}
	return e.snap.Clone(), true
}

// Set stores a copy of snap under key.
func (c *Cache) Set(key Key, snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(key)
	e.snap = snap.Clone()
	e.present = true
}

// Update applies fn to the snapshot under key. It is a no-op when no
// snapshot exists. Reports whether fn ran.
func (c *Cache) Update(key Key, fn func(Snapshot) Snapshot) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(key)
	if !e.present {
		return false
	}
	e.snap = fn(e.snap.Clone()).Clone()
	return true
}

// Restore sets the entry back to a previous state. A nil prev clears it.
func (c *Cache) Restore(key Key, prev *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(key)
	if prev == nil {
		e.snap = Snapshot{}
		e.present = false
		return
	}
	e.snap = prev.Clone()
	e.present = true
}

// Generation returns the current supersede generation of key.
func (c *Cache) Generation(key Key) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entry(key).generation
}

// Supersede bumps the generation of key so that continuations captured
// under an older generation are ignored. It returns the new generation.
func (c *Cache) Supersede(key Key) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(key)
	e.generation++
	return e.generation
}

// SetIfCurrent stores snap only if the generation of key still equals gen.
func (c *Cache) SetIfCurrent(key Key, gen uint64, snap Snapshot) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(key)
	if e.generation != gen {
		return false
	}
	e.snap = snap.Clone()
	e.present = true
	return true
}
