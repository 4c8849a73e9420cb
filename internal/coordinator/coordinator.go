// Package coordinator applies mutations optimistically to the mirror and the
// response cache, issues the remote call, and reconciles or rolls back once
// the call settles.
//
// Every mutation runs the same protocol:
//
//  1. begin: supersede outstanding fetches of the collection key and snapshot
//     the cache entry;
//  2. optimistic apply, synchronously, before the method returns;
//  3. remote call on its own goroutine, the only suspension point;
//  4. on success, reconcile the mirror (and cache for creates) with the
//     server's representation;
//  5. on failure, restore the cache snapshot and the mirror.
//
// Mutations on different items run concurrently. Mutations racing on the
// same item are not serialized: the last one to settle wins, and every write
// replaces whole items, so the mirror never holds a mix of two results.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"todos/internal/cache"
	"todos/internal/observability"
	"todos/internal/service"
	"todos/internal/store"
)

// ErrSuperseded is returned by Fetch when a mutation began while the request
// was in flight; its result was not applied.
var ErrSuperseded = errors.New("fetch superseded by a mutation")

// Coordinator owns the optimistic protocol for one collection.
type Coordinator struct {
	// mu makes each phase's mirror and cache writes one atomic step.
	mu sync.Mutex

	svc    service.Service
	mirror *store.Mirror
	cache  *cache.Cache
	key    cache.Key
	log    zerolog.Logger

	tempIDs  atomic.Int64
	fetches  singleflight.Group
	inflight sync.WaitGroup

	// settled maps temporary IDs of settled creates to the server's item,
	// or to nil when the create failed. Guarded by mu.
	settled map[int64]*service.Item
}

// New creates a coordinator for cache.TodosKey.
func New(svc service.Service, mirror *store.Mirror, c *cache.Cache, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		svc:     svc,
		mirror:  mirror,
		cache:   c,
		key:     cache.TodosKey,
		log:     observability.Component(logger, "coordinator"),
		settled: make(map[int64]*service.Item),
	}
}

// Mirror returns the mirror store the coordinator writes to.
func (c *Coordinator) Mirror() *store.Mirror {
	return c.mirror
}

// Cache returns the response cache the coordinator writes to.
func (c *Coordinator) Cache() *cache.Cache {
	return c.cache
}

// Wait blocks until every mutation started so far has settled.
func (c *Coordinator) Wait() {
	c.inflight.Wait()
}

// nextTempID returns a fresh temporary ID. Temporary IDs are negative and
// strictly decreasing, so they never collide with each other or with the
// positive IDs the server assigns.
func (c *Coordinator) nextTempID() int64 {
	return c.tempIDs.Add(-1)
}

// Fetch loads the whole collection. Concurrent calls share one request. The
// result replaces the cache entry and the mirror unless a mutation began
// while the request was in flight, in which case ErrSuperseded is returned
// along with the page.
func (c *Coordinator) Fetch(ctx context.Context) (service.Page, error) {
	gen := c.cache.Generation(c.key)

	v, err, _ := c.fetches.Do(string(c.key), func() (any, error) {
		return c.svc.FetchAll(ctx)
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("fetch failed")
		return service.Page{}, fmt.Errorf("fetch todos: %w", err)
	}
	page := v.(service.Page)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.cache.SetIfCurrent(c.key, gen, cache.Snapshot{Items: page.Items, Total: page.Total}) {
		observability.FetchDiscarded()
		c.log.Debug().Int("items", len(page.Items)).Msg("fetch result discarded")
		return page, ErrSuperseded
	}
	c.mirror.ReplaceAll(page.Items)
	c.log.Debug().Int("items", len(page.Items)).Int("total", page.Total).Msg("fetched")
	return page, nil
}

// mutation is the per-mutation context used to resolve its settlement.
type mutation struct {
	pending *Pending
	// previous is the cache entry before the optimistic apply; nil when
	// the cache held nothing yet.
	previous *cache.Snapshot
	// before is the mirror sequence before the optimistic apply.
	before []service.Item
}

// begin runs phase 1. Callers hold c.mu. Fetches issued from here on start
// a new request instead of joining one sent before the mutation.
func (c *Coordinator) begin(kind Kind, itemID int64) *mutation {
	c.cache.Supersede(c.key)
	c.fetches.Forget(string(c.key))
	m := &mutation{
		pending: newPending(kind, itemID),
		before:  c.mirror.Items(),
	}
	if prev, ok := c.cache.Get(c.key); ok {
		m.previous = &prev
	}
	return m
}

// Create inserts a todo optimistically under a temporary ID and replaces it
// with the server's item once the create succeeds.
func (c *Coordinator) Create(ctx context.Context, draft service.Draft) *Pending {
	c.mu.Lock()
	optimistic := service.Item{
		ID:        c.nextTempID(),
		Text:      draft.Text,
		Completed: false,
		OwnerID:   draft.OwnerID,
	}
	m := c.begin(KindCreate, optimistic.ID)
	c.mirror.InsertFront(optimistic)
	c.cache.Update(c.key, func(s cache.Snapshot) cache.Snapshot {
		s.Items = append([]service.Item{optimistic}, s.Items...)
		s.Total++
		return s
	})
	c.mu.Unlock()

	c.run(ctx, m,
		func(ctx context.Context) (service.Item, error) {
			return c.svc.Create(ctx, draft)
		},
		func(created service.Item) {
			c.settled[optimistic.ID] = &created
			c.mirror.Swap(optimistic.ID, created)
			c.cache.Update(c.key, func(s cache.Snapshot) cache.Snapshot {
				s.Items = store.SwapItems(s.Items, optimistic.ID, created)
				return s
			})
		},
		func() {
			c.settled[optimistic.ID] = nil
			c.restoreCache(m)
			c.mirror.RemoveByID(optimistic.ID)
		},
	)
	return m.pending
}

// Delete removes a todo optimistically.
func (c *Coordinator) Delete(ctx context.Context, id int64) *Pending {
	c.mu.Lock()
	m := c.begin(KindDelete, id)
	c.mirror.RemoveByID(id)
	c.cache.Update(c.key, func(s cache.Snapshot) cache.Snapshot {
		n := len(s.Items)
		s.Items = store.Without(s.Items, id)
		if len(s.Items) < n {
			s.Total--
		}
		return s
	})
	c.mu.Unlock()

	c.run(ctx, m,
		func(ctx context.Context) (service.Item, error) {
			return c.svc.Remove(ctx, id)
		},
		func(service.Item) {},
		func() { c.rollback(m) },
	)
	return m.pending
}

// Update applies a partial update optimistically. The server's
// representation replaces the merged item on success.
func (c *Coordinator) Update(ctx context.Context, id int64, fields service.Fields) *Pending {
	return c.mutateItem(ctx, KindUpdate, id,
		func(current service.Item) (service.Item, service.Fields) {
			return fields.Apply(current), fields
		})
}

// Toggle flips the completed flag of a todo optimistically. The item must be
// known locally, since the new value is derived from the current one.
func (c *Coordinator) Toggle(ctx context.Context, id int64) *Pending {
	return c.mutateItem(ctx, KindToggle, id,
		func(current service.Item) (service.Item, service.Fields) {
			current.Completed = !current.Completed
			return current, service.CompletedField(current.Completed)
		})
}

// mutateItem runs the update protocol shared by Update and Toggle. merge
// returns the optimistic item and the fields to send.
func (c *Coordinator) mutateItem(ctx context.Context, kind Kind, id int64, merge func(service.Item) (service.Item, service.Fields)) *Pending {
	c.mu.Lock()
	current, known := c.lookup(id)
	if !known && kind == KindToggle {
		c.mu.Unlock()
		p := newPending(kind, id)
		p.settle(service.Item{}, fmt.Errorf("toggle %d: %w", id, service.ErrNotFound))
		return p
	}

	m := c.begin(kind, id)
	merged, fields := merge(current)
	if known {
		c.mirror.ReplaceByID(merged)
		c.cache.Update(c.key, func(s cache.Snapshot) cache.Snapshot {
			s.Items, _ = store.Replace(s.Items, merged)
			return s
		})
	}
	c.mu.Unlock()

	c.run(ctx, m,
		func(ctx context.Context) (service.Item, error) {
			return c.svc.Update(ctx, id, fields)
		},
		func(updated service.Item) {
			c.mirror.ReplaceByID(updated)
		},
		func() { c.rollback(m) },
	)
	return m.pending
}

// lookup finds the current item, preferring the mirror (what the user sees)
// over the cache. Callers hold c.mu.
func (c *Coordinator) lookup(id int64) (service.Item, bool) {
	if it, ok := c.mirror.Get(id); ok {
		return it, true
	}
	if snap, ok := c.cache.Get(c.key); ok {
		return snap.Find(id)
	}
	return service.Item{}, false
}

// rollback runs phase 5 for delete, update and toggle. Callers hold c.mu.
// The mirror is repopulated from the restored snapshot, keeping the local
// order it had before the mutation; without a snapshot the mirror returns to
// its own pre-image.
func (c *Coordinator) rollback(m *mutation) {
	before, _ := c.resolveTemps(m.before)
	restored, ok := c.restoreCache(m)
	if !ok {
		c.mirror.ReplaceAll(before)
		return
	}
	c.mirror.ReplaceAll(arrange(restored.Items, before))
}

// restoreCache puts the mutation's cache snapshot back, with creates that
// settled meanwhile resolved. It reports false when there was no snapshot.
// Callers hold c.mu.
func (c *Coordinator) restoreCache(m *mutation) (cache.Snapshot, bool) {
	if m.previous == nil {
		c.cache.Restore(c.key, nil)
		return cache.Snapshot{}, false
	}
	restored := m.previous.Clone()
	var dropped int
	restored.Items, dropped = c.resolveTemps(restored.Items)
	restored.Total -= dropped
	c.cache.Restore(c.key, &restored)
	return restored, true
}

// resolveTemps replaces temporary IDs whose create has settled: with the
// server's item on success, with nothing on failure. It returns how many
// items were dropped. Callers hold c.mu.
func (c *Coordinator) resolveTemps(items []service.Item) ([]service.Item, int) {
	out := make([]service.Item, 0, len(items))
	seen := make(map[int64]bool, len(items))
	var dropped int
	for _, it := range items {
		if created, ok := c.settled[it.ID]; ok && it.ID < 0 {
			if created == nil {
				dropped++
				continue
			}
			it = *created
		}
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		out = append(out, it)
	}
	return out, dropped
}

// arrange returns items ordered like order; items missing from order follow
// in their own order.
func arrange(items, order []service.Item) []service.Item {
	byID := make(map[int64]service.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	out := make([]service.Item, 0, len(items))
	used := make(map[int64]bool, len(items))
	for _, o := range order {
		if it, ok := byID[o.ID]; ok && !used[o.ID] {
			out = append(out, it)
			used[o.ID] = true
		}
	}
	for _, it := range items {
		if !used[it.ID] {
			out = append(out, it)
			used[it.ID] = true
		}
	}
	return out
}

// run marks the mutation applied and settles it on a new goroutine.
func (c *Coordinator) run(ctx context.Context, m *mutation, call func(context.Context) (service.Item, error), onSuccess func(service.Item), onFailure func()) {
	p := m.pending
	p.applied()
	observability.MutationStarted(string(p.Kind))
	c.log.Debug().
		Str("mutation", p.ID.String()).
		Str("kind", string(p.Kind)).
		Int64("item", p.ItemID).
		Msg("applied")

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()

		item, err := call(ctx)

		c.mu.Lock()
		if err != nil {
			onFailure()
		} else {
			onSuccess(item)
		}
		c.mu.Unlock()

		if err != nil {
			err = fmt.Errorf("%s %d: %w", p.Kind, p.ItemID, err)
			observability.MutationSettled(string(p.Kind), "rollback")
			c.log.Warn().
				Str("mutation", p.ID.String()).
				Str("kind", string(p.Kind)).
				Int64("item", p.ItemID).
				Err(err).
				Msg("rolled back")
		} else {
			observability.MutationSettled(string(p.Kind), "success")
			c.log.Debug().
				Str("mutation", p.ID.String()).
				Str("kind", string(p.Kind)).
				Int64("item", item.ID).
				Msg("settled")
		}
		p.settle(item, err)
	}()
}
