// Package session is the contract the presentation layer calls: derived
// views for reading, and submit operations that validate input and hand off
// to the coordinator or the reorder helpers.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"todos/internal/cache"
	"todos/internal/coordinator"
	"todos/internal/observability"
	"todos/internal/service"
	"todos/internal/store"
)

// Session is one application session: a mirror, a cache, and the
// coordinator mutating them. Create one per process.
type Session struct {
	coord   *coordinator.Coordinator
	mirror  *store.Mirror
	ownerID int64
	log     zerolog.Logger

	mu     sync.Mutex
	loaded bool
}

// New creates a session backed by svc. Created todos are owned by ownerID.
func New(svc service.Service, ownerID int64, logger zerolog.Logger) *Session {
	mirror := store.NewMirror()
	return &Session{
		coord:   coordinator.New(svc, mirror, cache.New(), logger),
		mirror:  mirror,
		ownerID: ownerID,
		log:     observability.Component(logger, "session"),
	}
}

// Load fetches the collection and replaces the local state with it.
func (s *Session) Load(ctx context.Context) error {
	_, err := s.coord.Fetch(ctx)
	if errors.Is(err, coordinator.ErrSuperseded) {
		s.log.Debug().Msg("load superseded by a mutation")
		return nil
	}
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// EnsureLoaded loads the collection unless a load already succeeded.
func (s *Session) EnsureLoaded(ctx context.Context) error {
	s.mu.Lock()
	loaded := s.loaded
	s.mu.Unlock()
	if loaded {
		return nil
	}
	return s.Load(ctx)
}

// Items returns the whole mirror in local order.
func (s *Session) Items() []service.Item {
	return s.mirror.Items()
}

// ListVisible returns the items of the view in local order.
func (s *Session) ListVisible(v store.View) []service.Item {
	return store.Visible(s.mirror.Items(), v)
}

// Stats counts all items by completion state.
func (s *Session) Stats() store.Stats {
	return store.Count(s.mirror.Items())
}

// Get returns the item with the given ID.
func (s *Session) Get(id int64) (service.Item, bool) {
	return s.mirror.Get(id)
}

// SubmitCreate validates text and creates a todo. The optimistic item is
// visible when this returns.
func (s *Session) SubmitCreate(ctx context.Context, text string) (*coordinator.Pending, error) {
	text, err := ValidateText(text)
	if err != nil {
		return nil, err
	}
	return s.coord.Create(ctx, service.Draft{Text: text, Completed: false, OwnerID: s.ownerID}), nil
}

// SubmitDelete deletes a todo.
func (s *Session) SubmitDelete(ctx context.Context, id int64) (*coordinator.Pending, error) {
	return s.coord.Delete(ctx, id), nil
}

// SubmitToggle flips the completed flag of a todo.
func (s *Session) SubmitToggle(ctx context.Context, id int64) (*coordinator.Pending, error) {
	return s.coord.Toggle(ctx, id), nil
}

// SubmitUpdate applies a partial update. A text field is validated first.
func (s *Session) SubmitUpdate(ctx context.Context, id int64, fields service.Fields) (*coordinator.Pending, error) {
	if fields.Empty() {
		return nil, &service.ValidationError{Field: "fields", Reason: "nothing to update"}
	}
	if fields.Text != nil {
		text, err := ValidateText(*fields.Text)
		if err != nil {
			return nil, err
		}
		fields.Text = &text
	}
	return s.coord.Update(ctx, id, fields), nil
}

// SubmitReorder moves the item at display position from to display position
// to, where positions index the view v. It reports whether anything moved;
// out-of-range positions are ignored. Ordering is local only.
func (s *Session) SubmitReorder(v store.View, from, to int) bool {
	all := s.mirror.Items()
	visible := store.Visible(all, v)
	src, dst, ok := store.ResolveDisplay(all, visible, from, to)
	if !ok {
		return false
	}

	grabbed := visible[from]
	s.mirror.SetGrabbed(&grabbed)
	defer s.mirror.SetGrabbed(nil)
	return s.mirror.Reorder(src, dst)
}

// Grab marks the item with the given ID as engaged in a reorder gesture.
func (s *Session) Grab(id int64) bool {
	item, ok := s.mirror.Get(id)
	if !ok {
		return false
	}
	s.mirror.SetGrabbed(&item)
	return true
}

// Grabbed returns the item engaged in a reorder gesture, if any.
func (s *Session) Grabbed() (service.Item, bool) {
	return s.mirror.Grabbed()
}

// DropOn moves the grabbed item to the position of the target item and ends
// the gesture. Dropping on itself or with nothing grabbed is ignored.
func (s *Session) DropOn(targetID int64) bool {
	grabbed, ok := s.mirror.Grabbed()
	s.mirror.SetGrabbed(nil)
	if !ok || grabbed.ID == targetID {
		return false
	}
	all := s.mirror.Items()
	from := store.IndexOf(all, grabbed.ID)
	to := store.IndexOf(all, targetID)
	if from < 0 || to < 0 {
		return false
	}
	return s.mirror.Reorder(from, to)
}

// Release ends a reorder gesture without moving anything.
func (s *Session) Release() {
	s.mirror.SetGrabbed(nil)
}

// Wait blocks until every submitted mutation has settled.
func (s *Session) Wait() {
	s.coord.Wait()
}
