package coordinator

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"todos/internal/service"
)

// Kind names a mutation.
type Kind string

const (
	KindCreate Kind = "create"
	KindDelete Kind = "delete"
	KindUpdate Kind = "update"
	KindToggle Kind = "toggle"
)

// State is the lifecycle of one mutation. Succeeded and Failed are terminal.
type State int32

const (
	StateIdle State = iota
	StateApplied
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateApplied:
		return "applied"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Pending is the handle of one mutation. It is returned after the optimistic
// change is visible and settles once the remote call resolves.
type Pending struct {
	ID   uuid.UUID
	Kind Kind

	// ItemID is the target item. For creates it is the temporary ID; the
	// server-assigned item is returned by Wait.
	ItemID int64

	state atomic.Int32
	done  chan struct{}
	item  service.Item
	err   error
}

func newPending(kind Kind, itemID int64) *Pending {
	return &Pending{
		ID:     uuid.New(),
		Kind:   kind,
		ItemID: itemID,
		done:   make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (p *Pending) State() State {
	return State(p.state.Load())
}

// Done is closed once the mutation has settled.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the mutation settles or ctx is done. Giving up on ctx does
// not stop the mutation; it still settles in the background.
func (p *Pending) Wait(ctx context.Context) (service.Item, error) {
	select {
	case <-p.done:
		return p.item, p.err
	case <-ctx.Done():
		return service.Item{}, ctx.Err()
	}
}

// Err returns the settlement error. Only meaningful after Done is closed.
func (p *Pending) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

func (p *Pending) applied() {
	p.state.Store(int32(StateApplied))
}

func (p *Pending) settle(item service.Item, err error) {
	p.item = item
	p.err = err
	if err != nil {
		p.state.Store(int32(StateFailed))
	} else {
		p.state.Store(int32(StateSucceeded))
	}
	close(p.done)
}
