// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"net/http"
	"sync"

	"todos/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.Mutex
	items  []service.Item
	nextID int64
	calls  map[string]int

	// Error injection for testing
	FetchErr  error
	CreateErr error
	RemoveErr error
	UpdateErr error

	// Gate, when set, holds every call until a token is received from it
	// (or the call's context is done). Tests use it to observe the state
	// between the optimistic apply and settlement.
	Gate chan struct{}

	holds map[string]chan struct{}
}

// NewFakeService creates a FakeService. Created items get IDs from 1000 up.
func NewFakeService() *FakeService {
	return &FakeService{
		nextID: 1000,
		calls:  make(map[string]int),
		holds:  make(map[string]chan struct{}),
	}
}

// Hold returns a gate for op alone, taking precedence over Gate. Calls of op
// wait for a token from it, or for it to be closed.
func (f *FakeService) Hold(op string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	f.holds[op] = gate
	return gate
}

// AddItem adds an item to the fake remote collection.
func (f *FakeService) AddItem(id int64, text string, completed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, service.Item{ID: id, Text: text, Completed: completed, OwnerID: 1})
}

// Items returns a copy of the remote collection.
func (f *FakeService) Items() []service.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.Item, len(f.items))
	copy(out, f.items)
	return out
}

// Calls returns how many times op was called.
func (f *FakeService) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *FakeService) enter(ctx context.Context, op string) error {
	f.mu.Lock()
	f.calls[op]++
	gate := f.Gate
	if hold, ok := f.holds[op]; ok {
		gate = hold
	}
	f.mu.Unlock()

	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TransportErr builds a TransportError as the REST client would return it.
func TransportErr(op string, status int) error {
	return &service.TransportError{Op: op, Method: http.MethodGet, URL: "fake", Status: status}
}

// FetchAll implements service.Service. The page reflects the collection
// when the request arrived, not when a gate released it.
func (f *FakeService) FetchAll(ctx context.Context) (service.Page, error) {
	items := f.Items()
	if err := f.enter(ctx, "fetch"); err != nil {
		return service.Page{}, err
	}
	if f.FetchErr != nil {
		return service.Page{}, f.FetchErr
	}
	return service.Page{Items: items, Total: len(items), Limit: len(items)}, nil
}

// Create implements service.Service.
func (f *FakeService) Create(ctx context.Context, draft service.Draft) (service.Item, error) {
	if err := f.enter(ctx, "create"); err != nil {
		return service.Item{}, err
	}
	if f.CreateErr != nil {
		return service.Item{}, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	item := service.Item{ID: f.nextID, Text: draft.Text, Completed: draft.Completed, OwnerID: draft.OwnerID}
	f.nextID++
	f.items = append([]service.Item{item}, f.items...)
	return item, nil
}

// Remove implements service.Service.
func (f *FakeService) Remove(ctx context.Context, id int64) (service.Item, error) {
	if err := f.enter(ctx, "remove"); err != nil {
		return service.Item{}, err
	}
	if f.RemoveErr != nil {
		return service.Item{}, f.RemoveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, it := range f.items {
		if it.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return it, nil
		}
	}
	return service.Item{}, TransportErr("remove", http.StatusNotFound)
}

// Update implements service.Service.
func (f *FakeService) Update(ctx context.Context, id int64, fields service.Fields) (service.Item, error) {
	if err := f.enter(ctx, "update"); err != nil {
		return service.Item{}, err
	}
	if f.UpdateErr != nil {
		return service.Item{}, f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, it := range f.items {
		if it.ID == id {
			f.items[i] = fields.Apply(it)
			return f.items[i], nil
		}
	}
	return service.Item{}, TransportErr("update", http.StatusNotFound)
}
