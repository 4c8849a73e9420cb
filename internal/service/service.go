// Package service defines the backend-agnostic interface for todo operations.
package service

import "context"

// Service defines the remote collection contract.
// Every call is a single request/response with no retry.
// Non-success responses and network failures are returned as *TransportError.
type Service interface {
	// FetchAll returns the whole collection as the server sent it.
	// No local filtering or sorting is applied.
	FetchAll(ctx context.Context) (Page, error)

	// Create creates a todo. The server assigns the ID.
	Create(ctx context.Context, draft Draft) (Item, error)

	// Remove deletes a todo and returns the representation the server echoed.
	Remove(ctx context.Context, id int64) (Item, error)

	// Update applies a partial update and returns the updated todo.
	Update(ctx context.Context, id int64, fields Fields) (Item, error)
}
