package repository

import (
	"context"

	"go-insight-studio/internal/session"
)

// SessionRepository defines the interface for page state access
type SessionRepository interface {
	// Create stores a fresh page state under a new ID
	Create(ctx context.Context) (session.State, error)

	// Get returns the current page state
	Get(ctx context.Context, id string) (session.State, error)

	// Update applies fn to the current state and stores the result.
	// Updates to one store are serialized; fn must not block.
	Update(ctx context.Context, id string, fn func(session.State) (session.State, error)) (session.State, error)

	// Delete discards a page state
	Delete(ctx context.Context, id string) error
}
