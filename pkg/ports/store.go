package ports

import (
	"context"

	"github.com/aretw0/tally/pkg/domain"
)

// StateStore persists calculator states by session ID.
// Implementations must store copies: mutating a state after Save or after
// Load must not affect what the store holds.
type StateStore interface {
	// Save persists the state for a given session ID.
	Save(ctx context.Context, sessionID string, state *domain.State) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.State, error)

	// Delete removes the state for a given session ID.
	// Deleting an unknown session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions, sorted.
	List(ctx context.Context) ([]string, error)
}
