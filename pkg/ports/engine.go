package ports

import (
	"context"

	"github.com/aretw0/tally/pkg/domain"
)

// KeyApplier is the stateless calculator core used by adapters that keep
// states in a StateStore. tally.Engine implements it.
type KeyApplier interface {
	// Apply presses keys on a copy of state and returns the copy.
	Apply(ctx context.Context, state *domain.State, keys ...domain.Key) (*domain.State, error)
}
