package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/aretw0/tally/pkg/adapters/memory"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_LocksAreReleased(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()

	for i := 0; i < 2000; i++ {
		sid := fmt.Sprintf("desk-%d", i)
		_, err := mgr.Update(ctx, sid, func(ctx context.Context, s *domain.State) (*domain.State, error) {
			return s, nil
		})
		require.NoError(t, err)
		require.NoError(t, mgr.Delete(ctx, sid))
	}

	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	assert.Empty(t, mgr.locks, "lock entries must not outlive their users")
}

func TestManager_UpdateSerializesPerSession(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := mgr.Update(ctx, "shared", func(ctx context.Context, s *domain.State) (*domain.State, error) {
				s.CurrentInput += "1"
				return s, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	state, err := mgr.Load(ctx, "shared")
	require.NoError(t, err)
	assert.Len(t, state.CurrentInput, 50, "no update may be lost")
}
