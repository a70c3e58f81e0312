package middleware_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/tally/pkg/adapters/memory"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/persistence/middleware"
	"github.com/aretw0/tally/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHistogram() *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "store_seconds"}, []string{"op", "outcome"})
}

func TestChain_Contract(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ports.RunStateStoreContract(t, middleware.Chain(memory.NewStore(),
		middleware.NewLoggingMiddleware(logger),
		middleware.NewMetricsMiddleware(newHistogram()),
	))
}

func TestChain_Order(t *testing.T) {
	var calls []string
	tag := func(name string) middleware.Middleware {
		return func(next ports.StateStore) ports.StateStore {
			calls = append(calls, name)
			return next
		}
	}

	middleware.Chain(NewMockStore(), tag("outer"), tag("inner"))
	assert.Equal(t, []string{"inner", "outer"}, calls, "inner wraps the store first")
}

func TestLoggingMiddleware(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	backend := NewMockStore()
	store := middleware.NewLoggingMiddleware(logger)(backend)

	require.NoError(t, store.Save(ctx, "desk", domain.NewState()))
	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	out := buf.String()
	assert.Contains(t, out, "op=save session_id=desk")
	assert.Contains(t, out, "op=load session_id=missing")
	assert.NotContains(t, out, "level=ERROR", "a missing session is not a failure")

	backend.fail = true
	buf.Reset()
	_, err = store.List(ctx)
	assert.ErrorIs(t, err, errBackend)
	assert.True(t, strings.Contains(buf.String(), `level=ERROR msg="store operation failed" op=list`), buf.String())
}

func TestMetricsMiddleware(t *testing.T) {
	ctx := context.Background()
	hist := newHistogram()
	backend := NewMockStore()
	store := middleware.NewMetricsMiddleware(hist)(backend)

	require.NoError(t, store.Save(ctx, "a", domain.NewState()))
	_, err := store.Load(ctx, "a")
	require.NoError(t, err)
	_, err = store.Load(ctx, "b")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	backend.fail = true
	require.Error(t, store.Delete(ctx, "a"))

	// save/ok, load/ok, load/not_found, delete/error
	assert.Equal(t, 4, testutil.CollectAndCount(hist))
}
