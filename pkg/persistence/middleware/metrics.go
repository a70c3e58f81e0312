package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

type metricsMiddleware struct {
	next     ports.StateStore
	observer prometheus.ObserverVec
}

// NewMetricsMiddleware observes the duration of every store operation in
// seconds. The observer must take the labels "op" and "outcome".
func NewMetricsMiddleware(observer prometheus.ObserverVec) Middleware {
	return func(next ports.StateStore) ports.StateStore {
		return &metricsMiddleware{next: next, observer: observer}
	}
}

func (m *metricsMiddleware) observe(op string, start time.Time, err error) {
	outcome := OutcomeOK
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		outcome = OutcomeNotFound
	case err != nil:
		outcome = OutcomeError
	}
	m.observer.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
}

func (m *metricsMiddleware) Save(ctx context.Context, sessionID string, state *domain.State) error {
	start := time.Now()
	err := m.next.Save(ctx, sessionID, state)
	m.observe("save", start, err)
	return err
}

func (m *metricsMiddleware) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	start := time.Now()
	state, err := m.next.Load(ctx, sessionID)
	m.observe("load", start, err)
	return state, err
}

func (m *metricsMiddleware) Delete(ctx context.Context, sessionID string) error {
	start := time.Now()
	err := m.next.Delete(ctx, sessionID)
	m.observe("delete", start, err)
	return err
}

func (m *metricsMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := m.next.List(ctx)
	m.observe("list", start, err)
	return ids, err
}
