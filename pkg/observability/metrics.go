package observability

import (
	"github.com/aretw0/tally/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Evaluation outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Metrics holds the Prometheus collectors fed by the lifecycle hooks.
type Metrics struct {
	Keys        *prometheus.CounterVec
	Evaluations *prometheus.CounterVec
	Errors      *prometheus.CounterVec
	// StoreLatency is observed by the persistence middleware.
	StoreLatency *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg skips registration, which is handy in tests.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Keys: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tally_keys_total",
				Help: "Total number of keys pressed, by key kind",
			},
			[]string{"kind"},
		),
		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tally_evaluations_total",
				Help: "Total number of evaluations, by operator and outcome",
			},
			[]string{"operator", "outcome"},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tally_errors_total",
				Help: "Total number of latched error messages",
			},
			[]string{"message"},
		),
		StoreLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tally_store_operation_duration_seconds",
				Help:    "Latency of state store operations, by operation and outcome",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"op", "outcome"},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.Keys, m.Evaluations, m.Errors, m.StoreLatency} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that update the counters.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnKey: func(e *domain.KeyEvent) {
			m.Keys.WithLabelValues(string(e.Key.Kind)).Inc()
		},
		OnEvaluate: func(e *domain.EvalEvent) {
			outcome := OutcomeOK
			if e.Failure != "" {
				outcome = OutcomeFailed
			}
			m.Evaluations.WithLabelValues(string(e.Operator), outcome).Inc()
		},
		OnError: func(e *domain.ErrorEvent) {
			m.Errors.WithLabelValues(e.Message).Inc()
		},
	}
}
