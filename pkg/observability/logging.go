package observability

import (
	"log/slog"

	"github.com/aretw0/tally/pkg/domain"
)

// LogHooks logs evaluations at Debug and latched errors at Warn.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEvaluate: func(e *domain.EvalEvent) {
			logger.Debug("evaluate",
				"left", e.Left,
				"operator", string(e.Operator),
				"right", e.Right,
				"result", e.Result,
				"failure", e.Failure,
			)
		},
		OnError: func(e *domain.ErrorEvent) {
			logger.Warn("error latched", "message", e.Message, "err", e.Cause)
		},
	}
}
