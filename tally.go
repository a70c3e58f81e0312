package tally

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/tally/internal/runtime"
	"github.com/aretw0/tally/pkg/arith"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/validation"
)

// Engine is the high-level entry point for the tally library.
// It wraps the internal machine and applies key sequences to caller-owned
// states, which is what the session-backed adapters need.
type Engine struct {
	machine       *runtime.Machine
	hooks         domain.LifecycleHooks
	logger        *slog.Logger
	maxDigits     int
	divisionScale int32
	evaluator     runtime.Evaluator
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxDigits sets the character cap for typed numerals and results (default 18).
func WithMaxDigits(n int) Option {
	return func(e *Engine) {
		e.maxDigits = n
	}
}

// WithDivisionScale sets how many decimal places division keeps (default 20).
func WithDivisionScale(scale int32) Option {
	return func(e *Engine) {
		e.divisionScale = scale
	}
}

// WithEvaluator swaps the decimal evaluator, mostly for tests.
func WithEvaluator(ev runtime.Evaluator) Option {
	return func(e *Engine) {
		e.evaluator = ev
	}
}

// New initializes a new Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{
		maxDigits:     validation.MaxDigit,
		divisionScale: arith.DefaultDivisionScale,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	runtimeOpts := []runtime.Option{
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithMaxDigits(eng.maxDigits),
		runtime.WithDivisionScale(eng.divisionScale),
	}
	if eng.evaluator != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithEvaluator(eng.evaluator))
	}
	eng.machine = runtime.NewMachine(runtimeOpts...)

	return eng
}

// Apply presses keys in order on a copy of state and returns the copy.
// A nil state starts from idle. When ctx is cancelled between keys the
// partially applied state is returned together with ctx.Err().
func (e *Engine) Apply(ctx context.Context, state *domain.State, keys ...domain.Key) (*domain.State, error) {
	next := state.Snapshot()
	if next == nil {
		next = domain.NewState()
	}

	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return next, err
		}
		e.machine.Press(next, k)
	}
	return next, nil
}

// NewCalculator creates a single-owner calculator driven by this engine.
func (e *Engine) NewCalculator() *Calculator {
	return &Calculator{machine: e.machine, state: domain.NewState()}
}
