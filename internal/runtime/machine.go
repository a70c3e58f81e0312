package runtime

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/tally/pkg/arith"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/validation"
)

// Evaluator computes one binary operation on numeral strings.
type Evaluator interface {
	Evaluate(left, right string, op domain.Operator) (string, error)
}

// Machine applies keypad input to a calculator state.
// It holds no state of its own, so one Machine can drive any number of
// calculators. Callers own the *domain.State and must not share it between
// goroutines without their own synchronization.
type Machine struct {
	evaluator Evaluator
	validator validation.Validator
	hooks     domain.LifecycleHooks
	logger    *slog.Logger

	maxDigits     int
	divisionScale int32
	customEval    bool
}

// Option configures a Machine.
type Option func(*Machine)

// WithEvaluator replaces the decimal evaluator.
func WithEvaluator(ev Evaluator) Option {
	return func(m *Machine) {
		if ev != nil {
			m.evaluator = ev
			m.customEval = true
		}
	}
}

// WithMaxDigits sets the character cap used for both input and results.
func WithMaxDigits(n int) Option {
	return func(m *Machine) {
		m.maxDigits = n
	}
}

// WithDivisionScale sets the decimal places kept by division.
func WithDivisionScale(scale int32) Option {
	return func(m *Machine) {
		m.divisionScale = scale
	}
}

// WithLifecycleHooks registers observers for machine events.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// WithLogger sets the logger. Rejected input is logged at Debug.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMachine creates a Machine with the default 18 character cap and a
// 20 place division scale.
func NewMachine(opts ...Option) *Machine {
	m := &Machine{
		maxDigits:     validation.MaxDigit,
		divisionScale: arith.DefaultDivisionScale,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.validator = validation.New(m.maxDigits)
	if !m.customEval {
		m.evaluator = arith.New(
			arith.WithMaxDigits(m.validator.Limit),
			arith.WithDivisionScale(m.divisionScale),
		)
	}
	return m
}

// Press dispatches a single key. Unknown keys are ignored.
func (m *Machine) Press(s *domain.State, k domain.Key) {
	if s == nil {
		return
	}

	if m.hooks.OnKey != nil {
		m.hooks.OnKey(&domain.KeyEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventKey},
			Key:       k,
			Phase:     s.Phase(),
		})
	}

	before := *s

	switch k.Kind {
	case domain.KeyDigit:
		m.inputDigit(s, k.Value)
	case domain.KeyDot:
		m.inputDot(s)
	case domain.KeyOperator:
		m.setOperator(s, domain.Operator(k.Value))
	case domain.KeyEquals:
		m.calculateResult(s)
	case domain.KeyClearAll:
		s.Reset()
	case domain.KeyClearEntry:
		m.clearEntry(s)
	case domain.KeyBackspace:
		m.backspace(s)
	default:
		m.logger.Debug("key ignored", "key", k.String(), "reason", "unknown kind")
	}

	if m.hooks.OnChange != nil {
		if diff := domain.Diff(&before, s); diff != nil {
			m.hooks.OnChange(&domain.ChangeEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventChange},
				Diff:      diff,
				State:     *s,
			})
		}
	}
}

// InputDigit appends "0".."9" or "00" to the buffer.
func (m *Machine) InputDigit(s *domain.State, token string) { m.Press(s, domain.Digit(token)) }

// InputDot adds the decimal point.
func (m *Machine) InputDot(s *domain.State) { m.Press(s, domain.Dot) }

// ClearAll restores the initial state. It is the only way out of an error.
func (m *Machine) ClearAll(s *domain.State) { m.Press(s, domain.ClearAll) }

// ClearEntry discards the buffer but keeps a pending operation.
func (m *Machine) ClearEntry(s *domain.State) { m.Press(s, domain.ClearEntry) }

// Backspace drops the last typed character.
func (m *Machine) Backspace(s *domain.State) { m.Press(s, domain.Backspace) }

// SetOperator selects the next operator, folding any pending operation first.
func (m *Machine) SetOperator(s *domain.State, op domain.Operator) { m.Press(s, domain.Op(op)) }

// CalculateResult evaluates the pending operation.
func (m *Machine) CalculateResult(s *domain.State) { m.Press(s, domain.Equals) }

func (m *Machine) inputDigit(s *domain.State, token string) {
	if m.rejectLatched(s, "digit") {
		return
	}
	if !domain.IsDigitToken(token) {
		m.logger.Debug("key ignored", "key", token, "reason", "not a digit")
		return
	}

	if token == domain.TokenDoubleZero {
		if s.CurrentInput == "" {
			m.logger.Debug("key ignored", "key", token, "reason", "empty buffer")
			return
		}
		if m.validator.IsExceeding(s.CurrentInput, 1) {
			m.logger.Debug("key ignored", "key", token, "reason", "digit limit", "len", len(s.CurrentInput))
			return
		}
	}

	if m.validator.IsExceeding(s.CurrentInput) {
		m.logger.Debug("key ignored", "key", token, "reason", "digit limit", "len", len(s.CurrentInput))
		return
	}

	if s.CurrentInput == "0" {
		s.CurrentInput = token
	} else {
		s.CurrentInput += token
	}
	s.DisplayValue = s.CurrentInput
}

func (m *Machine) inputDot(s *domain.State) {
	if m.rejectLatched(s, domain.TokenDot) {
		return
	}

	switch {
	case s.CurrentInput == "":
		if s.DisplayValue != domain.IdleDisplay {
			m.logger.Debug("key ignored", "key", domain.TokenDot, "reason", "result displayed")
			return
		}
		s.CurrentInput = "0."
	case strings.Contains(s.CurrentInput, domain.TokenDot):
		return
	default:
		s.CurrentInput += domain.TokenDot
	}
	s.DisplayValue = s.CurrentInput
}

func (m *Machine) clearEntry(s *domain.State) {
	if m.rejectLatched(s, domain.TokenClearEntry) {
		return
	}
	s.CurrentInput = ""
	s.DisplayValue = domain.IdleDisplay
}

func (m *Machine) backspace(s *domain.State) {
	if m.rejectLatched(s, domain.TokenBackspace) {
		return
	}
	if s.CurrentInput == "" {
		return
	}

	s.CurrentInput = s.CurrentInput[:len(s.CurrentInput)-1]
	if s.CurrentInput == "" {
		s.DisplayValue = domain.IdleDisplay
		return
	}
	s.DisplayValue = s.CurrentInput
}

func (m *Machine) setOperator(s *domain.State, op domain.Operator) {
	if m.rejectLatched(s, string(op)) {
		return
	}

	if s.CurrentInput != "" {
		if s.PreviousValue != "" && s.Operator != domain.OpNone {
			result, ok := m.evaluate(s, s.PreviousValue, s.CurrentInput, s.Operator)
			if !ok {
				return
			}
			s.DisplayValue = result
			s.PreviousValue = result
		} else {
			s.PreviousValue = s.CurrentInput
		}
		s.CurrentInput = ""
	} else if s.PreviousValue == "" && s.Operator == domain.OpNone && s.DisplayValue != domain.IdleDisplay {
		// Chain off a computed result.
		s.PreviousValue = s.DisplayValue
	}

	s.Operator = op
}

func (m *Machine) calculateResult(s *domain.State) {
	if m.rejectLatched(s, domain.TokenEquals) {
		return
	}
	if s.PreviousValue == "" || s.Operator == domain.OpNone || s.CurrentInput == "" {
		m.logger.Debug("key ignored", "key", domain.TokenEquals, "reason", "incomplete expression")
		return
	}

	result, ok := m.evaluate(s, s.PreviousValue, s.CurrentInput, s.Operator)
	if !ok {
		return
	}

	s.DisplayValue = result
	s.CurrentInput = ""
	s.Operator = domain.OpNone
	s.PreviousValue = ""
}

// evaluate runs the evaluator and latches the error message on failure.
// Only ErrorMessage is written when it fails.
func (m *Machine) evaluate(s *domain.State, left, right string, op domain.Operator) (string, bool) {
	result, err := m.evaluator.Evaluate(left, right, op)

	if m.hooks.OnEvaluate != nil {
		evt := &domain.EvalEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventEvaluate},
			Left:      left,
			Right:     right,
			Operator:  op,
			Result:    result,
		}
		if err != nil {
			evt.Result = ""
			evt.Failure = failureKind(err)
		}
		m.hooks.OnEvaluate(evt)
	}

	if err != nil {
		s.ErrorMessage = arith.Message(err)
		m.logger.Info("calculation failed",
			"left", left, "right", right, "operator", op.String(),
			"message", s.ErrorMessage, "err", err)

		if m.hooks.OnError != nil {
			m.hooks.OnError(&domain.ErrorEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventError},
				Message:   s.ErrorMessage,
				Cause:     err,
			})
		}
		return "", false
	}

	return result, true
}

func (m *Machine) rejectLatched(s *domain.State, key string) bool {
	if !s.Latched() {
		return false
	}
	m.logger.Debug("key ignored", "key", key, "reason", "error latched", "message", s.ErrorMessage)
	return true
}

func failureKind(err error) string {
	var f *arith.Failure
	if errors.As(err, &f) {
		return string(f.Kind)
	}
	return string(arith.KindGenericError)
}
