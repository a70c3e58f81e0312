// Package arith performs one decimal operation at a time on numeral strings.
//
// Operands are parsed as arbitrary precision decimals, so addition,
// subtraction and multiplication are exact. Division rounds half away from
// zero to a fixed number of decimal places (20 by default). The canonical
// result string is then checked against the digit limit, which is how a short
// input such as 10 ÷ 3 ends up rejected.
package arith

import (
	"errors"
	"fmt"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/validation"
	"github.com/shopspring/decimal"
)

// DefaultDivisionScale is the number of decimal places kept by division.
const DefaultDivisionScale int32 = 20

var (
	ErrDivideByZero       = errors.New("divide by zero")
	ErrUnknownOperator    = errors.New("unknown operator")
	ErrDigitLimitExceeded = errors.New("digit limit exceeded")
)

// Kind classifies an evaluation failure.
type Kind string

const (
	KindDivideByZero       Kind = "divide_by_zero"
	KindUnknownOperator    Kind = "unknown_operator"
	KindDigitLimitExceeded Kind = "digit_limit_exceeded"
	KindGenericError       Kind = "generic_error"
)

// Failure is the error returned by Evaluate.
// Use errors.As to inspect the Kind.
type Failure struct {
	Kind Kind
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("arith: %s: %v", f.Kind, f.Err)
}

// Unwrap provides compatibility with errors.Is and errors.As.
func (f *Failure) Unwrap() error { return f.Err }

// Message is the text shown to the user for this failure.
func (f *Failure) Message() string {
	if f.Kind == KindDigitLimitExceeded {
		return domain.MessageDigitLimitExceeded
	}
	return domain.MessageError
}

// Message normalizes any error to one of the two user-facing texts.
func Message(err error) string {
	var f *Failure
	if errors.As(err, &f) {
		return f.Message()
	}
	return domain.MessageError
}

// Evaluator computes a single binary operation.
type Evaluator struct {
	validator     validation.Validator
	divisionScale int32
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithMaxDigits sets the result width limit (default 18).
func WithMaxDigits(n int) Option {
	return func(e *Evaluator) {
		e.validator = validation.New(n)
	}
}

// WithDivisionScale sets how many decimal places division keeps (default 20).
func WithDivisionScale(scale int32) Option {
	return func(e *Evaluator) {
		if scale >= 0 {
			e.divisionScale = scale
		}
	}
}

// New creates an Evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		validator:     validation.New(validation.MaxDigit),
		divisionScale: DefaultDivisionScale,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEvaluator = New()

// Evaluate runs op on left and right with the default settings.
func Evaluate(left, right string, op domain.Operator) (string, error) {
	return defaultEvaluator.Evaluate(left, right, op)
}

// Evaluate computes left op right and returns the canonical decimal string.
// Malformed operands are reported as KindGenericError rather than coerced.
func (e *Evaluator) Evaluate(left, right string, op domain.Operator) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = ""
			err = &Failure{Kind: KindGenericError, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	x, err := decimal.NewFromString(left)
	if err != nil {
		return "", &Failure{Kind: KindGenericError, Err: fmt.Errorf("invalid left operand %q: %w", left, err)}
	}
	y, err := decimal.NewFromString(right)
	if err != nil {
		return "", &Failure{Kind: KindGenericError, Err: fmt.Errorf("invalid right operand %q: %w", right, err)}
	}

	var value decimal.Decimal
	switch op {
	case domain.OpAdd:
		value = x.Add(y)
	case domain.OpSubtract:
		value = x.Sub(y)
	case domain.OpMultiply:
		value = x.Mul(y)
	case domain.OpDivide:
		if y.IsZero() {
			return "", &Failure{Kind: KindDivideByZero, Err: ErrDivideByZero}
		}
		value = x.DivRound(y, e.divisionScale)
	default:
		return "", &Failure{Kind: KindUnknownOperator, Err: fmt.Errorf("%w: %q", ErrUnknownOperator, op)}
	}

	result = value.String()
	if e.validator.IsExceeding(result) {
		return "", &Failure{
			Kind: KindDigitLimitExceeded,
			Err:  fmt.Errorf("%w: %d characters", ErrDigitLimitExceeded, len(result)),
		}
	}

	return result, nil
}
