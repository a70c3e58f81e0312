package tally

import (
	"github.com/aretw0/tally/internal/runtime"
	"github.com/aretw0/tally/pkg/domain"
)

// Calculator owns one calculator state.
// It is synchronous and not safe for concurrent use; share state through
// pkg/session instead.
type Calculator struct {
	machine *runtime.Machine
	state   *domain.State
}

// NewCalculator creates a calculator at idle.
func NewCalculator(opts ...Option) *Calculator {
	return New(opts...).NewCalculator()
}

func (c *Calculator) InputDigit(token string)        { c.machine.InputDigit(c.state, token) }
func (c *Calculator) InputDot()                      { c.machine.InputDot(c.state) }
func (c *Calculator) ClearAll()                      { c.machine.ClearAll(c.state) }
func (c *Calculator) ClearEntry()                    { c.machine.ClearEntry(c.state) }
func (c *Calculator) Backspace()                     { c.machine.Backspace(c.state) }
func (c *Calculator) SetOperator(op domain.Operator) { c.machine.SetOperator(c.state, op) }
func (c *Calculator) CalculateResult()               { c.machine.CalculateResult(c.state) }

// Press dispatches a single key.
func (c *Calculator) Press(k domain.Key) { c.machine.Press(c.state, k) }

// PressAll dispatches keys in order.
func (c *Calculator) PressAll(keys ...domain.Key) {
	for _, k := range keys {
		c.machine.Press(c.state, k)
	}
}

func (c *Calculator) DisplayValue() string      { return c.state.DisplayValue }
func (c *Calculator) CurrentInput() string      { return c.state.CurrentInput }
func (c *Calculator) Operator() domain.Operator { return c.state.Operator }
func (c *Calculator) PreviousValue() string     { return c.state.PreviousValue }
func (c *Calculator) ErrorMessage() string      { return c.state.ErrorMessage }

// Output is the text to render: the error message if one is latched,
// otherwise the display value.
func (c *Calculator) Output() string { return c.state.Output() }

// State returns a snapshot of the current state.
func (c *Calculator) State() *domain.State { return c.state.Snapshot() }

// Restore replaces the current state with a copy of s.
// A nil state resets to idle.
func (c *Calculator) Restore(s *domain.State) {
	if s == nil {
		c.state = domain.NewState()
		return
	}
	c.state = s.Snapshot()
}
