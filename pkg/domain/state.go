package domain

// IdleDisplay is the sentinel shown when nothing has been typed or computed.
const IdleDisplay = "0"

// Phase names the implicit state a calculator is in.
// It is derived from the field combination and never stored.
type Phase string

const (
	PhaseIdle            Phase = "idle"             // Nothing typed since the last clear
	PhaseEntering        Phase = "entering"         // CurrentInput holds digits
	PhaseOperatorPending Phase = "operator_pending" // Waiting for the right-hand operand
	PhaseResultDisplayed Phase = "result_displayed" // Showing the last computed value
	PhaseErrorLatched    Phase = "error_latched"    // Only ClearAll is accepted
)

// State is the complete, serializable state of one calculator.
// Empty strings mean "absent" for Operator, PreviousValue and ErrorMessage.
type State struct {
	// DisplayValue is the numeral shown to the user.
	DisplayValue string `json:"display_value"`

	// CurrentInput is the buffer being typed. Empty means nothing typed yet
	// since the last operator, clear or committed result.
	CurrentInput string `json:"current_input"`

	// Operator is the pending operator, if any.
	Operator Operator `json:"operator,omitempty"`

	// PreviousValue is the left-hand operand awaiting a right-hand operand.
	PreviousValue string `json:"previous_value,omitempty"`

	// ErrorMessage latches the machine until ClearAll.
	ErrorMessage string `json:"error_message,omitempty"`
}

// NewState creates a calculator state at idle.
func NewState() *State {
	return &State{DisplayValue: IdleDisplay}
}

// Reset restores the initial values in place.
func (s *State) Reset() {
	*s = State{DisplayValue: IdleDisplay}
}

// Output is the only value a presentation layer should render.
func (s *State) Output() string {
	if s.ErrorMessage != "" {
		return s.ErrorMessage
	}
	return s.DisplayValue
}

// Latched reports whether an error message blocks further input.
func (s *State) Latched() bool {
	return s.ErrorMessage != ""
}

// Phase derives the implicit machine state.
func (s *State) Phase() Phase {
	switch {
	case s.ErrorMessage != "":
		return PhaseErrorLatched
	case s.CurrentInput != "":
		return PhaseEntering
	case s.Operator != OpNone:
		return PhaseOperatorPending
	case s.DisplayValue != IdleDisplay:
		return PhaseResultDisplayed
	default:
		return PhaseIdle
	}
}

// Snapshot returns a copy of the state.
func (s *State) Snapshot() *State {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
