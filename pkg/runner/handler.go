package runner

import (
	"context"

	"github.com/aretw0/tally/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (REPL) and JSON (NDJSON) modes.
type IOHandler interface {
	// Output presents the calculator after a line of keys was applied.
	Output(ctx context.Context, view View) error

	// Input reads the next line of keys or a command.
	// It returns io.EOF when the source is exhausted.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message such as help or a rejected line.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms markdown before it is printed.
// This allows TUI rendering without coupling the core package.
type ContentRenderer func(string) (string, error)

// View is what a frontend shows for one calculator state.
type View struct {
	SessionID     string `json:"session_id,omitempty"`
	Output        string `json:"output"`
	DisplayValue  string `json:"display_value"`
	CurrentInput  string `json:"current_input"`
	Operator      string `json:"operator,omitempty"`
	PreviousValue string `json:"previous_value,omitempty"`
	ErrorMessage  string `json:"error_message,omitempty"`
	Phase         string `json:"phase"`
}

// NewView builds the View of s.
func NewView(sessionID string, s *domain.State) View {
	if s == nil {
		s = domain.NewState()
	}
	return View{
		SessionID:     sessionID,
		Output:        s.Output(),
		DisplayValue:  s.DisplayValue,
		CurrentInput:  s.CurrentInput,
		Operator:      string(s.Operator),
		PreviousValue: s.PreviousValue,
		ErrorMessage:  s.ErrorMessage,
		Phase:         string(s.Phase()),
	}
}

// Pending is the stored half of the expression, e.g. "10 ÷".
func (v View) Pending() string {
	if v.Operator == "" || v.ErrorMessage != "" {
		return ""
	}
	if v.PreviousValue == "" {
		return v.Operator
	}
	return v.PreviousValue + " " + v.Operator
}
