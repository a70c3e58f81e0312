package domain

// StateDiff represents the changes between two states.
// It is designed to be serialized to JSON for partial updates on the client.
// A nil field means "unchanged"; a pointer to "" means the field was cleared.
type StateDiff struct {
	SessionID     string    `json:"session_id,omitempty"`
	DisplayValue  *string   `json:"display_value,omitempty"`
	CurrentInput  *string   `json:"current_input,omitempty"`
	Operator      *Operator `json:"operator,omitempty"`
	PreviousValue *string   `json:"previous_value,omitempty"`
	ErrorMessage  *string   `json:"error_message,omitempty"`

	// Output is always the rendered value of the new state.
	Output string `json:"output"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing changed.
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{Output: newState.Output()}
	changed := false

	if oldState == nil || oldState.DisplayValue != newState.DisplayValue {
		diff.DisplayValue = ptr(newState.DisplayValue)
		changed = true
	}
	if oldState == nil || oldState.CurrentInput != newState.CurrentInput {
		diff.CurrentInput = ptr(newState.CurrentInput)
		changed = true
	}
	if oldState == nil || oldState.Operator != newState.Operator {
		diff.Operator = ptr(newState.Operator)
		changed = true
	}
	if oldState == nil || oldState.PreviousValue != newState.PreviousValue {
		diff.PreviousValue = ptr(newState.PreviousValue)
		changed = true
	}
	if oldState == nil || oldState.ErrorMessage != newState.ErrorMessage {
		diff.ErrorMessage = ptr(newState.ErrorMessage)
		changed = true
	}

	if !changed {
		return nil
	}
	return diff
}

func ptr[T any](v T) *T {
	return &v
}
