package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewState(t *testing.T) {
	s := NewState()
	assert.Equal(t, "0", s.DisplayValue)
	assert.Equal(t, "", s.CurrentInput)
	assert.Equal(t, OpNone, s.Operator)
	assert.Equal(t, "", s.PreviousValue)
	assert.Equal(t, "", s.ErrorMessage)
	assert.Equal(t, "0", s.Output())
	assert.Equal(t, PhaseIdle, s.Phase())
}

func TestState_Reset(t *testing.T) {
	s := &State{
		DisplayValue:  "12",
		CurrentInput:  "3",
		Operator:      OpMultiply,
		PreviousValue: "12",
		ErrorMessage:  MessageDigitLimitExceeded,
	}
	s.Reset()
	assert.Equal(t, *NewState(), *s)
}

func TestState_Output(t *testing.T) {
	s := &State{DisplayValue: "42"}
	assert.Equal(t, "42", s.Output())

	s.ErrorMessage = MessageError
	assert.Equal(t, MessageError, s.Output())
	assert.True(t, s.Latched())
}

func TestState_Phase(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  Phase
	}{
		{"idle", State{DisplayValue: "0"}, PhaseIdle},
		{"entering", State{DisplayValue: "12", CurrentInput: "12"}, PhaseEntering},
		{"operator pending", State{DisplayValue: "12", Operator: OpAdd, PreviousValue: "12"}, PhaseOperatorPending},
		{"result displayed", State{DisplayValue: "8"}, PhaseResultDisplayed},
		{"error latched", State{DisplayValue: "8", CurrentInput: "3", ErrorMessage: MessageError}, PhaseErrorLatched},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.Phase())
		})
	}
}

func TestState_Snapshot(t *testing.T) {
	s := &State{DisplayValue: "5", CurrentInput: "5"}
	c := s.Snapshot()
	c.CurrentInput = "56"
	assert.Equal(t, "5", s.CurrentInput)

	var nilState *State
	assert.Nil(t, nilState.Snapshot())
}
