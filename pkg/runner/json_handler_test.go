package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONHandler_Output(t *testing.T) {
	buf := &bytes.Buffer{}
	h := NewJSONHandler(strings.NewReader(""), buf)

	require.NoError(t, h.Output(context.Background(), NewView("s1", &domain.State{
		DisplayValue:  "12",
		CurrentInput:  "12",
		Operator:      domain.OpAdd,
		PreviousValue: "30",
	})))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.JSONEq(t, `{
		"session_id": "s1",
		"output": "12",
		"display_value": "12",
		"current_input": "12",
		"operator": "+",
		"previous_value": "30",
		"phase": "entering"
	}`, lines[0])
}

func TestJSONHandler_Input(t *testing.T) {
	input := strings.Join([]string{
		`"5 + 3 ="`,
		`{"keys": "AC"}`,
		`12 ×`,
		`{"other": 1}`,
		`7`,
	}, "\n")
	h := NewJSONHandler(strings.NewReader(input), io.Discard)

	for _, want := range []string{"5 + 3 =", "AC", "12 ×", `{"other": 1}`, "7"} {
		got, err := h.Input(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := h.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestJSONHandler_Input_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewJSONHandler(strings.NewReader("1\n"), io.Discard).Input(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestJSONHandler_SystemOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	h := NewJSONHandler(strings.NewReader(""), buf)

	require.NoError(t, h.SystemOutput(context.Background(), "unknown key"))

	var msg SystemMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &msg))
	assert.Equal(t, SystemMessage{Type: "system", Message: "unknown key"}, msg)
}
