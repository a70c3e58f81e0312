package runner

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextHandler_Output(t *testing.T) {
	out := &bytes.Buffer{}
	h := NewTextHandler(strings.NewReader(""), out, WithColorProfile(termenv.Ascii), WithDisplayWidth(8))

	err := h.Output(context.Background(), NewView("", &domain.State{
		DisplayValue:  "3",
		CurrentInput:  "3",
		Operator:      domain.OpDivide,
		PreviousValue: "10",
	}))
	require.NoError(t, err)

	assert.Equal(t, "    10 ÷\n       3\n", out.String())
}

func TestTextHandler_Output_Error(t *testing.T) {
	out := &bytes.Buffer{}
	h := NewTextHandler(strings.NewReader(""), out, WithColorProfile(termenv.Ascii), WithDisplayWidth(0))

	err := h.Output(context.Background(), NewView("", &domain.State{
		DisplayValue:  "0",
		CurrentInput:  "0",
		Operator:      domain.OpDivide,
		PreviousValue: "10",
		ErrorMessage:  domain.MessageError,
	}))
	require.NoError(t, err)

	assert.Equal(t, "Error\n", out.String(), "pending expression is hidden behind an error")
}

func TestTextHandler_Output_Colored(t *testing.T) {
	out := &bytes.Buffer{}
	h := NewTextHandler(strings.NewReader(""), out, WithColorProfile(termenv.ANSI), WithDisplayWidth(0))

	require.NoError(t, h.Output(context.Background(), NewView("", &domain.State{
		DisplayValue: "0",
		ErrorMessage: domain.MessageDigitLimitExceeded,
	})))

	assert.Contains(t, out.String(), termenv.CSI)
	assert.Contains(t, out.String(), domain.MessageDigitLimitExceeded)
}

func TestTextHandler_Input(t *testing.T) {
	out := &bytes.Buffer{}
	h := NewTextHandler(strings.NewReader("  7 × 6  \n\x1b=\n"), out, WithPrompt("tally> "))

	val, err := h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "7 × 6", val)

	val, err = h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "=", val)

	_, err = h.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF)

	assert.Equal(t, "tally> tally> tally> ", out.String())
}

func TestTextHandler_Input_RejectsOversized(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "8")

	out := &bytes.Buffer{}
	h := NewTextHandler(strings.NewReader("1 + 1 + 1 + 1\n2\n"), out)

	val, err := h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2", val)
	assert.Contains(t, out.String(), "Please try again")
}

func TestTextHandler_Input_Cancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	h := NewTextHandler(pr, io.Discard)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := h.Input(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTextHandler_SystemOutput(t *testing.T) {
	out := &bytes.Buffer{}
	h := NewTextHandler(strings.NewReader(""), out)

	require.NoError(t, h.SystemOutput(context.Background(), "hello\n\n"))
	assert.Equal(t, "hello\n", out.String())
}
