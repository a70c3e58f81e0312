package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		token string
		want  Key
	}{
		{"0", Digit("0")},
		{"9", Digit("9")},
		{"00", Digit("00")},
		{".", Dot},
		{"+", Op(OpAdd)},
		{"-", Op(OpSubtract)},
		{"×", Op(OpMultiply)},
		{"÷", Op(OpDivide)},
		{"=", Equals},
		{"AC", ClearAll},
		{"CE", ClearEntry},
		{"BS", Backspace},
		{"⌫", Backspace},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseKey(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.token != TokenErase {
				assert.Equal(t, tt.token, got.String())
			}
		})
	}
}

func TestParseKey_Unknown(t *testing.T) {
	for _, token := range []string{"", "*", "/", "%", "10", "a", "ac"} {
		_, err := ParseKey(token)
		assert.ErrorIs(t, err, ErrUnknownKey, "token %q", token)
	}
}

func TestParseKeys_ExpandsNumerals(t *testing.T) {
	keys, err := ParseKeys("123 + 3.5 00 =")
	require.NoError(t, err)

	tokens := make([]string, len(keys))
	for i, k := range keys {
		tokens[i] = k.String()
	}
	assert.Equal(t, []string{"1", "2", "3", "+", "3", ".", "5", "00", "="}, tokens)
}

func TestParseKeys_Rejects(t *testing.T) {
	_, err := ParseKeys("5 * 3")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestParseTokens(t *testing.T) {
	keys, err := ParseTokens([]string{"10", "÷", "4", "="})
	require.NoError(t, err)
	assert.Len(t, keys, 5)
	assert.Equal(t, Op(OpDivide), keys[2])
}

func TestOperator_Valid(t *testing.T) {
	for _, op := range Operators {
		assert.True(t, op.Valid())
	}
	assert.False(t, OpNone.Valid())
	assert.False(t, Operator("*").Valid())
}
