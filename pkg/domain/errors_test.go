package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSessionID(t *testing.T) {
	for _, id := range []string{"default", "a1b2", "7c9e6679-7425-40de-944b-e07fc1f90ae7", "desk_2.v1"} {
		assert.NoError(t, ValidateSessionID(id), id)
	}

	assert.ErrorIs(t, ValidateSessionID(""), ErrEmptySessionID)
	for _, id := range []string{"..", ".", "../etc", "a/b", `a\b`, "with space", strings.Repeat("x", 129)} {
		assert.ErrorIs(t, ValidateSessionID(id), ErrInvalidSessionID, id)
	}
}
