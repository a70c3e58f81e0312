package domain

import (
	"errors"
	"fmt"
)

// User-facing error messages. These are the only texts ErrorMessage can hold.
const (
	MessageError              = "Error"
	MessageDigitLimitExceeded = "Digit Limit Exceeded"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrEmptySessionID is returned when an adapter is asked for a blank session ID.
var ErrEmptySessionID = errors.New("session id cannot be empty")

// ErrUnknownKey is returned when a token does not name a keypad button.
var ErrUnknownKey = errors.New("unknown key")

// ErrInvalidSessionID is returned for IDs that cannot be used as a file name or key.
var ErrInvalidSessionID = errors.New("invalid session id")

// ValidateSessionID accepts letters, digits, '-', '_' and '.' up to 128 bytes.
func ValidateSessionID(id string) error {
	if id == "" {
		return ErrEmptySessionID
	}
	if len(id) > 128 || id == "." || id == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
		}
	}
	return nil
}
