package domain

import (
	"fmt"
	"strings"
)

// KeyKind classifies a keypad button.
type KeyKind string

const (
	KeyDigit      KeyKind = "digit"
	KeyDot        KeyKind = "dot"
	KeyOperator   KeyKind = "operator"
	KeyEquals     KeyKind = "equals"
	KeyClearAll   KeyKind = "clear_all"
	KeyClearEntry KeyKind = "clear_entry"
	KeyBackspace  KeyKind = "backspace"
)

// Keypad tokens.
const (
	TokenDoubleZero = "00"
	TokenDot        = "."
	TokenEquals     = "="
	TokenClearAll   = "AC"
	TokenClearEntry = "CE"
	TokenBackspace  = "BS"
	TokenErase      = "⌫"
)

// Key is a single button press.
// Value carries the digit token or the operator glyph; it is empty otherwise.
type Key struct {
	Kind  KeyKind `json:"kind"`
	Value string  `json:"value,omitempty"`
}

// Digit builds a digit key ("0".."9" or "00").
func Digit(token string) Key { return Key{Kind: KeyDigit, Value: token} }

// Op builds an operator key.
func Op(op Operator) Key { return Key{Kind: KeyOperator, Value: string(op)} }

var (
	Dot        = Key{Kind: KeyDot}
	Equals     = Key{Kind: KeyEquals}
	ClearAll   = Key{Kind: KeyClearAll}
	ClearEntry = Key{Kind: KeyClearEntry}
	Backspace  = Key{Kind: KeyBackspace}
)

// String returns the keypad token for the key.
func (k Key) String() string {
	switch k.Kind {
	case KeyDigit, KeyOperator:
		return k.Value
	case KeyDot:
		return TokenDot
	case KeyEquals:
		return TokenEquals
	case KeyClearAll:
		return TokenClearAll
	case KeyClearEntry:
		return TokenClearEntry
	case KeyBackspace:
		return TokenBackspace
	}
	return string(k.Kind)
}

// IsDigitToken reports whether token is accepted by the digit handler.
func IsDigitToken(token string) bool {
	if token == TokenDoubleZero {
		return true
	}
	return len(token) == 1 && token[0] >= '0' && token[0] <= '9'
}

// ParseKey maps a single keypad token to a Key.
func ParseKey(token string) (Key, error) {
	switch {
	case IsDigitToken(token):
		return Digit(token), nil
	case Operator(token).Valid():
		return Op(Operator(token)), nil
	}

	switch token {
	case TokenDot:
		return Dot, nil
	case TokenEquals:
		return Equals, nil
	case TokenClearAll:
		return ClearAll, nil
	case TokenClearEntry:
		return ClearEntry, nil
	case TokenBackspace, TokenErase:
		return Backspace, nil
	}

	return Key{}, fmt.Errorf("%w: %q", ErrUnknownKey, token)
}

// ParseKeys splits a line of whitespace-separated tokens into keys.
// A numeral field such as "123" or "3.5" is expanded into one key per
// character; "00" stays the double-zero key.
func ParseKeys(line string) ([]Key, error) {
	var keys []Key
	for _, field := range strings.Fields(line) {
		if field != TokenDoubleZero && isNumeral(field) {
			for _, r := range field {
				k, err := ParseKey(string(r))
				if err != nil {
					return nil, err
				}
				keys = append(keys, k)
			}
			continue
		}

		k, err := ParseKey(field)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// ParseTokens parses each token with ParseKey.
func ParseTokens(tokens []string) ([]Key, error) {
	keys := make([]Key, 0, len(tokens))
	for _, tok := range tokens {
		parsed, err := ParseKeys(tok)
		if err != nil {
			return nil, err
		}
		keys = append(keys, parsed...)
	}
	return keys, nil
}

func isNumeral(s string) bool {
	for i := 0; i < len(s); i++ {
		if (s[i] < '0' || s[i] > '9') && s[i] != '.' {
			return false
		}
	}
	return len(s) > 1
}
