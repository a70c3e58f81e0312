// Package validation holds the input guards applied before the machine
// accepts a key.
package validation

// MaxDigit is the default cap on the raw length of a numeral.
const MaxDigit = 18

// Validator checks numerals against a character limit.
// The limit covers the whole string, so "." and a leading "-" count.
type Validator struct {
	Limit int
}

// New returns a Validator with the given limit, or MaxDigit when limit <= 0.
func New(limit int) Validator {
	if limit <= 0 {
		limit = MaxDigit
	}
	return Validator{Limit: limit}
}

// IsExceeding reports whether value plus the additional characters reaches the limit.
func (v Validator) IsExceeding(value string, additional ...int) bool {
	extra := 0
	for _, n := range additional {
		extra += n
	}
	return len(value)+extra >= v.limit()
}

func (v Validator) limit() int {
	if v.Limit <= 0 {
		return MaxDigit
	}
	return v.Limit
}

// IsExceedingMaxDigit reports whether value plus additional characters reaches MaxDigit.
func IsExceedingMaxDigit(value string, additional ...int) bool {
	return Validator{Limit: MaxDigit}.IsExceeding(value, additional...)
}
