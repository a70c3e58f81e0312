package domain

// Operator is a binary arithmetic operator as printed on the keypad.
// Multiplication and division use the typographic glyphs, not ASCII.
type Operator string

const (
	OpNone     Operator = ""
	OpAdd      Operator = "+"
	OpSubtract Operator = "-"
	OpMultiply Operator = "×"
	OpDivide   Operator = "÷"
)

// Operators lists the supported operators in keypad order.
var Operators = []Operator{OpAdd, OpSubtract, OpMultiply, OpDivide}

// Valid reports whether op is one of the four supported operators.
func (op Operator) Valid() bool {
	switch op {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return true
	}
	return false
}

func (op Operator) String() string {
	return string(op)
}
