// Package arith defines the four integer operators of the expression
// language and the single place where they are applied.
package arith

import (
	"errors"
	"fmt"
)

// ErrDivisionByZero is returned when the right operand of "/" is zero.
var ErrDivisionByZero = errors.New("division by zero")

// Operator identifies one of the binary arithmetic operators.
type Operator uint8

const (
	Add Operator = iota + 1 // +
	Sub                     // -
	Mul                     // *
	Div                     // /
)

// symbols is indexed by Operator; index 0 is the invalid zero value.
var symbols = [...]string{
	Add: "+",
	Sub: "-",
	Mul: "*",
	Div: "/",
}

func (op Operator) String() string {
	if op.Valid() {
		return symbols[op]
	}
	return fmt.Sprintf("Operator(%d)", uint8(op))
}

// Valid reports whether op is one of Add, Sub, Mul or Div.
func (op Operator) Valid() bool {
	return op >= Add && op <= Div
}

// ParseOperator maps an operator symbol to its Operator.
func ParseOperator(symbol string) (Operator, bool) {
	switch symbol {
	case "+":
		return Add, true
	case "-":
		return Sub, true
	case "*":
		return Mul, true
	case "/":
		return Div, true
	}
	return 0, false
}

// Apply computes left op right. Division truncates toward zero; overflow
// wraps with two's complement semantics.
func Apply(op Operator, left, right int64) (int64, error) {
	switch op {
	case Add:
		return left + right, nil
	case Sub:
		return left - right, nil
	case Mul:
		return left * right, nil
	case Div:
		if right == 0 {
			return 0, ErrDivisionByZero
		}
		return left / right, nil
	}
	return 0, fmt.Errorf("arith: unknown operator %s", op)
}
