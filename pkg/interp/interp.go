// Package interp evaluates expression trees directly, without compiling them.
package interp

import (
	"fmt"

	"gocalc/pkg/arith"
	"gocalc/pkg/compiler"
)

// Eval returns the value of e. The left operand of a Binary is evaluated
// before the right one; the only runtime failure is arith.ErrDivisionByZero.
func Eval(e compiler.Expr) (int64, error) {
	switch n := e.(type) {
	case *compiler.Number:
		return n.Value, nil
	case *compiler.Binary:
		left, err := Eval(n.Left)
		if err != nil {
			return 0, err
		}
		right, err := Eval(n.Right)
		if err != nil {
			return 0, err
		}
		return arith.Apply(n.Op, left, right)
	}
	return 0, fmt.Errorf("interp: unknown node %T", e)
}
