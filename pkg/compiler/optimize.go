package compiler

import "gocalc/pkg/arith"

// foldAddition returns the sum when b is "+" applied directly to two Number
// leaves. Only this one shape is folded: subtraction, multiplication and
// division are always emitted, and a sum whose operands are themselves
// foldable subtrees (e.g. (1 + 2) + 3) is not collapsed past one level.
func foldAddition(b *Binary) (int64, bool) {
	if b.Op != arith.Add {
		return 0, false
	}
	left, ok := b.Left.(*Number)
	if !ok {
		return 0, false
	}
	right, ok := b.Right.(*Number)
	if !ok {
		return 0, false
	}
	return left.Value + right.Value, true
}
