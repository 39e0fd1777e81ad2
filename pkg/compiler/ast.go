package compiler

import (
	"fmt"
	"strconv"

	"gocalc/pkg/arith"
)

// Expr is implemented by the two node types of the tree, *Number and
// *Binary. Nodes are built by the parser and never modified afterwards.
type Expr interface {
	exprNode()
	String() string
}

// Number is an integer literal.
//
//	1 + 23
//	    ^^  Number{Value: 23}
type Number struct {
	Value int64
}

func (*Number) exprNode()        {}
func (n *Number) String() string { return strconv.FormatInt(n.Value, 10) }

// Binary represents Left Op Right. String renders it as an S-expression.
//
//	1 - 2 + 3  →  (+ (- 1 2) 3)
type Binary struct {
	Op    arith.Operator
	Left  Expr
	Right Expr
}

func (*Binary) exprNode() {}
func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Op, b.Left, b.Right)
}

// Depth returns the height of the tree rooted at e; a lone Number has depth 1.
func Depth(e Expr) int {
	switch n := e.(type) {
	case *Number:
		return 1
	case *Binary:
		return 1 + max(Depth(n.Left), Depth(n.Right))
	}
	return 0
}
