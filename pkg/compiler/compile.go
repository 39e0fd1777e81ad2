package compiler

import (
	"fmt"

	"gocalc/pkg/vm"
)

// CompileSource runs the whole front end over src and returns the tree along
// with its bytecode. Errors are prefixed with the stage that produced them.
func CompileSource(src string, opts Options) (Expr, vm.Program, error) {
	tokens := Tokenize(src)

	expr, err := Parse(tokens)
	if err != nil {
		return nil, nil, fmt.Errorf("parse error: %w", err)
	}

	program, err := Generate(expr, opts)
	if err != nil {
		return expr, nil, fmt.Errorf("codegen error: %w", err)
	}
	return expr, program, nil
}
