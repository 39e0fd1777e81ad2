package compiler

import (
	"fmt"

	"gocalc/pkg/vm"
)

// Options controls code generation.
type Options struct {
	// Optimize enables folding of "+" applied to two literals.
	Optimize bool
}

// CodeGen lowers a tree to stack-machine instructions in post-order, so the
// left operand sits below the right one when the operator is applied.
type CodeGen struct {
	opts Options
	out  vm.Program
}

func NewCodeGen(opts Options) *CodeGen {
	return &CodeGen{opts: opts}
}

func (cg *CodeGen) emit(in vm.Instruction) {
	cg.out = append(cg.out, in)
}

func (cg *CodeGen) genExpr(e Expr) error {
	switch n := e.(type) {
	case *Number:
		cg.emit(vm.Push(n.Value))
		return nil

	case *Binary:
		if cg.opts.Optimize {
			if v, ok := foldAddition(n); ok {
				cg.emit(vm.Push(v))
				return nil
			}
		}
		if err := cg.genExpr(n.Left); err != nil {
			return err
		}
		if err := cg.genExpr(n.Right); err != nil {
			return err
		}
		cg.emit(vm.Apply(n.Op))
		return nil
	}
	return fmt.Errorf("codegen: unknown node %T", e)
}

// Generate compiles e with the given options.
func Generate(e Expr, opts Options) (vm.Program, error) {
	cg := NewCodeGen(opts)
	if err := cg.genExpr(e); err != nil {
		return nil, err
	}
	return cg.out, nil
}

// Compile lowers e without optimization. Executing the result on an empty
// machine leaves exactly one value on the stack. It panics only when e is nil.
func Compile(e Expr) vm.Program {
	p, err := Generate(e, Options{})
	if err != nil {
		panic(err)
	}
	return p
}

// CompileOptimized is Compile with literal addition folded at compile time.
func CompileOptimized(e Expr) vm.Program {
	p, err := Generate(e, Options{Optimize: true})
	if err != nil {
		panic(err)
	}
	return p
}
