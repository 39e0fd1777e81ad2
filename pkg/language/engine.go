// Package language composes the tokenizer, parser, interpreter, compiler and
// virtual machine into a single pipeline, and provides the interactive loop.
package language

import (
	"errors"
	"fmt"
	"log/slog"

	"gocalc/pkg/arith"
	"gocalc/pkg/compiler"
	"gocalc/pkg/interp"
	"gocalc/pkg/vm"
)

// Mode selects the execution strategy.
type Mode int

const (
	// ModeVM compiles to bytecode and runs it on the stack machine.
	ModeVM Mode = iota
	// ModeInterpret walks the tree directly.
	ModeInterpret
)

func (m Mode) String() string {
	switch m {
	case ModeVM:
		return "vm"
	case ModeInterpret:
		return "interpret"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps "vm" or "interpret" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "vm", "":
		return ModeVM, nil
	case "interpret":
		return ModeInterpret, nil
	}
	return 0, fmt.Errorf("unknown mode %q (want vm or interpret)", s)
}

// Engine is a configured pipeline. The zero value compiles without
// optimization and runs on the VM. An Engine holds no state between runs and
// may be shared by goroutines.
type Engine struct {
	Mode     Mode
	Optimize bool

	// Strict rejects unrecognized characters and leftover tokens instead of
	// ignoring them.
	Strict bool

	// Trace logs each VM step at debug level.
	Trace  bool
	Logger *slog.Logger
}

// Result carries the value together with the intermediate forms that
// produced it. Program is nil in ModeInterpret.
type Result struct {
	Value   int64
	Tokens  []string
	AST     compiler.Expr
	Program vm.Program
}

// Tokenize applies the engine's lexical mode.
func (e Engine) Tokenize(source string) ([]string, error) {
	if e.Strict {
		return compiler.Lex(source)
	}
	return compiler.Tokenize(source), nil
}

// Parse tokenizes and parses source.
func (e Engine) Parse(source string) (compiler.Expr, error) {
	tokens, err := e.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return e.parseTokens(tokens)
}

func (e Engine) parseTokens(tokens []string) (compiler.Expr, error) {
	if e.Strict {
		return compiler.ParseStrict(tokens)
	}
	return compiler.Parse(tokens)
}

// Compile tokenizes, parses and compiles source with the engine's options.
func (e Engine) Compile(source string) (vm.Program, error) {
	expr, err := e.Parse(source)
	if err != nil {
		return nil, err
	}
	return compiler.Generate(expr, compiler.Options{Optimize: e.Optimize})
}

// Run pushes source through every stage and returns the first failure.
func (e Engine) Run(source string) (Result, error) {
	var res Result

	tokens, err := e.Tokenize(source)
	if err != nil {
		return res, err
	}
	res.Tokens = tokens

	expr, err := e.parseTokens(tokens)
	if err != nil {
		return res, err
	}
	res.AST = expr

	switch e.Mode {
	case ModeInterpret:
		res.Value, err = interp.Eval(expr)
		return res, err
	case ModeVM:
		res.Program, err = compiler.Generate(expr, compiler.Options{Optimize: e.Optimize})
		if err != nil {
			return res, err
		}
		m := vm.NewMachine()
		m.Trace = e.Trace
		m.Logger = e.Logger
		res.Value, err = m.Run(res.Program)
		return res, err
	}
	return res, fmt.Errorf("language: unknown mode %s", e.Mode)
}

// Eval is Run returning only the value.
func (e Engine) Eval(source string) (int64, error) {
	res, err := e.Run(source)
	return res.Value, err
}

// Default is the final pipeline: optimized bytecode on the VM.
var Default = Engine{Mode: ModeVM, Optimize: true}

// Run evaluates source with the Default engine.
func Run(source string) (int64, error) {
	return Default.Eval(source)
}

// Interpret evaluates source by walking the tree.
func Interpret(source string) (int64, error) {
	return Engine{Mode: ModeInterpret}.Eval(source)
}

// Execute evaluates source by compiling it without optimization and running
// the bytecode.
func Execute(source string) (int64, error) {
	return Engine{Mode: ModeVM}.Eval(source)
}

// Kind names the failure category of err: "LexicalError", "SyntaxError",
// "RuntimeError", or "InternalError" for anything else.
func Kind(err error) string {
	switch {
	case errors.Is(err, compiler.ErrUnrecognizedCharacter):
		return "LexicalError"
	case errors.Is(err, compiler.ErrUnexpectedEndOfInput),
		errors.Is(err, compiler.ErrUnexpectedToken),
		errors.Is(err, compiler.ErrUnmatchedParenthesis),
		errors.Is(err, compiler.ErrNumberOutOfRange):
		return "SyntaxError"
	case errors.Is(err, arith.ErrDivisionByZero):
		return "RuntimeError"
	}
	return "InternalError"
}
