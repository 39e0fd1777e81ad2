package language

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// DefaultPrompt is printed before every line read by the REPL.
const DefaultPrompt = "> "

// REPL reads one expression per line from In and writes results to Out.
// A failing line prints "<Kind>: <message>" and the loop continues.
//
// Lines starting with ':' are commands:
//
//	:tokens <expr>    print the token list
//	:ast <expr>       print the parsed tree as an S-expression
//	:bytecode <expr>  print the compiled program
//	:quit             leave the loop
type REPL struct {
	In     io.Reader
	Out    io.Writer
	Prompt string
	Engine Engine

	// ShowBytecode prints the disassembly before each VM result.
	ShowBytecode bool

	Logger *slog.Logger
}

func (r *REPL) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Run loops until end of input, :quit, or ctx is cancelled. End of input is a
// normal exit and returns nil.
func (r *REPL) Run(ctx context.Context) error {
	prompt := r.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}

	reader := bufio.NewReader(r.In)
	lines := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(r.Out, prompt)
		// Lines have no length limit; a final line without a newline still counts.
		raw, err := reader.ReadString('\n')
		if raw == "" && err != nil {
			if !errors.Is(err, io.EOF) {
				return fmt.Errorf("repl: read input: %w", err)
			}
			fmt.Fprintln(r.Out)
			r.logger().Debug("repl: end of input", "lines", lines)
			return nil
		}
		lines++

		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			if quit := r.command(line); quit {
				return nil
			}
			continue
		}
		r.evalLine(line)
	}
}

func (r *REPL) evalLine(line string) {
	res, err := r.Engine.Run(line)
	if err != nil {
		r.printError(err)
		return
	}
	if r.ShowBytecode && res.Program != nil {
		fmt.Fprint(r.Out, res.Program.Disassemble())
	}
	fmt.Fprintln(r.Out, res.Value)
}

func (r *REPL) printError(err error) {
	r.logger().Debug("repl: line failed", "kind", Kind(err), "error", err)
	fmt.Fprintf(r.Out, "%s: %v\n", Kind(err), err)
}

// command runs a ':' line and reports whether the loop should stop.
func (r *REPL) command(line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":quit", ":q":
		return true
	case ":tokens":
		tokens, err := r.Engine.Tokenize(arg)
		if err != nil {
			r.printError(err)
			return false
		}
		fmt.Fprintf(r.Out, "%q\n", tokens)
	case ":ast":
		expr, err := r.Engine.Parse(arg)
		if err != nil {
			r.printError(err)
			return false
		}
		fmt.Fprintln(r.Out, expr)
	case ":bytecode":
		program, err := r.Engine.Compile(arg)
		if err != nil {
			r.printError(err)
			return false
		}
		fmt.Fprint(r.Out, program.Disassemble())
	default:
		fmt.Fprintf(r.Out, "unknown command %s (try :tokens, :ast, :bytecode, :quit)\n", name)
	}
	return false
}
