package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gocalc/pkg/compiler"
)

const sampleSource = "1 - 2 * 3 / 4 + (1 + 2)"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run prints every stage of the pipeline for the expression in the named
// file, or for a built-in sample when no file is given.
func run(args []string, stdout, stderr io.Writer) int {
	src := sampleSource
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintln(stderr, "read error:", err)
			return 1
		}
		src = strings.TrimSpace(string(data))
	}

	fmt.Fprintf(stdout, "Source:\n%s\n\n", src)

	tokens, err := compiler.Lex(src)
	if err != nil {
		fmt.Fprintln(stderr, "lex error:", err)
		return 1
	}
	fmt.Fprintf(stdout, "Tokens (%d)\n", len(tokens))
	for _, tok := range tokens {
		fmt.Fprintf(stdout, "  %-6s %s\n", compiler.Classify(tok), tok)
	}
	fmt.Fprintln(stdout)

	expr, err := compiler.ParseStrict(tokens)
	if err != nil {
		fmt.Fprintln(stderr, "parse error:", err)
		return 1
	}
	fmt.Fprintf(stdout, "AST (depth %d)\n  %s\n\n", compiler.Depth(expr), expr)

	for _, opt := range []bool{false, true} {
		program, err := compiler.Generate(expr, compiler.Options{Optimize: opt})
		if err != nil {
			fmt.Fprintln(stderr, "codegen error:", err)
			return 1
		}
		fmt.Fprintf(stdout, "Bytecode (optimize=%t, %d instructions)\n", opt, len(program))
		fmt.Fprint(stdout, program.Disassemble())
		fmt.Fprintln(stdout)
	}
	return 0
}
