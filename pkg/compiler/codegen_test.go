package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocalc/pkg/arith"
	"gocalc/pkg/vm"
)

func mustParse(t *testing.T, src string) Expr {
	t.Helper()
	expr, err := Parse(Tokenize(src))
	require.NoError(t, err, "parse %q", src)
	return expr
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected vm.Program
	}{
		{"Number", "1", vm.Program{vm.Push(1)}},
		{
			"Addition",
			"1 + 2",
			vm.Program{vm.Push(1), vm.Push(2), vm.Apply(arith.Add)},
		},
		{
			"PostOrder",
			"1 - 2 * 3",
			vm.Program{vm.Push(1), vm.Push(2), vm.Push(3), vm.Apply(arith.Mul), vm.Apply(arith.Sub)},
		},
		{
			"LeftDeep",
			"1 - 2 + 3",
			vm.Program{vm.Push(1), vm.Push(2), vm.Apply(arith.Sub), vm.Push(3), vm.Apply(arith.Add)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Compile(mustParse(t, tc.input)))
		})
	}
}

// TestCompile_SingleResult checks that every compiled program leaves exactly
// one value on the stack.
func TestCompile_SingleResult(t *testing.T) {
	inputs := []string{"1", "1 + 2", "(1 + 2) * (3 - 4) / 5", "1 - 2 - 3 - 4", "((((9))))"}

	for _, src := range inputs {
		for _, opts := range []Options{{}, {Optimize: true}} {
			program, err := Generate(mustParse(t, src), opts)
			require.NoError(t, err)

			m := vm.NewMachine()
			for _, in := range program {
				require.NoError(t, m.Step(in))
			}
			assert.Len(t, m.Stack, 1, "%q optimize=%v", src, opts.Optimize)
		}
	}
}

func TestCompileOptimized(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected vm.Program
	}{
		{"FoldsLiteralAddition", "1 + 2", vm.Program{vm.Push(3)}},
		{"Number", "1", vm.Program{vm.Push(1)}},
		{
			"SubtractionNotFolded",
			"1 - 2",
			vm.Program{vm.Push(1), vm.Push(2), vm.Apply(arith.Sub)},
		},
		{
			"MultiplicationNotFolded",
			"2 * 3",
			vm.Program{vm.Push(2), vm.Push(3), vm.Apply(arith.Mul)},
		},
		{
			"DivisionNotFolded",
			"1 / 0",
			vm.Program{vm.Push(1), vm.Push(0), vm.Apply(arith.Div)},
		},
		{
			// The inner sum folds; the outer "+" sees a Binary child, not a Number.
			"OneLevelOnly",
			"1 + 2 + 3",
			vm.Program{vm.Push(3), vm.Push(3), vm.Apply(arith.Add)},
		},
		{
			"FoldInsideProduct",
			"(1 + 2) * 4",
			vm.Program{vm.Push(3), vm.Push(4), vm.Apply(arith.Mul)},
		},
		{
			"BothSidesFold",
			"(1 + 2) - (3 + 4)",
			vm.Program{vm.Push(3), vm.Push(7), vm.Apply(arith.Sub)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CompileOptimized(mustParse(t, tc.input)))
		})
	}
}

func TestCompileOptimized_NoApplyForLiteralSum(t *testing.T) {
	program := CompileOptimized(mustParse(t, "1 + 2"))
	require.Len(t, program, 1)
	assert.Equal(t, vm.OpPushConstant, program[0].Op)
	assert.Equal(t, int64(3), program[0].Value)
}

func TestGenerate_UnknownNode(t *testing.T) {
	_, err := Generate(nil, Options{})
	assert.ErrorContains(t, err, "codegen: unknown node")
	assert.Panics(t, func() { Compile(nil) })
}

func TestCompileSource(t *testing.T) {
	expr, program, err := CompileSource("8 / 2 + 0", Options{Optimize: true})
	require.NoError(t, err)
	assert.Equal(t, "(+ (/ 8 2) 0)", expr.String())

	got, err := vm.Execute(program)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got)

	_, _, err = CompileSource("(1 + 2", Options{})
	assert.ErrorIs(t, err, ErrUnmatchedParenthesis)
	assert.ErrorContains(t, err, "parse error:")
}
