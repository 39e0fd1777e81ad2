package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocalc/pkg/vm"
)

func TestCompileAndRunImage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "expr.calc")
	require.NoError(t, os.WriteFile(src, []byte("8 / 2 + 0\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-in", src, "-run", "-show-bytecode"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "0000  push 8\n")
	assert.Contains(t, out, "compiled 5 instructions -> "+filepath.Join(dir, "expr.bin"))
	assert.Contains(t, out, "8 / 2 + 0 = 4")

	img, err := vm.LoadImage(filepath.Join(dir, "expr.bin"))
	require.NoError(t, err)
	assert.True(t, img.Optimized)
	assert.Equal(t, "8 / 2 + 0", img.Source)
}

func TestRunBin(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "sum.calc")
	out := filepath.Join(dir, "sum.img")
	require.NoError(t, os.WriteFile(src, []byte("1 + 2"), 0o644))

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"-in", src, "-out", out}, &stdout, &stderr), stderr.String())

	stdout.Reset()
	require.Equal(t, 0, run([]string{"-run-bin", out, "-show-bytecode"}, &stdout, &stderr), stderr.String())
	assert.Contains(t, stdout.String(), "0000  push 3\n")
	assert.Contains(t, stdout.String(), "1 + 2 = 3 (1 instructions, optimized=true)")
}

func TestRunFailures(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.calc")
	zero := filepath.Join(dir, "zero.calc")
	require.NoError(t, os.WriteFile(bad, []byte("(1 + 2"), 0o644))
	require.NoError(t, os.WriteFile(zero, []byte("1 / 0"), 0o644))

	tests := []struct {
		name    string
		args    []string
		code    int
		errText string
	}{
		{"NothingToDo", nil, 2, "nothing to do"},
		{"RunAndRunBin", []string{"-run", "-run-bin", "x"}, 2, "not both"},
		{"RunWithoutIn", []string{"-run"}, 2, "-run requires -in"},
		{"MissingInput", []string{"-in", filepath.Join(dir, "none.calc")}, 1, "failed to read input file"},
		{"SyntaxError", []string{"-in", bad}, 1, "compilation failed: parse error: expected a closing parenthesis"},
		{"DivisionByZero", []string{"-in", zero, "-run"}, 1, "division by zero"},
		{"MissingImage", []string{"-run-bin", filepath.Join(dir, "none.bin")}, 1, "run failed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, tc.code, run(tc.args, &stdout, &stderr))
			assert.Contains(t, stderr.String(), tc.errText)
		})
	}
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, "a/b.bin", defaultOutputPath("a/b.calc"))
	assert.Equal(t, "noext.bin", defaultOutputPath("noext"))
}
