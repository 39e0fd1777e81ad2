package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gocalc/pkg/compiler"
	"gocalc/pkg/utils"
	"gocalc/pkg/vm"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("gocalc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inPath := fs.String("in", "", "input expression file path")
	outPath := fs.String("out", "", "output program image path (default: input with .bin extension)")
	runProgram := fs.Bool("run", false, "run the compiled program image on the virtual machine")
	runBinPath := fs.String("run-bin", "", "run an existing program image on the virtual machine")
	optimize := fs.Bool("optimize", true, "fold additions of two literals at compile time")
	showBytecode := fs.Bool("show-bytecode", false, "print the disassembled program")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *runProgram && *runBinPath != "" {
		fmt.Fprintln(stderr, "use either -run or -run-bin, not both")
		return 2
	}

	compiledOutput := ""
	if *inPath != "" {
		fullPath, _, err := utils.ResolvePath(*inPath)
		if err != nil {
			fmt.Fprintf(stderr, "failed to resolve input path %q: %v\n", *inPath, err)
			return 1
		}
		source, err := os.ReadFile(fullPath)
		if err != nil {
			fmt.Fprintf(stderr, "failed to read input file %q: %v\n", *inPath, err)
			return 1
		}

		_, program, err := compiler.CompileSource(string(source), compiler.Options{Optimize: *optimize})
		if err != nil {
			fmt.Fprintf(stderr, "compilation failed: %v\n", err)
			return 1
		}
		if *showBytecode {
			fmt.Fprint(stdout, program.Disassemble())
		}

		output := *outPath
		if output == "" {
			output = defaultOutputPath(fullPath)
		}

		img := vm.Image{
			Source:    strings.TrimSpace(string(source)),
			Optimized: *optimize,
			Program:   program,
		}
		if err := vm.SaveImage(output, img); err != nil {
			fmt.Fprintf(stderr, "failed to write program image %q: %v\n", output, err)
			return 1
		}

		fmt.Fprintf(stdout, "compiled %d instructions -> %s\n", len(program), output)
		compiledOutput = output
	}

	if *inPath == "" && *runBinPath == "" && !*runProgram {
		fmt.Fprintln(stderr, "nothing to do: provide -in to compile, -run to run the compiled output, or -run-bin <file> to run an existing image")
		fs.Usage()
		return 2
	}

	runTarget := ""
	switch {
	case *runBinPath != "":
		runTarget = *runBinPath
	case *runProgram:
		if compiledOutput == "" {
			fmt.Fprintln(stderr, "-run requires -in, or use -run-bin <file>")
			return 2
		}
		runTarget = compiledOutput
	default:
		return 0
	}

	if err := runImage(runTarget, *showBytecode && *runBinPath != "", stdout); err != nil {
		fmt.Fprintf(stderr, "run failed for %q: %v\n", runTarget, err)
		return 1
	}
	return 0
}

func defaultOutputPath(inPath string) string {
	return utils.ReplaceExt(inPath, ".bin")
}

func runImage(path string, showBytecode bool, stdout io.Writer) error {
	img, err := vm.LoadImage(path)
	if err != nil {
		return err
	}
	if showBytecode {
		fmt.Fprint(stdout, img.Program.Disassemble())
	}

	result, err := vm.Execute(img.Program)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "run complete (%s): %s = %d (%d instructions, optimized=%t)\n",
		path, img.Source, result, len(img.Program), img.Optimized)
	return nil
}
