package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"gocalc/pkg/config"
	"gocalc/pkg/language"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) int {
	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	mode := fs.String("mode", "", "execution strategy: vm or interpret")
	optimize := fs.Bool("optimize", false, "fold additions of two literals")
	strict := fs.Bool("strict", false, "reject unknown characters and trailing tokens")
	showBytecode := fs.Bool("show-bytecode", false, "print the compiled program after each result")
	trace := fs.Bool("trace", false, "log every VM step at debug level")
	expr := fs.String("e", "", "evaluate one expression and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.REPL.Mode = *mode
		case "optimize":
			cfg.REPL.Optimize = *optimize
		case "strict":
			cfg.REPL.Strict = *strict
		case "show-bytecode":
			cfg.REPL.ShowBytecode = *showBytecode
		case "trace":
			cfg.REPL.Trace = *trace
		}
	})
	if getenv("DEBUG") != "" {
		cfg.REPL.Trace = true
	}

	level := slog.LevelInfo
	if cfg.REPL.Trace {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	m, err := language.ParseMode(cfg.REPL.Mode)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	engine := language.Engine{
		Mode:     m,
		Optimize: cfg.REPL.Optimize,
		Strict:   cfg.REPL.Strict,
		Trace:    cfg.REPL.Trace,
		Logger:   logger,
	}

	if *expr != "" {
		res, err := engine.Run(*expr)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", language.Kind(err), err)
			return 1
		}
		if cfg.REPL.ShowBytecode && res.Program != nil {
			fmt.Fprint(stdout, res.Program.Disassemble())
		}
		fmt.Fprintln(stdout, res.Value)
		return 0
	}

	repl := &language.REPL{
		In:           stdin,
		Out:          stdout,
		Prompt:       cfg.REPL.Prompt,
		Engine:       engine,
		ShowBytecode: cfg.REPL.ShowBytecode,
		Logger:       logger,
	}
	if err := repl.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
