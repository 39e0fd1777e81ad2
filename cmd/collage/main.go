package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gocalc/pkg/collage"
	"gocalc/pkg/config"
)

func main() {
	if os.Getenv("DEBUG") != "" {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("collage", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	in := fs.String("in", "", "directory of avatar images")
	out := fs.String("out", "", "output JPEG file")
	tile := fs.Int("tile", 0, "tile edge in pixels")
	aspect := fs.Float64("aspect", 0, "target width/height ratio of the grid")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	cc := &cfg.Collage
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in":
			cc.InputDir = *in
		case "out":
			cc.Output = *out
		case "tile":
			cc.TileSize = *tile
		case "aspect":
			cc.Aspect = *aspect
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	b := &collage.Builder{
		TileSize: cc.TileSize,
		Aspect:   cc.Aspect,
		Quality:  cc.Quality,
		Logger:   slog.Default(),
	}
	if _, err := b.Run(cc.InputDir, cc.Output); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "Collage created at %s\n", cc.Output)
	return 0
}
