package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"gocalc/pkg/avatars"
	"gocalc/pkg/config"
)

func main() {
	if os.Getenv("DEBUG") != "" {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	fs := flag.NewFlagSet("avatars", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	repo := fs.String("repo", "", "owner/name for github, clone URL for git")
	source := fs.String("source", "", "contributor source: github or git")
	out := fs.String("out", "", "output directory")
	workers := fs.Int("workers", 0, "number of download goroutines")
	apiBase := fs.String("api", "", "GitHub API base URL")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	ac := &cfg.Avatars
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "repo":
			ac.Repository = *repo
		case "source":
			ac.Source = *source
		case "out":
			ac.OutputDir = *out
		case "workers":
			ac.Workers = *workers
		case "api":
			ac.APIBase = *apiBase
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	var src avatars.Source
	switch ac.Source {
	case "git":
		src = &avatars.GitSource{URL: ac.Repository, Size: ac.AvatarSize}
	default:
		gh := &avatars.GitHubSource{APIBase: ac.APIBase, Repository: ac.Repository}
		if ac.TokenEnv != "" {
			gh.Token = strings.TrimSpace(getenv(ac.TokenEnv))
		}
		src = gh
	}

	logger := slog.Default()
	logger.Debug("listing contributors", "source", ac.Source, "repository", ac.Repository)
	contributors, err := src.Contributors(ctx)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	d := &avatars.Downloader{
		OutputDir: ac.OutputDir,
		Workers:   ac.Workers,
		Bots:      ac.Bots,
		Logger:    logger,
	}
	stats, err := d.Run(ctx, contributors)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	fmt.Fprintf(stdout, "Downloaded %d new avatars to %s/\n", stats.Downloaded, strings.TrimRight(ac.OutputDir, "/"))
	fmt.Fprintf(stdout, "Total contributors: %d\n", stats.Total)
	if stats.Failed > 0 {
		fmt.Fprintf(stderr, "%d downloads failed\n", stats.Failed)
	}
	return 0
}
