// Package config loads the YAML settings shared by the calc, avatars and
// collage commands.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root of the configuration file.
type Config struct {
	REPL    REPLConfig    `yaml:"repl"`
	Avatars AvatarsConfig `yaml:"avatars"`
	Collage CollageConfig `yaml:"collage"`
}

// REPLConfig configures the expression pipeline and interactive loop.
type REPLConfig struct {
	Prompt       string `yaml:"prompt"`
	Mode         string `yaml:"mode"` // "vm" or "interpret"
	Optimize     bool   `yaml:"optimize"`
	Strict       bool   `yaml:"strict"`
	ShowBytecode bool   `yaml:"show_bytecode"`
	Trace        bool   `yaml:"trace"`
}

// AvatarsConfig configures the contributor avatar download.
type AvatarsConfig struct {
	Repository string   `yaml:"repository"` // "owner/name" for github, clone URL for git
	Source     string   `yaml:"source"`     // "github" or "git"
	OutputDir  string   `yaml:"output_dir"`
	Workers    int      `yaml:"workers"`
	Bots       []string `yaml:"bots"`
	APIBase    string   `yaml:"api_base"`
	TokenEnv   string   `yaml:"token_env"` // environment variable holding an API token
	AvatarSize int      `yaml:"avatar_size"`
}

// CollageConfig configures the collage builder.
type CollageConfig struct {
	InputDir string  `yaml:"input_dir"`
	Output   string  `yaml:"output"`
	TileSize int     `yaml:"tile_size"`
	Aspect   float64 `yaml:"aspect"` // target width/height of the grid
	Quality  int     `yaml:"quality"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		REPL: REPLConfig{
			Prompt:   "> ",
			Mode:     "vm",
			Optimize: true,
		},
		Avatars: AvatarsConfig{
			Repository: "ruby/ruby",
			Source:     "github",
			OutputDir:  "avatars",
			Workers:    1,
			Bots:       []string{"[bot]", "matzbot", "step-security-bot"},
			APIBase:    "https://api.github.com",
			TokenEnv:   "GITHUB_TOKEN",
			AvatarSize: 100,
		},
		Collage: CollageConfig{
			InputDir: "avatars",
			Output:   "collage.jpg",
			TileSize: 100,
			Aspect:   1,
			Quality:  90,
		},
	}
}

// Load reads path over the defaults; keys missing from the file keep their
// default values and unknown keys are rejected.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", abs, err)
	}
	defer file.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", abs, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except an empty path yields Default().
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Write serialises cfg to path.
func Write(cfg *Config, path string) error {
	if cfg == nil {
		return fmt.Errorf("config: nil config")
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("config: marshal %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("config: encoder close: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.REPL.Mode {
	case "vm", "interpret":
	default:
		return fmt.Errorf("repl.mode: unknown mode %q", c.REPL.Mode)
	}

	switch c.Avatars.Source {
	case "github", "git":
	default:
		return fmt.Errorf("avatars.source: unknown source %q", c.Avatars.Source)
	}
	if strings.TrimSpace(c.Avatars.Repository) == "" {
		return fmt.Errorf("avatars.repository: must not be empty")
	}
	if c.Avatars.Workers < 1 {
		return fmt.Errorf("avatars.workers: must be at least 1, got %d", c.Avatars.Workers)
	}
	if c.Avatars.AvatarSize < 1 {
		return fmt.Errorf("avatars.avatar_size: must be positive, got %d", c.Avatars.AvatarSize)
	}

	if c.Collage.TileSize < 1 {
		return fmt.Errorf("collage.tile_size: must be positive, got %d", c.Collage.TileSize)
	}
	if c.Collage.Aspect <= 0 {
		return fmt.Errorf("collage.aspect: must be positive, got %g", c.Collage.Aspect)
	}
	if c.Collage.Quality < 1 || c.Collage.Quality > 100 {
		return fmt.Errorf("collage.quality: must be within 1..100, got %d", c.Collage.Quality)
	}
	return nil
}
