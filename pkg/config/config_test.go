package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gocalc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "> ", cfg.REPL.Prompt)
	assert.Equal(t, "vm", cfg.REPL.Mode)
	assert.True(t, cfg.REPL.Optimize)
	assert.Equal(t, "ruby/ruby", cfg.Avatars.Repository)
	assert.Equal(t, "avatars", cfg.Avatars.OutputDir)
	assert.Equal(t, 1, cfg.Avatars.Workers)
	assert.Equal(t, []string{"[bot]", "matzbot", "step-security-bot"}, cfg.Avatars.Bots)
	assert.Equal(t, "collage.jpg", cfg.Collage.Output)
	assert.Equal(t, 100, cfg.Collage.TileSize)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeFile(t, `
repl:
  mode: interpret
  strict: true
avatars:
  repository: thoughtbot/gold_miner
  workers: 4
  bots: ["dependabot[bot]"]
collage:
  tile_size: 64
  aspect: 1.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "interpret", cfg.REPL.Mode)
	assert.True(t, cfg.REPL.Strict)
	// Untouched keys keep their defaults.
	assert.Equal(t, "> ", cfg.REPL.Prompt)
	assert.True(t, cfg.REPL.Optimize)

	assert.Equal(t, "thoughtbot/gold_miner", cfg.Avatars.Repository)
	assert.Equal(t, 4, cfg.Avatars.Workers)
	assert.Equal(t, []string{"dependabot[bot]"}, cfg.Avatars.Bots)
	assert.Equal(t, "github", cfg.Avatars.Source)

	assert.Equal(t, 64, cfg.Collage.TileSize)
	assert.InDelta(t, 1.5, cfg.Collage.Aspect, 1e-9)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"UnknownKey", "repl:\n  colour: red\n", "field colour not found"},
		{"BadMode", "repl:\n  mode: jit\n", `repl.mode: unknown mode "jit"`},
		{"BadSource", "avatars:\n  source: svn\n", `avatars.source: unknown source "svn"`},
		{"ZeroWorkers", "avatars:\n  workers: 0\n", "avatars.workers"},
		{"NegativeTile", "collage:\n  tile_size: -1\n", "collage.tile_size"},
		{"ZeroAspect", "collage:\n  aspect: 0\n", "collage.aspect"},
		{"Quality", "collage:\n  quality: 101\n", "collage.quality"},
		{"Malformed", "repl: [\n", "config: parse"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tc.content))
			assert.ErrorContains(t, err, tc.errText)
		})
	}

	_, err := Load("")
	assert.ErrorContains(t, err, "empty path")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorContains(t, err, "config: open ")
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestWriteRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.REPL.ShowBytecode = true
	cfg.Avatars.Source = "git"
	cfg.Avatars.Repository = "https://example.com/repo.git"

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, Write(cfg, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	assert.Error(t, Write(nil, path))
}
