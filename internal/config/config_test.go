package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "$ ", cfg.Prompt.Text)
	assert.Empty(t, cfg.Prompt.Color)
	assert.Equal(t, 512, cfg.Limits.MaxLine)
	assert.Equal(t, 256, cfg.Limits.MaxToken)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, "text", cfg.Logger.Format)
	assert.Equal(t, "stderr", cfg.Logger.Output)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gosh.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
prompt:
  text: "go> "
  color: "63"
limits:
  max_line: 1024
  max_token: 128
logger:
  level: debug
  format: json
  output: stdout
`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "go> ", cfg.Prompt.Text)
	assert.Equal(t, "63", cfg.Prompt.Color)
	assert.Equal(t, 1024, cfg.Limits.MaxLine)
	assert.Equal(t, 128, cfg.Limits.MaxToken)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, "stdout", cfg.Logger.Output)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gosh.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prompt:\n  color: \"#5f87ff\"\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "#5f87ff", cfg.Prompt.Color)
	assert.Equal(t, "$ ", cfg.Prompt.Text, "unset fields backfilled")
	assert.Equal(t, 512, cfg.Limits.MaxLine)
	assert.Equal(t, "warn", cfg.Logger.Level)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gosh.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prompt: [unclosed"), 0600))

	cfg, err := Load(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, ".gosh.yaml", filepath.Base(DefaultPath()))
}
