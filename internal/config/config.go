// Package config loads the shell's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level shell configuration.
type Config struct {
	Prompt PromptConfig `yaml:"prompt"`
	Limits LimitsConfig `yaml:"limits"`
	Logger LoggerConfig `yaml:"logger"`
}

// PromptConfig controls prompt text and styling.
type PromptConfig struct {
	Text  string `yaml:"text"`
	Color string `yaml:"color"` // lipgloss color, e.g. "63" or "#5f87ff"
}

// LimitsConfig bounds input line and token lengths. Exceeding either
// bound is a reported error, never a truncation.
type LimitsConfig struct {
	MaxLine  int `yaml:"max_line"`
	MaxToken int `yaml:"max_token"`
}

// LoggerConfig mirrors logger.New's knobs.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
	Output string `yaml:"output"` // "stdout", "stderr", or a file path
}

// Defaults returns the configuration used when no file is present.
// The logger defaults to "warn" so interactive sessions stay quiet.
func Defaults() *Config {
	return &Config{
		Prompt: PromptConfig{Text: "$ "},
		Limits: LimitsConfig{MaxLine: 512, MaxToken: 256},
		Logger: LoggerConfig{Level: "warn", Format: "text", Output: "stderr"},
	}
}

// Load reads path and overlays it on the defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// DefaultPath returns ~/.gosh.yaml, or the bare filename when the home
// directory cannot be resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gosh.yaml"
	}
	return filepath.Join(home, ".gosh.yaml")
}

func (c *Config) applyDefaults() {
	d := Defaults()
	if c.Prompt.Text == "" {
		c.Prompt.Text = d.Prompt.Text
	}
	if c.Limits.MaxLine <= 0 {
		c.Limits.MaxLine = d.Limits.MaxLine
	}
	if c.Limits.MaxToken <= 0 {
		c.Limits.MaxToken = d.Limits.MaxToken
	}
	if c.Logger.Level == "" {
		c.Logger.Level = d.Logger.Level
	}
	if c.Logger.Format == "" {
		c.Logger.Format = d.Logger.Format
	}
	if c.Logger.Output == "" {
		c.Logger.Output = d.Logger.Output
	}
}
