package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config describes one benchmark scenario.
type Config struct {
	Debug       bool       `yaml:"debug"`
	Dim         int        `yaml:"dim"`
	QueryTokens int        `yaml:"query_tokens"`
	Normalized  bool       `yaml:"normalized"`
	Aggregate   string     `yaml:"aggregate"`
	Seed        int64      `yaml:"seed"`
	Iterations  int        `yaml:"iterations"`
	Docs        DocsConfig `yaml:"docs"`

	// SavePath optionally persists the generated corpus to a SQLite file
	// and runs a top-k search against it after the scoring loop.
	SavePath string `yaml:"save_path"`
}

// DocsConfig describes the synthetic corpus.
type DocsConfig struct {
	Count     int `yaml:"count"`
	MinTokens int `yaml:"min_tokens"`
	MaxTokens int `yaml:"max_tokens"`
}

// loadConfig reads and parses the scenario file at path and applies
// defaults for unset fields.
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Dim == 0 {
		c.Dim = 128
	}
	if c.QueryTokens == 0 {
		c.QueryTokens = 32
	}
	if c.Aggregate == "" {
		c.Aggregate = "sum"
	}
	if c.Iterations == 0 {
		c.Iterations = 10
	}
	if c.Seed == 0 {
		c.Seed = 1
	}
	if c.Docs.Count == 0 {
		c.Docs.Count = 1000
	}
	if c.Docs.MinTokens == 0 {
		c.Docs.MinTokens = 80
	}
	if c.Docs.MaxTokens == 0 {
		c.Docs.MaxTokens = 120
	}
}

func (c *Config) validate() error {
	if c.Aggregate != "sum" && c.Aggregate != "mean" {
		return fmt.Errorf("aggregate must be sum or mean, got %q", c.Aggregate)
	}
	if c.Docs.MinTokens > c.Docs.MaxTokens {
		return fmt.Errorf("docs.min_tokens %d exceeds docs.max_tokens %d", c.Docs.MinTokens, c.Docs.MaxTokens)
	}
	return nil
}
