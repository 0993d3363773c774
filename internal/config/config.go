// Package config loads parsekit settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hack-pad/hackpadfs"
	"gopkg.in/yaml.v3"

	"github.com/kittclouds/parsekit/pkg/match"
	"github.com/kittclouds/parsekit/pkg/sentence"
)

// Config holds all parsekit configuration.
type Config struct {
	Parser    ParserConfig    `yaml:"parser"`
	Matcher   MatcherConfig   `yaml:"matcher"`
	Templates TemplatesConfig `yaml:"templates"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ParserConfig configures the sentence engine.
type ParserConfig struct {
	IterationBudget int `yaml:"iteration_budget"` // cascade steps per top-level attempt
	MaxRounds       int `yaml:"max_rounds"`       // 0 = scale with input size
}

// MatcherConfig configures template matching.
type MatcherConfig struct {
	StepBudget int  `yaml:"step_budget"` // codelets per session, 0 = unlimited
	Workers    int  `yaml:"workers"`     // concurrent sessions
	Spelling   bool `yaml:"spelling"`    // accept known misspellings of literals
	Reparse    bool `yaml:"reparse"`     // run productions back through the parser
}

// TemplatesConfig locates template libraries and their derived stores.
type TemplatesConfig struct {
	Paths     []string `yaml:"paths"`     // YAML libraries
	DB        string   `yaml:"db"`        // SQLite store
	Index     string   `yaml:"index"`     // persisted similarity index
	Dimension int      `yaml:"dimension"` // similarity embedding width
	Prefilter bool     `yaml:"prefilter"` // skip sources missing a required literal
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level       string `yaml:"level"`       // debug, info, warn, error
	Development bool   `yaml:"development"` // console encoder, stack traces on warn
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Parser: ParserConfig{
			IterationBudget: sentence.DefaultIterationBudget,
		},
		Matcher: MatcherConfig{
			StepBudget: match.DefaultStepBudget,
			Workers:    match.DefaultWorkers,
			Reparse:    true,
		},
		Templates: TemplatesConfig{
			DB:        "parsekit.db",
			Dimension: 64,
			Prefilter: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from path on fs, on top of the defaults. A missing
// file yields the defaults.
func Load(fs hackpadfs.FS, path string) (*Config, error) {
	cfg := Default()

	data, err := hackpadfs.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, hackpadfs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(fs hackpadfs.FS, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := hackpadfs.MkdirAll(fs, dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := hackpadfs.WriteFullFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("PARSEKIT_DB"); path != "" {
		c.Templates.DB = path
	}
	if level := os.Getenv("PARSEKIT_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// ValidLevels lists the accepted logging levels.
var ValidLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Parser.IterationBudget < 1 {
		return fmt.Errorf("parser.iteration_budget must be positive, got %d", c.Parser.IterationBudget)
	}
	if c.Parser.MaxRounds < 0 {
		return fmt.Errorf("parser.max_rounds must not be negative, got %d", c.Parser.MaxRounds)
	}
	if c.Matcher.StepBudget < 0 {
		return fmt.Errorf("matcher.step_budget must not be negative, got %d", c.Matcher.StepBudget)
	}
	if c.Matcher.Workers < 1 {
		return fmt.Errorf("matcher.workers must be at least 1, got %d", c.Matcher.Workers)
	}
	if c.Templates.Dimension < 2 {
		return fmt.Errorf("templates.dimension must be at least 2, got %d", c.Templates.Dimension)
	}

	validLevel := false
	for _, l := range ValidLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid logging level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}
	return nil
}
