// Package config loads and saves the carbonscope configuration file.
//
// Configuration is resolved in layers: built-in defaults, the global file at
// ~/.carbonscope/config.yaml (or $CARBONSCOPE_HOME/config.yaml), an optional
// project-local .carbonscope/config.yaml merged by top-level section, and
// finally CARBONSCOPE_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// Supported output formats.
var outputFormats = []string{"table", "json", "ndjson", "text", "pdf"}

// Config validation limits.
const (
	MaxPrecision   = 8
	MaxConcurrency = 256
	MaxBatchSize   = 10_000
)

// Config validation errors.
var (
	ErrInvalidOutputFormat = errors.New("output format must be one of table, json, ndjson, text, pdf")
	ErrPrecisionOutOfRange = errors.New("output precision must be between 0 and 8")
	ErrInvalidLogFormat    = errors.New("log format must be 'console' or 'json'")
	ErrInvalidConstraint   = errors.New("invalid factor set constraint")
	ErrInvalidListen       = errors.New("server listen address is required")
	ErrInvalidRateLimit    = errors.New("rate limit must be >= 0")
	ErrInvalidBodyLimit    = errors.New("max body bytes must be > 0")
	ErrInvalidTimeout      = errors.New("invalid duration")
	ErrBatchOutOfRange     = errors.New("batch size and concurrency must be positive")
)

// OutputConfig controls report rendering defaults.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"`
	// Precision is the number of decimals shown for tCO2e values.
	Precision int `yaml:"precision" json:"precision"`
	// Equivalents adds miles-driven style equivalencies to reports.
	Equivalents bool `yaml:"equivalents" json:"equivalents"`
}

// LoggingConfig controls the application logger.
type LoggingConfig struct {
	Level  string `yaml:"level"  json:"level"`
	Format string `yaml:"format" json:"format"`
	// File is the log file path; empty logs to stderr.
	File string `yaml:"file" json:"file"`
}

// CalculatorConfig holds calculation defaults.
type CalculatorConfig struct {
	// DefaultRegion is used when --region is not given.
	DefaultRegion string `yaml:"default_region" json:"default_region"`
	// FactorSetConstraint is a semver constraint the compiled factor set must satisfy.
	FactorSetConstraint string `yaml:"factor_set_constraint" json:"factor_set_constraint"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Listen             string `yaml:"listen"                json:"listen"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute" json:"rate_limit_per_minute"`
	MaxBodyBytes       int64  `yaml:"max_body_bytes"        json:"max_body_bytes"`
	ReadTimeout        string `yaml:"read_timeout"          json:"read_timeout"`
	ShutdownTimeout    string `yaml:"shutdown_timeout"      json:"shutdown_timeout"`
}

// ReadTimeoutDuration parses ReadTimeout, defaulting to 10s.
func (s ServerConfig) ReadTimeoutDuration() time.Duration {
	return parseDurationOr(s.ReadTimeout, 10*time.Second)
}

// ShutdownTimeoutDuration parses ShutdownTimeout, defaulting to 15s.
func (s ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return parseDurationOr(s.ShutdownTimeout, 15*time.Second)
}

// BatchConfig controls scenario batch estimation.
type BatchConfig struct {
	Size        int `yaml:"size"        json:"size"`
	Concurrency int `yaml:"concurrency" json:"concurrency"`
}

// Config is the complete carbonscope configuration.
type Config struct {
	Output     OutputConfig     `yaml:"output"     json:"output"`
	Logging    LoggingConfig    `yaml:"logging"    json:"logging"`
	Calculator CalculatorConfig `yaml:"calculator" json:"calculator"`
	Server     ServerConfig     `yaml:"server"     json:"server"`
	Batch      BatchConfig      `yaml:"batch"      json:"batch"`

	configPath string
}

// Default returns a Config holding built-in defaults without reading any file.
func Default() *Config {
	logFile := ""
	if dir, err := GetConfigDir(); err == nil {
		logFile = filepath.Join(dir, "logs", "carbonscope.log")
	}

	cfg := &Config{
		Output: OutputConfig{
			DefaultFormat: "table",
			Precision:     4,
			Equivalents:   true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File:   logFile,
		},
		Calculator: CalculatorConfig{
			DefaultRegion:       "TW",
			FactorSetConstraint: "^2024.1.0",
		},
		Server: ServerConfig{
			Listen:             ":8080",
			RateLimitPerMinute: 120,
			MaxBodyBytes:       1 << 20,
			ReadTimeout:        "10s",
			ShutdownTimeout:    "15s",
		},
		Batch: BatchConfig{
			Size:        100,
			Concurrency: 4,
		},
	}
	if dir, err := GetConfigDir(); err == nil {
		cfg.configPath = filepath.Join(dir, "config.yaml")
	}
	return cfg
}

// New returns defaults overlaid with the global config file, if present, and
// environment overrides. A malformed file is ignored and defaults are kept.
func New() *Config {
	cfg := Default()
	if _, err := os.Stat(cfg.configPath); err == nil {
		loaded := Default()
		if loadErr := loaded.Load(cfg.configPath); loadErr == nil {
			cfg = loaded
		}
	}
	cfg.applyEnv()
	return cfg
}

// Load reads path onto c, replacing the sections present in the file.
func (c *Config) Load(path string) error {
	if err := ShallowMergeYAML(c, path); err != nil {
		return err
	}
	c.configPath = path
	return nil
}

// Save writes c to its config path, creating the directory if needed.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path is not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", c.configPath, err)
	}
	return nil
}

// ConfigPath returns the file Save writes to.
func (c *Config) ConfigPath() string { return c.configPath }

// SetConfigPath changes the file Save writes to.
func (c *Config) SetConfigPath(path string) { c.configPath = path }

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if !slices.Contains(outputFormats, c.Output.DefaultFormat) {
		return fmt.Errorf("%w: got %q", ErrInvalidOutputFormat, c.Output.DefaultFormat)
	}
	if c.Output.Precision < 0 || c.Output.Precision > MaxPrecision {
		return fmt.Errorf("%w: got %d", ErrPrecisionOutOfRange, c.Output.Precision)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("%w: got %q", ErrInvalidLogFormat, c.Logging.Format)
	}
	if _, err := c.FactorSetConstraint(); err != nil {
		return err
	}
	if err := c.Server.validate(); err != nil {
		return err
	}
	if c.Batch.Size <= 0 || c.Batch.Size > MaxBatchSize ||
		c.Batch.Concurrency <= 0 || c.Batch.Concurrency > MaxConcurrency {
		return fmt.Errorf("%w: got size=%d concurrency=%d", ErrBatchOutOfRange, c.Batch.Size, c.Batch.Concurrency)
	}
	return nil
}

func (s ServerConfig) validate() error {
	if s.Listen == "" {
		return ErrInvalidListen
	}
	if s.RateLimitPerMinute < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidRateLimit, s.RateLimitPerMinute)
	}
	if s.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidBodyLimit, s.MaxBodyBytes)
	}
	for _, d := range []string{s.ReadTimeout, s.ShutdownTimeout} {
		if d == "" {
			continue
		}
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidTimeout, d)
		}
	}
	return nil
}

// FactorSetConstraint parses Calculator.FactorSetConstraint.
// An empty constraint matches every version.
func (c *Config) FactorSetConstraint() (*semver.Constraints, error) {
	expr := c.Calculator.FactorSetConstraint
	if expr == "" {
		expr = "*"
	}
	constraint, err := semver.NewConstraint(expr)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidConstraint, expr, err)
	}
	return constraint, nil
}

// CheckFactorSet reports whether version satisfies the configured constraint.
func (c *Config) CheckFactorSet(version string) error {
	constraint, err := c.FactorSetConstraint()
	if err != nil {
		return err
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("parsing factor set version %q: %w", version, err)
	}
	if ok, errs := constraint.Validate(v); !ok {
		return fmt.Errorf("factor set %s does not satisfy %q: %w", v, c.Calculator.FactorSetConstraint, errors.Join(errs...))
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CARBONSCOPE_OUTPUT_FORMAT"); v != "" {
		c.Output.DefaultFormat = v
	}
	if v := os.Getenv("CARBONSCOPE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CARBONSCOPE_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("CARBONSCOPE_REGION"); v != "" {
		c.Calculator.DefaultRegion = v
	}
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
