// Package config provides configuration management for the eca command-line tool.
// It supports loading configuration from a YAML file plus environment-variable
// overrides, and hands the result to components as an explicit value object;
// core logic never reads the environment itself.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// OutputFormat defines the supported output formats for CLI results.
type OutputFormat string

const (
	// OutputFormatText is human-readable plain text output.
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON is JSON-formatted output for machine processing.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML is YAML-formatted output for machine processing.
	OutputFormatYAML OutputFormat = "yaml"
)

// Default configuration values.
const (
	DefaultConfigDir  = ".eca"
	DefaultConfigFile = "config.yaml"
	DefaultIndexDir   = "index"

	DefaultEmbeddingModel  = "text-embedding-3-small"
	DefaultCompletionModel = "gpt-4o"
	DefaultRequestTimeout  = 60 * time.Second

	// DefaultFuzzyThreshold is the 0-100 similarity score above which a raw
	// speaker label is considered a roster match.
	DefaultFuzzyThreshold = 75

	// DefaultFirstPages is how many leading pages feed metadata extraction.
	DefaultFirstPages = 2

	DefaultTopK = 5

	DefaultClearMaxAttempts    = 5
	DefaultClearInitialBackoff = 500 * time.Millisecond
)

// OpenAIConfig holds settings for the embedding and completion services.
type OpenAIConfig struct {
	// APIKey authenticates against the OpenAI API. Usually left empty here
	// and supplied via the OPENAI_API_KEY environment variable or the
	// credentials store.
	APIKey string `yaml:"api_key,omitempty"`

	// EmbeddingModel is the embedding model name.
	EmbeddingModel string `yaml:"embedding_model"`

	// CompletionModel is the chat completion model name.
	CompletionModel string `yaml:"completion_model"`

	// RequestTimeout is the hard per-request timeout for service calls.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// IndexConfig holds settings for the on-disk vector index.
type IndexConfig struct {
	// Dir is the directory holding index artifacts.
	Dir string `yaml:"dir"`

	// TopK is the default number of results returned by retrieval queries.
	TopK int `yaml:"top_k"`

	// ClearMaxAttempts bounds retries when clearing a locked index directory.
	ClearMaxAttempts int `yaml:"clear_max_attempts"`

	// ClearInitialBackoff is the first retry delay; it grows linearly with
	// the attempt number.
	ClearInitialBackoff time.Duration `yaml:"clear_initial_backoff"`
}

// ParserConfig holds tunables for the transcript parsing pipeline.
type ParserConfig struct {
	// FuzzyThreshold is the 0-100 similarity score a raw speaker label must
	// exceed to be mapped onto a roster participant.
	FuzzyThreshold int `yaml:"fuzzy_threshold"`

	// FirstPages is how many leading pages feed metadata extraction.
	FirstPages int `yaml:"first_pages"`
}

// Config is the top-level configuration for the eca CLI.
type Config struct {
	OpenAI OpenAIConfig `yaml:"openai"`
	Index  IndexConfig  `yaml:"index"`
	Parser ParserConfig `yaml:"parser"`

	// DemoFile is an optional path to a bundled sample transcript, used by
	// `eca process --demo`.
	DemoFile string `yaml:"demo_file,omitempty"`

	// OutputFormat is the default output format (text, json, yaml).
	OutputFormat OutputFormat `yaml:"output_format,omitempty"`

	// LogLevel is the default log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level,omitempty"`
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		OpenAI: OpenAIConfig{
			EmbeddingModel:  DefaultEmbeddingModel,
			CompletionModel: DefaultCompletionModel,
			RequestTimeout:  DefaultRequestTimeout,
		},
		Index: IndexConfig{
			Dir:                 filepath.Join(home, DefaultConfigDir, DefaultIndexDir),
			TopK:                DefaultTopK,
			ClearMaxAttempts:    DefaultClearMaxAttempts,
			ClearInitialBackoff: DefaultClearInitialBackoff,
		},
		Parser: ParserConfig{
			FuzzyThreshold: DefaultFuzzyThreshold,
			FirstPages:     DefaultFirstPages,
		},
		OutputFormat: OutputFormatText,
		LogLevel:     "info",
	}
}

// DefaultConfigPath returns the default config file path (~/.eca/config.yaml).
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(DefaultConfigDir, DefaultConfigFile)
	}
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile)
}

// LoadConfig loads configuration from the default path, falling back to
// defaults when no file exists, then applies environment overrides.
func LoadConfig() (*Config, error) {
	return LoadConfigFromPath(DefaultConfigPath())
}

// LoadConfigFromPath loads configuration from the given path. A missing file
// is not an error; defaults are used.
func LoadConfigFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(expandPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			if err := cfg.Validate(); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides layers environment variables over file values.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.OpenAI.APIKey = key
	}
	if dir := os.Getenv("ECA_INDEX_DIR"); dir != "" {
		c.Index.Dir = dir
	}
	if level := os.Getenv("ECA_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
	c.Index.Dir = expandPath(c.Index.Dir)
	c.DemoFile = expandPath(c.DemoFile)
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.Index.TopK <= 0 {
		return fmt.Errorf("index.top_k must be positive, got %d", c.Index.TopK)
	}
	if c.Parser.FuzzyThreshold < 0 || c.Parser.FuzzyThreshold > 100 {
		return fmt.Errorf("parser.fuzzy_threshold must be in [0,100], got %d", c.Parser.FuzzyThreshold)
	}
	if c.Parser.FirstPages <= 0 {
		return fmt.Errorf("parser.first_pages must be positive, got %d", c.Parser.FirstPages)
	}
	if c.Index.ClearMaxAttempts <= 0 {
		return fmt.Errorf("index.clear_max_attempts must be positive, got %d", c.Index.ClearMaxAttempts)
	}
	switch c.OutputFormat {
	case "", OutputFormatText, OutputFormatJSON, OutputFormatYAML:
	default:
		return fmt.Errorf("output_format must be text, json, or yaml, got %q", c.OutputFormat)
	}
	return nil
}

// Save writes the configuration to the given path, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	path = expandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path // Return original if home dir lookup fails.
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
