package config

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/jackzampolin/docsift/internal/outline"
	"github.com/jackzampolin/docsift/internal/providers"
	"github.com/jackzampolin/docsift/internal/relevance"
)

// Config holds docsift configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Thresholds outline.Thresholds `mapstructure:"thresholds" yaml:"thresholds"`
	Scoring    relevance.Config   `mapstructure:"scoring" yaml:"scoring"`
	Embedding  EmbeddingCfg       `mapstructure:"embedding" yaml:"embedding"`
	Workers    int                `mapstructure:"workers" yaml:"workers"`       // 0 = one per CPU
	LogLevel   string             `mapstructure:"log_level" yaml:"log_level"`   // debug, info, warn, error
	InputDir   string             `mapstructure:"input_dir" yaml:"input_dir"`   // default {home}/input
	OutputDir  string             `mapstructure:"output_dir" yaml:"output_dir"` // default {home}/output
}

// EmbeddingCfg configures the embedding provider behind vector similarity.
type EmbeddingCfg struct {
	Enabled           bool   `mapstructure:"enabled" yaml:"enabled"`
	Type              string `mapstructure:"type" yaml:"type"`         // "openai", "mock"
	BaseURL           string `mapstructure:"base_url" yaml:"base_url"` // any OpenAI-compatible server
	Model             string `mapstructure:"model" yaml:"model"`
	APIKey            string `mapstructure:"api_key" yaml:"api_key"`       // supports ${ENV_VAR} syntax
	RateLimit         int    `mapstructure:"rate_limit" yaml:"rate_limit"` // requests per minute
	MaxRetries        int    `mapstructure:"max_retries" yaml:"max_retries"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	ReadyAttempts     int    `mapstructure:"ready_attempts" yaml:"ready_attempts"`
	ReadyDelaySeconds int    `mapstructure:"ready_delay_seconds" yaml:"ready_delay_seconds"`
}

// Embedding provider types.
const (
	EmbeddingOpenAI = "openai"
	EmbeddingMock   = "mock"
)

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Thresholds: outline.DefaultThresholds(),
		Scoring:    relevance.DefaultConfig(),
		Embedding: EmbeddingCfg{
			Enabled:           false,
			Type:              EmbeddingOpenAI,
			Model:             "text-embedding-3-small",
			APIKey:            "${OPENAI_API_KEY}",
			RateLimit:         500,
			MaxRetries:        2,
			TimeoutSeconds:    30,
			ReadyAttempts:     5,
			ReadyDelaySeconds: 2,
		},
		Workers:  0,
		LogLevel: "info",
	}
}

// Validate checks every section of the configuration.
func (c *Config) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}
	if err := c.Scoring.Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Embedding.Enabled {
		switch c.Embedding.Type {
		case EmbeddingOpenAI, EmbeddingMock:
		default:
			return fmt.Errorf("embedding: unknown type %q", c.Embedding.Type)
		}
		if c.Embedding.ReadyAttempts < 0 || c.Embedding.ReadyDelaySeconds < 0 {
			return fmt.Errorf("embedding: ready_attempts and ready_delay_seconds must not be negative")
		}
	}
	return nil
}

// WorkerCount returns the effective number of parallel document workers.
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// ToEmbedderConfig converts the embedding section for providers.NewOpenAIEmbedder.
// It resolves ${ENV_VAR} references in the API key.
func (c *Config) ToEmbedderConfig() providers.OpenAIEmbedderConfig {
	return providers.OpenAIEmbedderConfig{
		APIKey:     ResolveEnvVars(c.Embedding.APIKey),
		Model:      c.Embedding.Model,
		RateLimit:  c.Embedding.RateLimit,
		MaxRetries: c.Embedding.MaxRetries,
		Timeout:    time.Duration(c.Embedding.TimeoutSeconds) * time.Second,
		BaseURL:    ResolveEnvVars(c.Embedding.BaseURL),
	}
}

// ParseLogLevel converts a level name to a slog.Level. Empty means info.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
