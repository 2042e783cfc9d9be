package config

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrNoDefault is returned when no default value exists for a config key.
var ErrNoDefault = errors.New("no default exists")

// ErrInvalidKey is returned when a config key contains invalid characters.
var ErrInvalidKey = errors.New("invalid config key")

// Entry is a single configuration key with its default value.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description" yaml:"description"`
}

// DefaultEntries returns every configuration key with its default and a
// description. The manager registers these with viper, which also makes
// each key settable through a DOCSIFT_ environment variable.
func DefaultEntries() []Entry {
	d := DefaultConfig()
	return []Entry{
		// Heading thresholds
		{Key: "thresholds.h1_ratio", Value: d.Thresholds.H1Ratio, Description: "H1 threshold as a fraction of the largest font size"},
		{Key: "thresholds.h2_ratio", Value: d.Thresholds.H2Ratio, Description: "H2 threshold as a fraction of the largest font size"},
		{Key: "thresholds.h3_ratio", Value: d.Thresholds.H3Ratio, Description: "H3 threshold as a fraction of the largest font size"},
		{Key: "thresholds.body_floor", Value: d.Thresholds.BodyFloor, Description: "Assumed body font size; H3 is never below 1.2x this"},

		// Scoring
		{Key: "scoring.job_weight", Value: d.Scoring.JobWeight, Description: "Weight of job-task similarity in vector scores"},
		{Key: "scoring.persona_weight", Value: d.Scoring.PersonaWeight, Description: "Weight of persona similarity in vector scores"},
		{Key: "scoring.vector_sentence_threshold", Value: d.Scoring.VectorSentenceThreshold, Description: "Minimum sentence score with vector similarity"},
		{Key: "scoring.token_sentence_threshold", Value: d.Scoring.TokenSentenceThreshold, Description: "Minimum sentence score with token overlap"},
		{Key: "scoring.top_k", Value: d.Scoring.TopK, Description: "Number of top-ranked sections refined into sentences"},
		{Key: "scoring.max_sentences", Value: d.Scoring.MaxSentences, Description: "Maximum sentences per refined section"},
		{Key: "scoring.min_sentence_chars", Value: d.Scoring.MinSentenceChars, Description: "Sentences shorter than this are ignored"},

		// Embedding provider
		{Key: "embedding.enabled", Value: d.Embedding.Enabled, Description: "Use vector similarity through an embedding provider"},
		{Key: "embedding.type", Value: d.Embedding.Type, Description: "Embedding provider type: openai or mock"},
		{Key: "embedding.base_url", Value: d.Embedding.BaseURL, Description: "Base URL of an OpenAI-compatible embeddings server"},
		{Key: "embedding.model", Value: d.Embedding.Model, Description: "Embedding model name"},
		{Key: "embedding.api_key", Value: d.Embedding.APIKey, Description: "API key (uses environment variable)"},
		{Key: "embedding.rate_limit", Value: d.Embedding.RateLimit, Description: "Rate limit in requests per minute"},
		{Key: "embedding.max_retries", Value: d.Embedding.MaxRetries, Description: "Transport retry attempts per request"},
		{Key: "embedding.timeout_seconds", Value: d.Embedding.TimeoutSeconds, Description: "HTTP timeout in seconds"},
		{Key: "embedding.ready_attempts", Value: d.Embedding.ReadyAttempts, Description: "Health checks before giving up on the provider"},
		{Key: "embedding.ready_delay_seconds", Value: d.Embedding.ReadyDelaySeconds, Description: "Delay between health checks in seconds"},

		// Runtime
		{Key: "workers", Value: d.Workers, Description: "Parallel document workers (0 = one per CPU)"},
		{Key: "log_level", Value: d.LogLevel, Description: "Log level: debug, info, warn or error"},
		{Key: "input_dir", Value: d.InputDir, Description: "Input directory (default {home}/input)"},
		{Key: "output_dir", Value: d.OutputDir, Description: "Output directory (default {home}/output)"},
	}
}

// GetDefault returns the default entry for a config key.
// Returns nil if no default exists for the key.
func GetDefault(key string) *Entry {
	for _, entry := range DefaultEntries() {
		if entry.Key == key {
			return &entry
		}
	}
	return nil
}

// ValidateKey checks if a config key contains only allowed characters.
// Valid keys contain: letters, digits, dots, underscores, and hyphens.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	for i, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' && r != '-' {
			return fmt.Errorf("%w: invalid character %q at position %d", ErrInvalidKey, r, i)
		}
	}
	if key[0] == '.' || key[len(key)-1] == '.' {
		return fmt.Errorf("%w: key cannot start or end with a dot", ErrInvalidKey)
	}
	return nil
}
