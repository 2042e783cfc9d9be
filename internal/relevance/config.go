package relevance

import "fmt"

// Config holds the empirical weights and cut-offs used for scoring. None of
// them has a derivation, so they stay configurable.
type Config struct {
	JobWeight               float64 `mapstructure:"job_weight" yaml:"job_weight"`
	PersonaWeight           float64 `mapstructure:"persona_weight" yaml:"persona_weight"`
	VectorSentenceThreshold float64 `mapstructure:"vector_sentence_threshold" yaml:"vector_sentence_threshold"`
	TokenSentenceThreshold  float64 `mapstructure:"token_sentence_threshold" yaml:"token_sentence_threshold"`
	TopK                    int     `mapstructure:"top_k" yaml:"top_k"`                           // sections refined into sentences
	MaxSentences            int     `mapstructure:"max_sentences" yaml:"max_sentences"`           // per refined section
	MinSentenceChars        int     `mapstructure:"min_sentence_chars" yaml:"min_sentence_chars"` // after trimming
}

// DefaultConfig returns the default scoring configuration.
func DefaultConfig() Config {
	return Config{
		JobWeight:               0.7,
		PersonaWeight:           0.3,
		VectorSentenceThreshold: 0.3,
		TokenSentenceThreshold:  0.1,
		TopK:                    10,
		MaxSentences:            3,
		MinSentenceChars:        15,
	}
}

// Validate checks that weights keep vector scores within [0,1] and that the
// counts are usable.
func (c Config) Validate() error {
	if c.JobWeight < 0 || c.PersonaWeight < 0 {
		return fmt.Errorf("weights must not be negative (job=%v persona=%v)", c.JobWeight, c.PersonaWeight)
	}
	if c.JobWeight+c.PersonaWeight > 1+1e-9 {
		return fmt.Errorf("job and persona weights must sum to at most 1, got %v", c.JobWeight+c.PersonaWeight)
	}
	if c.TopK < 0 || c.MaxSentences < 0 || c.MinSentenceChars < 0 {
		return fmt.Errorf("top_k, max_sentences and min_sentence_chars must not be negative")
	}
	return nil
}

// SentenceThreshold returns the minimum sentence score for a variant.
func (c Config) SentenceThreshold(v Variant) float64 {
	if v == VariantVector {
		return c.VectorSentenceThreshold
	}
	return c.TokenSentenceThreshold
}
