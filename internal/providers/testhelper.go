package providers

import (
	"os"
)

// TestConfig holds provider configuration loaded from environment variables
// so integration tests use the same settings as production.
type TestConfig struct {
	OpenAIAPIKey  string
	OpenAIBaseURL string
}

// LoadTestConfig loads provider settings from environment variables.
func LoadTestConfig() TestConfig {
	return TestConfig{
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
	}
}

// HasOpenAI returns true if an OpenAI API key is configured.
func (c TestConfig) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

// NewOpenAIEmbedder creates an embeddings client from test config.
// Returns nil if not configured.
func (c TestConfig) NewOpenAIEmbedder() *OpenAIEmbedder {
	if !c.HasOpenAI() {
		return nil
	}
	return NewOpenAIEmbedder(OpenAIEmbedderConfig{
		APIKey:  c.OpenAIAPIKey,
		BaseURL: c.OpenAIBaseURL,
	})
}
