package providers

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync/atomic"
	"unicode"
)

const MockEmbedderName = "mock"

// MockEmbedder is a deterministic Embedder for tests and offline runs. It
// hashes lowercase words into a fixed number of buckets, so texts sharing
// words point in similar directions.
type MockEmbedder struct {
	Dimensions int
	ShouldFail bool
	FailAfter  int // Fail after N requests (0 = never)
	Unhealthy  bool

	requestCount atomic.Int64
}

// NewMockEmbedder creates a mock embedder with 64 dimensions.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{Dimensions: 64}
}

// Name returns the provider identifier.
func (m *MockEmbedder) Name() string {
	return MockEmbedderName
}

// HealthCheck fails when Unhealthy is set.
func (m *MockEmbedder) HealthCheck(_ context.Context) error {
	if m.Unhealthy {
		return fmt.Errorf("mock embedder configured unhealthy")
	}
	return nil
}

// Embed returns a bag-of-words vector. Text without words embeds to the
// zero vector.
func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	count := m.requestCount.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ShouldFail {
		return nil, fmt.Errorf("mock embedder configured to fail")
	}
	if m.FailAfter > 0 && int(count) > m.FailAfter {
		return nil, fmt.Errorf("mock embedder failed after %d requests", m.FailAfter)
	}

	dims := m.Dimensions
	if dims <= 0 {
		dims = 64
	}
	vec := make([]float32, dims)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%uint32(dims)]++
	}
	return vec, nil
}

// RequestCount returns the number of Embed calls made.
func (m *MockEmbedder) RequestCount() int64 {
	return m.requestCount.Load()
}

var _ Embedder = (*MockEmbedder)(nil)
