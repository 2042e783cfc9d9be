package relevance

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jackzampolin/docsift/internal/types"
)

// Embedder converts text to a vector. Implementations must be safe for
// concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorProvider scores texts by cosine similarity of their embeddings,
// clamped to [0,1]. It only reads from the embedder.
type VectorProvider struct {
	embedder Embedder
}

// NewVectorProvider wraps an embedder.
func NewVectorProvider(embedder Embedder) *VectorProvider {
	return &VectorProvider{embedder: embedder}
}

// Variant returns VariantVector.
func (p *VectorProvider) Variant() Variant {
	return VariantVector
}

// Against embeds the reference once.
func (p *VectorProvider) Against(ctx context.Context, reference string) (Comparer, error) {
	vec, norm, err := p.vector(ctx, reference)
	if err != nil {
		return nil, err
	}
	return vectorComparer{provider: p, reference: vec, norm: norm}, nil
}

// vector embeds text and rejects texts without a representable vector:
// empty input, embedding failures and all-zero vectors.
func (p *VectorProvider) vector(ctx context.Context, text string) ([]float32, float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, 0, fmt.Errorf("empty text: %w", types.ErrSimilarityUnavailable)
	}
	vec, err := p.embedder.Embed(ctx, text)
	if err != nil {
		return nil, 0, fmt.Errorf("embed: %v: %w", err, types.ErrSimilarityUnavailable)
	}
	norm := vectorNorm(vec)
	if norm == 0 {
		return nil, 0, fmt.Errorf("zero vector: %w", types.ErrSimilarityUnavailable)
	}
	return vec, norm, nil
}

type vectorComparer struct {
	provider  *VectorProvider
	reference []float32
	norm      float64
}

// Compare embeds text and returns its clamped cosine similarity to the reference.
func (c vectorComparer) Compare(ctx context.Context, text string) (float64, error) {
	vec, norm, err := c.provider.vector(ctx, text)
	if err != nil {
		return 0, err
	}
	if len(vec) != len(c.reference) {
		return 0, fmt.Errorf("dimension mismatch %d != %d: %w", len(vec), len(c.reference), types.ErrSimilarityUnavailable)
	}
	return clamp01(cosine(vec, c.reference, norm, c.norm)), nil
}

// cosine computes cosine similarity with pre-calculated L2 norms.
func cosine(a, b []float32, normA, normB float64) float64 {
	if len(a) != len(b) || normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (normA * normB)
}

func vectorNorm(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

var _ SimilarityProvider = (*VectorProvider)(nil)
