// Package relevance scores document sections and sentences against a
// persona and job-to-be-done query.
//
// Scoring goes through a SimilarityProvider. Two variants exist: a vector
// variant backed by an embedding model and a token-overlap variant that is
// always available. The variant is chosen once per run by NewScorer so that
// every section of a run is scored the same way.
package relevance

import (
	"context"
)

// Variant identifies how similarity is computed.
type Variant string

const (
	// VariantVector compares embedding vectors with cosine similarity.
	VariantVector Variant = "vector"
	// VariantTokenOverlap compares lowercase word sets.
	VariantTokenOverlap Variant = "token_overlap"
)

// SimilarityProvider computes relatedness between texts.
type SimilarityProvider interface {
	// Variant reports which scoring semantics the provider implements.
	Variant() Variant

	// Against prepares reference once and returns a Comparer that scores
	// other texts against it. It fails with types.ErrSimilarityUnavailable
	// when the reference has no usable representation.
	Against(ctx context.Context, reference string) (Comparer, error)
}

// Comparer scores texts against a prepared reference.
type Comparer interface {
	// Compare returns a score in [0,1]. It fails with
	// types.ErrSimilarityUnavailable when text has no usable representation.
	Compare(ctx context.Context, text string) (float64, error)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
