package relevance

import (
	"context"
	"log/slog"

	"github.com/jackzampolin/docsift/internal/types"
)

// Scorer scores section bodies against one query with one provider variant.
// It is safe for concurrent use once constructed.
type Scorer struct {
	variant Variant
	job     Comparer
	persona Comparer // nil for the token-overlap variant
	cfg     Config
	logger  *slog.Logger
}

// NewScorer picks the provider variant for a run and prepares the query.
//
// The vector provider is used only when it is non-nil and both the job task
// and the persona role embed to usable vectors. Otherwise the run falls back
// to token overlap. The decision is never revisited during the run.
func NewScorer(ctx context.Context, vector SimilarityProvider, query types.Query, cfg Config, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}

	if vector != nil {
		job, jobErr := vector.Against(ctx, query.JobTask)
		persona, personaErr := vector.Against(ctx, query.PersonaRole)
		if jobErr == nil && personaErr == nil {
			logger.Info("using vector similarity", "variant", vector.Variant())
			return &Scorer{variant: vector.Variant(), job: job, persona: persona, cfg: cfg, logger: logger}
		}
		logger.Warn("vector similarity unusable, falling back to token overlap",
			"job_error", jobErr, "persona_error", personaErr)
	}

	// Token overlap never fails.
	job, _ := NewTokenOverlapProvider().Against(ctx, query.JobTask)
	return &Scorer{variant: VariantTokenOverlap, job: job, cfg: cfg, logger: logger}
}

// Variant reports the variant chosen for this run.
func (s *Scorer) Variant() Variant {
	return s.variant
}

// Score returns the relevance of body in [0,1].
func (s *Scorer) Score(ctx context.Context, body string) float64 {
	if s.variant != VariantVector {
		score, _ := s.job.Compare(ctx, body)
		return clamp01(score)
	}
	return clamp01(s.cfg.JobWeight*s.compare(ctx, s.job, body) + s.cfg.PersonaWeight*s.compare(ctx, s.persona, body))
}

// ScoreSections returns copies of sections with RelevanceScore set.
func (s *Scorer) ScoreSections(ctx context.Context, sections []types.Section) []types.Section {
	scored := make([]types.Section, len(sections))
	for i, sec := range sections {
		sec.RelevanceScore = s.Score(ctx, sec.Body)
		scored[i] = sec
	}
	return scored
}

// compare treats an unavailable similarity as 0.
func (s *Scorer) compare(ctx context.Context, c Comparer, text string) float64 {
	score, err := c.Compare(ctx, text)
	if err != nil {
		s.logger.Debug("similarity unavailable", "error", err)
		return 0
	}
	return score
}
