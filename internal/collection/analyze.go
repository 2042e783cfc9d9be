// Package collection runs the multi-document relevance analysis: it loads
// every document of a collection in parallel, extracts and scores their
// sections, ranks them globally and refines the top sections into
// representative sentences.
package collection

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jackzampolin/docsift/internal/ingest"
	"github.com/jackzampolin/docsift/internal/outline"
	"github.com/jackzampolin/docsift/internal/output"
	"github.com/jackzampolin/docsift/internal/providers"
	"github.com/jackzampolin/docsift/internal/relevance"
	"github.com/jackzampolin/docsift/internal/types"
)

// Config configures an Analyzer.
type Config struct {
	Loader     *ingest.Loader
	Thresholds outline.Thresholds
	Scoring    relevance.Config
	Workers    int

	// Embedder backs vector similarity. Nil selects token overlap.
	Embedder      providers.Embedder
	ReadyAttempts uint
	ReadyDelay    time.Duration

	Logger *slog.Logger
	Now    func() time.Time // defaults to time.Now
}

// Analyzer ranks the sections of document collections.
type Analyzer struct {
	cfg    Config
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(cfg Config) *Analyzer {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Loader == nil {
		cfg.Loader = ingest.NewLoader(cfg.Logger)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Analyzer{cfg: cfg, logger: cfg.Logger}
}

// docResult is the slot one worker fills.
type docResult struct {
	present  bool
	sections []types.RankedSection
}

// Analyze processes the documents of desc found in docDir.
//
// Per-document failures are logged and skipped. Missing documents are left
// out of input_documents; documents that exist but cannot be read are listed
// and contribute no sections. Only context cancellation aborts the run.
func (a *Analyzer) Analyze(ctx context.Context, name string, desc *Descriptor, docDir string) (*output.CollectionResult, error) {
	runID := uuid.New().String()
	logger := a.logger.With("collection", name, "run_id", runID)
	logger.Info("analyzing collection",
		"challenge_id", desc.ChallengeInfo.ChallengeID,
		"test_case", desc.ChallengeInfo.TestCaseName,
		"documents", len(desc.Documents))

	query := desc.Query()
	scorer := relevance.NewScorer(ctx, a.vectorProvider(ctx, logger), query, a.cfg.Scoring, logger)
	logger.Debug("scoring variant selected", "variant", scorer.Variant())

	slots := make([]docResult, len(desc.Documents))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)

	for i, doc := range desc.Documents {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i] = a.processDocument(gctx, logger.With("document", doc.Filename), scorer, i, filepath.Join(docDir, doc.Filename))
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var inputDocs []string
	var all []types.RankedSection
	for i, slot := range slots {
		if !slot.present {
			continue
		}
		inputDocs = append(inputDocs, desc.Documents[i].Filename)
		all = append(all, slot.sections...)
	}

	ranked := relevance.Rank(all)

	topK := min(a.cfg.Scoring.TopK, len(ranked))
	ranker := relevance.NewSentenceRanker(scorer)
	var refined []types.RefinedSentence
	for _, r := range ranked[:topK] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s, ok := ranker.Refine(ctx, r.Section); ok {
			refined = append(refined, s)
		}
	}

	result := output.AssembleCollection(inputDocs, query, ranked, refined, a.cfg.Now())
	logger.Info("collection analyzed",
		"documents", len(inputDocs),
		"sections", len(ranked),
		"refined", len(refined),
		"variant", scorer.Variant())
	return &result, nil
}

// processDocument loads, extracts and scores one document.
func (a *Analyzer) processDocument(ctx context.Context, logger *slog.Logger, scorer *relevance.Scorer, index int, path string) docResult {
	lines, err := a.cfg.Loader.Load(ctx, path)
	if err != nil {
		if errors.Is(err, types.ErrMissingCollateral) {
			logger.Warn("document not found, skipping", "path", path)
			return docResult{}
		}
		logger.Error("failed to read document", "error", err)
		return docResult{present: true}
	}

	res, err := outline.Extract(filepath.Base(path), lines, a.cfg.Thresholds)
	if err != nil {
		if errors.Is(err, types.ErrEmptyDocument) {
			logger.Info("document is empty")
		} else {
			logger.Error("failed to extract sections", "error", err)
		}
		return docResult{present: true}
	}

	scored := scorer.ScoreSections(ctx, res.Sections)
	sections := make([]types.RankedSection, len(scored))
	for i, s := range scored {
		sections[i] = types.RankedSection{Section: s, DocumentIndex: index}
	}
	logger.Debug("document scored", "sections", len(sections), "title", res.Title)
	return docResult{present: true, sections: sections}
}

// vectorProvider returns the vector provider when an embedder is configured
// and answers its health check, or nil.
func (a *Analyzer) vectorProvider(ctx context.Context, logger *slog.Logger) relevance.SimilarityProvider {
	if a.cfg.Embedder == nil {
		return nil
	}
	if err := providers.WaitReady(ctx, a.cfg.Embedder, a.cfg.ReadyAttempts, a.cfg.ReadyDelay, logger); err != nil {
		logger.Warn("embedding provider unavailable", "error", err)
		return nil
	}
	return relevance.NewVectorProvider(a.cfg.Embedder)
}
