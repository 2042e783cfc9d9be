package relevance

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jackzampolin/docsift/internal/textutil"
	"github.com/jackzampolin/docsift/internal/types"
)

// SentenceRanker picks representative sentences for top-ranked sections,
// using the same variant as the Scorer it wraps.
type SentenceRanker struct {
	scorer *Scorer
}

// NewSentenceRanker creates a ranker bound to a run's scorer.
func NewSentenceRanker(scorer *Scorer) *SentenceRanker {
	return &SentenceRanker{scorer: scorer}
}

type scoredSentence struct {
	text  string
	score float64
}

// Refine scores each sentence of the section body against the job task and
// joins the best ones. Sentences are sorted by score and taken as a prefix:
// selection stops at the first sentence below the variant's threshold or
// after MaxSentences. It returns false when nothing qualifies.
func (r *SentenceRanker) Refine(ctx context.Context, section types.Section) (types.RefinedSentence, bool) {
	cfg := r.scorer.cfg

	var scored []scoredSentence
	for _, s := range SplitSentences(section.Body) {
		s = strings.TrimSpace(s)
		if utf8.RuneCountInString(s) < cfg.MinSentenceChars {
			continue
		}
		scored = append(scored, scoredSentence{text: s, score: r.scorer.compare(ctx, r.scorer.job, s)})
	}
	if len(scored) == 0 {
		return types.RefinedSentence{}, false
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	threshold := cfg.SentenceThreshold(r.scorer.variant)
	var picked []string
	for _, s := range scored {
		if len(picked) >= cfg.MaxSentences || s.score < threshold {
			break
		}
		if cleaned := textutil.CleanText(s.text); cleaned != "" {
			picked = append(picked, cleaned)
		}
	}
	if len(picked) == 0 {
		return types.RefinedSentence{}, false
	}

	return types.RefinedSentence{
		DocumentID: section.DocumentID,
		Page:       section.Page,
		Text:       strings.Join(picked, " "),
	}, true
}
