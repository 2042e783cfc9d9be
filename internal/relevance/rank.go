package relevance

import (
	"sort"

	"github.com/jackzampolin/docsift/internal/types"
)

// Rank orders sections by descending relevance and assigns importance ranks
// 1..n. Ties are broken by document order, then page, then first-seen order
// within the document, so the result is fully deterministic.
func Rank(sections []types.RankedSection) []types.RankedSection {
	ranked := make([]types.RankedSection, len(sections))
	copy(ranked, sections)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.RelevanceScore != b.RelevanceScore {
			return a.RelevanceScore > b.RelevanceScore
		}
		if a.DocumentIndex != b.DocumentIndex {
			return a.DocumentIndex < b.DocumentIndex
		}
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		return a.Seq < b.Seq
	})

	for i := range ranked {
		ranked[i].ImportanceRank = i + 1
	}
	return ranked
}
