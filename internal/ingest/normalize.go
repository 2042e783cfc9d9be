package ingest

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jackzampolin/docsift/internal/types"
)

// normalizeLines applies the line-stream contract: NFC text without
// surrounding whitespace, no empty lines, font sizes and positions rounded to
// two decimals, pages ascending and top-to-bottom within a page. The sort is
// stable so lines sharing a position keep their reading order.
func normalizeLines(lines []types.TextLine, documentID string) []types.TextLine {
	out := make([]types.TextLine, 0, len(lines))
	for _, l := range lines {
		text := strings.TrimSpace(norm.NFC.String(l.Text))
		if text == "" {
			continue
		}
		if l.Page < 1 {
			l.Page = 1
		}
		l.Text = text
		l.FontSize = round2(l.FontSize)
		l.Y = round2(l.Y)
		l.DocumentID = documentID
		out = append(out, l)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Page != out[j].Page {
			return out[i].Page < out[j].Page
		}
		return out[i].Y < out[j].Y
	})
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
