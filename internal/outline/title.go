package outline

import (
	"sort"
	"strings"

	"github.com/jackzampolin/docsift/internal/types"
)

const maxTitleWords = 20

// isTitleCandidate reports whether a page-1 line is large and short enough to
// be the document title.
func isTitleCandidate(line types.TextLine, stats types.DocumentStatistics) bool {
	return line.FontSize >= stats.H1 &&
		wordCount(line.Text) < maxTitleWords &&
		(line.Bold || line.FontSize == stats.MaxFontSize)
}

// DetectTitle picks the document title from page 1 and returns it together
// with the line stream that remains for classification.
//
// Candidates are ordered by font size (largest first) then by vertical
// position (topmost first). Without candidates the first page-1 line is used.
// Every page-1 line whose text equals the title is removed; lines on other
// pages are never touched. When page 1 has no lines the title is empty and
// lines is returned unchanged.
func DetectTitle(lines []types.TextLine, stats types.DocumentStatistics) (string, []types.TextLine) {
	var firstPage []types.TextLine
	for _, line := range lines {
		if line.Page == 1 {
			firstPage = append(firstPage, line)
		}
	}
	if len(firstPage) == 0 {
		return "", lines
	}

	var candidates []types.TextLine
	for _, line := range firstPage {
		if isTitleCandidate(line, stats) {
			candidates = append(candidates, line)
		}
	}

	title := firstPage[0].Text
	if len(candidates) > 0 {
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].FontSize != candidates[j].FontSize {
				return candidates[i].FontSize > candidates[j].FontSize
			}
			return candidates[i].Y < candidates[j].Y
		})
		title = candidates[0].Text
	}

	residual := make([]types.TextLine, 0, len(lines))
	for _, line := range lines {
		if line.Page == 1 && line.Text == title {
			continue
		}
		residual = append(residual, line)
	}
	return title, residual
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}
