package outline

import (
	"fmt"

	"github.com/jackzampolin/docsift/internal/types"
)

// Result is everything extracted from one document.
type Result struct {
	DocumentID string
	Title      string
	Stats      types.DocumentStatistics
	Headings   []types.Heading // discovery order, one entry per (text, page)
	Sections   []types.Section // heading order, non-empty bodies only
}

// Extract runs the per-document pipeline over lines.
//
// The returned Result is always usable. For a document without lines it is
// empty and the error wraps types.ErrEmptyDocument.
func Extract(documentID string, lines []types.TextLine, t Thresholds) (*Result, error) {
	result := &Result{DocumentID: documentID}

	stats, err := Analyze(lines, t)
	if err != nil {
		return result, fmt.Errorf("document %s: %w", documentID, err)
	}
	result.Stats = stats

	title, residual := DetectTitle(lines, stats)
	result.Title = title

	classifier := NewClassifier(stats)
	acc := NewAccumulator(documentID)
	seen := make(map[headingKey]struct{})

	for seq, line := range residual {
		level, ok := classifier.Classify(line)
		if !ok {
			acc.Body(line.Text)
			continue
		}

		h := types.Heading{Level: level, Text: line.Text, Page: line.Page, Seq: seq}
		acc.Heading(h)

		key := headingKey{text: line.Text, page: line.Page}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result.Headings = append(result.Headings, h)
	}

	result.Sections = acc.Close()
	return result, nil
}

type headingKey struct {
	text string
	page int
}
