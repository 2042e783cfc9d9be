package output

import (
	"sort"

	"github.com/jackzampolin/docsift/internal/outline"
	"github.com/jackzampolin/docsift/internal/types"
)

// Outline is the per-document outline document.
type Outline struct {
	Title   string         `json:"title" yaml:"title"`
	Outline []OutlineEntry `json:"outline" yaml:"outline"`
}

// OutlineEntry is one heading of an outline.
type OutlineEntry struct {
	Level types.HeadingLevel `json:"level" yaml:"level"`
	Text  string             `json:"text" yaml:"text"`
	Page  int                `json:"page" yaml:"page"`
}

// AssembleOutline orders a document's headings by page, then level, then
// discovery order. A nil result yields an empty outline.
func AssembleOutline(result *outline.Result) Outline {
	out := Outline{Outline: []OutlineEntry{}}
	if result == nil {
		return out
	}
	out.Title = result.Title

	headings := make([]types.Heading, len(result.Headings))
	copy(headings, result.Headings)
	sort.SliceStable(headings, func(i, j int) bool {
		a, b := headings[i], headings[j]
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		if a.Level != b.Level {
			return a.Level < b.Level
		}
		return a.Seq < b.Seq
	})

	for _, h := range headings {
		out.Outline = append(out.Outline, OutlineEntry{Level: h.Level, Text: h.Text, Page: h.Page})
	}
	return out
}
