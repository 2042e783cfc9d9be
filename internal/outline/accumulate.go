package outline

import (
	"strings"

	"github.com/jackzampolin/docsift/internal/types"
)

// Accumulator folds a classified line stream into sections.
//
// It has two states: no open section (initial and final), and an open
// section with a heading and buffered body lines. A heading closes the open
// section and opens a new one; body lines are buffered, or dropped when no
// section is open; Close flushes the last section.
type Accumulator struct {
	documentID string

	open    bool
	heading types.Heading
	buffer  []string

	sections []types.Section
}

// NewAccumulator creates an Accumulator for one document.
func NewAccumulator(documentID string) *Accumulator {
	return &Accumulator{documentID: documentID}
}

// Heading closes the open section, if any, and opens a new one.
func (a *Accumulator) Heading(h types.Heading) {
	a.flush()
	a.open = true
	a.heading = h
	a.buffer = nil
}

// Body appends text to the open section. Text before the first heading
// cannot be attributed to a section and is dropped.
func (a *Accumulator) Body(text string) {
	if !a.open {
		return
	}
	a.buffer = append(a.buffer, text)
}

// Close flushes the open section and returns every emitted section in
// heading order. The accumulator is left with no open section.
func (a *Accumulator) Close() []types.Section {
	a.flush()
	sections := a.sections
	a.sections = nil
	return sections
}

// flush emits the open section when its body is non-empty.
func (a *Accumulator) flush() {
	if !a.open {
		return
	}
	body := collapseWhitespace(strings.Join(a.buffer, " "))
	if body != "" {
		a.sections = append(a.sections, types.Section{
			Level:       a.heading.Level,
			HeadingText: a.heading.Text,
			Page:        a.heading.Page,
			DocumentID:  a.documentID,
			Body:        body,
			Seq:         a.heading.Seq,
		})
	}
	a.open = false
	a.heading = types.Heading{}
	a.buffer = nil
}

// collapseWhitespace replaces every run of whitespace, blank lines included,
// with a single space.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
