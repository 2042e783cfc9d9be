package outline

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jackzampolin/docsift/internal/types"
)

const (
	maxH1Words = 15
	maxH2Words = 20
	maxH3Words = 25

	minHeadingRunes = 4
)

// listItemPattern matches a first token that starts a bullet or numbered item:
// "•", "*", "-", "3." or "2.1".
var listItemPattern = regexp.MustCompile(`^(?:[•*\-]|\d+\.)`)

// bareOrdinalPattern matches text that is only a dotted ordinal such as "2.1" or "3.".
var bareOrdinalPattern = regexp.MustCompile(`^\d+(?:\.\d+)*\.?$`)

// allowListedHeadings are accepted as headings regardless of length.
var allowListedHeadings = map[string]struct{}{
	"summary":      {},
	"introduction": {},
	"conclusion":   {},
}

// Classifier assigns heading levels to lines using document-wide thresholds.
// It holds no per-line state, so one Classifier can be reused for a whole
// document.
type Classifier struct {
	stats types.DocumentStatistics
}

// NewClassifier creates a Classifier for a document with the given statistics.
func NewClassifier(stats types.DocumentStatistics) *Classifier {
	return &Classifier{stats: stats}
}

// Classify returns the heading level of line, or false when the line is body text.
func (c *Classifier) Classify(line types.TextLine) (types.HeadingLevel, bool) {
	if c.isListItem(line) {
		return 0, false
	}

	level, ok := c.candidateLevel(line)
	if !ok {
		return 0, false
	}

	trimmed := strings.TrimSpace(line.Text)
	if isTooShort(trimmed, line.Bold) && !isAllowListed(trimmed) {
		return 0, false
	}
	if isBareOrdinal(trimmed) {
		return 0, false
	}
	return level, true
}

// candidateLevel applies the size, boldness and length rules in H1, H2, H3 order.
func (c *Classifier) candidateLevel(line types.TextLine) (types.HeadingLevel, bool) {
	words := wordCount(line.Text)
	switch {
	case line.Bold && line.FontSize >= c.stats.H1 && words < maxH1Words:
		return types.H1, true
	case line.Bold && line.FontSize >= c.stats.H2 && words < maxH2Words:
		return types.H2, true
	case line.FontSize >= c.stats.H3 && words < maxH3Words && !strings.HasSuffix(line.Text, "."):
		return types.H3, true
	default:
		return 0, false
	}
}

// isListItem reports whether a line below H1 size starts like a list item or
// a numbered fragment.
func (c *Classifier) isListItem(line types.TextLine) bool {
	if line.FontSize >= c.stats.H1 {
		return false
	}
	fields := strings.Fields(line.Text)
	if len(fields) == 0 {
		return false
	}
	return listItemPattern.MatchString(fields[0])
}

func isTooShort(trimmed string, bold bool) bool {
	return utf8.RuneCountInString(trimmed) < minHeadingRunes && !bold
}

func isAllowListed(trimmed string) bool {
	_, ok := allowListedHeadings[strings.ToLower(trimmed)]
	return ok
}

func isBareOrdinal(trimmed string) bool {
	return bareOrdinalPattern.MatchString(trimmed)
}
