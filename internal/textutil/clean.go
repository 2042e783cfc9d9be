// Package textutil holds small text normalization helpers shared by the
// ranking and output stages.
package textutil

import (
	"regexp"
	"strings"
)

// listMarkerPattern matches a leading bullet or list number on any line:
// "• ", "* ", "- ", "3. ", "2.1. ".
var listMarkerPattern = regexp.MustCompile(`(?m)^(?:\d+\.\d+\.|\d+\.|[•*\-])\s*`)

// CleanText strips leading list markers and collapses whitespace so text
// reads as a single fluent line.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = listMarkerPattern.ReplaceAllString(strings.TrimSpace(text), "")
	return CollapseWhitespace(text)
}

// CollapseWhitespace replaces every whitespace run with a single space and
// trims the ends.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
