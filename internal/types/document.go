// Package types provides shared types used across multiple packages.
// This package has no dependencies on other docsift packages to avoid import cycles.
package types

// TextLine is one visual line of a document as produced by ingestion.
// Lines are immutable once ingested.
type TextLine struct {
	Text       string  `json:"text"`
	FontSize   float64 `json:"font_size"` // rounded to 2 decimal places
	Bold       bool    `json:"bold"`
	Page       int     `json:"page"`       // 1-indexed
	Y          float64 `json:"y_position"` // top of page is 0, grows downward
	DocumentID string  `json:"document_id"`
}

// DocumentStatistics holds document-wide font extrema and the heading
// thresholds derived from them. H1 >= H2 >= H3 > 0 always holds.
type DocumentStatistics struct {
	MaxFontSize float64 `json:"max_font_size"`
	H1          float64 `json:"h1"`
	H2          float64 `json:"h2"`
	H3          float64 `json:"h3"`
}

// Heading is a classified heading line as it appears in an outline.
type Heading struct {
	Level HeadingLevel
	Text  string
	Page  int
	Seq   int // discovery order within the document
}

// Section is a heading plus the body text up to the next heading.
type Section struct {
	Level          HeadingLevel
	HeadingText    string
	Page           int
	DocumentID     string
	Body           string
	RelevanceScore float64 // in [0,1]
	Seq            int     // first-seen order within the document
}

// Query is the user intent a collection is ranked against.
type Query struct {
	PersonaRole string
	JobTask     string
}

// RankedSection is a Section with its collection-wide importance rank.
type RankedSection struct {
	Section
	ImportanceRank int // 1-based, dense
	DocumentIndex  int // position of the document in the collection descriptor
}

// RefinedSentence is the representative text chosen for a top-ranked section.
type RefinedSentence struct {
	DocumentID string
	Page       int
	Text       string
}
