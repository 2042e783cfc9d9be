package output

import (
	"time"

	"github.com/jackzampolin/docsift/internal/textutil"
	"github.com/jackzampolin/docsift/internal/types"
)

// CollectionResult is the per-collection analysis document.
type CollectionResult struct {
	Metadata           Metadata             `json:"metadata" yaml:"metadata"`
	ExtractedSections  []ExtractedSection   `json:"extracted_sections" yaml:"extracted_sections"`
	SubsectionAnalysis []SubsectionAnalysis `json:"subsection_analysis" yaml:"subsection_analysis"`
}

// Metadata describes the inputs of an analysis.
type Metadata struct {
	InputDocuments      []string `json:"input_documents" yaml:"input_documents"`
	Persona             string   `json:"persona" yaml:"persona"`
	JobToBeDone         string   `json:"job_to_be_done" yaml:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp" yaml:"processing_timestamp"`
}

// ExtractedSection is one ranked section.
type ExtractedSection struct {
	Document       string `json:"document" yaml:"document"`
	SectionTitle   string `json:"section_title" yaml:"section_title"`
	ImportanceRank int    `json:"importance_rank" yaml:"importance_rank"`
	PageNumber     int    `json:"page_number" yaml:"page_number"`
}

// SubsectionAnalysis is the refined text of a top-ranked section.
type SubsectionAnalysis struct {
	Document    string `json:"document" yaml:"document"`
	RefinedText string `json:"refined_text" yaml:"refined_text"`
	PageNumber  int    `json:"page_number" yaml:"page_number"`
}

// AssembleCollection builds the analysis document from ranked sections in
// rank order and their refined sentences. Section titles are cleaned of list
// markers. The timestamp is the only field that differs between runs over
// the same input.
func AssembleCollection(inputDocuments []string, query types.Query, ranked []types.RankedSection, refined []types.RefinedSentence, now time.Time) CollectionResult {
	docs := make([]string, len(inputDocuments))
	copy(docs, inputDocuments)

	out := CollectionResult{
		Metadata: Metadata{
			InputDocuments:      docs,
			Persona:             query.PersonaRole,
			JobToBeDone:         query.JobTask,
			ProcessingTimestamp: now.Format(time.RFC3339Nano),
		},
		ExtractedSections:  make([]ExtractedSection, 0, len(ranked)),
		SubsectionAnalysis: make([]SubsectionAnalysis, 0, len(refined)),
	}

	for _, r := range ranked {
		out.ExtractedSections = append(out.ExtractedSections, ExtractedSection{
			Document:       r.DocumentID,
			SectionTitle:   textutil.CleanText(r.HeadingText),
			ImportanceRank: r.ImportanceRank,
			PageNumber:     r.Page,
		})
	}
	for _, s := range refined {
		out.SubsectionAnalysis = append(out.SubsectionAnalysis, SubsectionAnalysis{
			Document:    s.DocumentID,
			RefinedText: s.Text,
			PageNumber:  s.Page,
		})
	}
	return out
}
