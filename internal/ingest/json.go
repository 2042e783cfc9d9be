package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jackzampolin/docsift/internal/types"
)

// JSONSource reads line records produced by an external extractor. The file
// holds either a bare array of lines or an object with a "lines" array:
//
//	[{"text": "Introduction", "font_size": 16, "bold": true, "page": 1, "y_position": 72}]
type JSONSource struct{}

// NewJSONSource returns a line-record reader.
func NewJSONSource() *JSONSource {
	return &JSONSource{}
}

// Name returns the source identifier.
func (s *JSONSource) Name() string {
	return "lines-json"
}

// Read decodes and normalizes the line records at path.
func (s *JSONSource) Read(ctx context.Context, path, documentID string) ([]types.TextLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read line records: %w", err)
	}

	lines, err := decodeLines(data)
	if err != nil {
		return nil, err
	}
	return normalizeLines(lines, documentID), nil
}

func decodeLines(data []byte) ([]types.TextLine, error) {
	var lines []types.TextLine
	if err := json.Unmarshal(data, &lines); err == nil {
		return lines, nil
	}

	var wrapped struct {
		Lines []types.TextLine `json:"lines"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode line records: %w", err)
	}
	return wrapped.Lines, nil
}

var _ Source = (*JSONSource)(nil)
