// Package outline turns an ordered stream of text lines into a document title,
// a heading outline and body sections using font-size heuristics.
//
// The pipeline is: Analyze (font statistics) -> DetectTitle -> Classifier ->
// Accumulator. Extract runs all four steps for one document.
package outline

import (
	"fmt"

	"github.com/jackzampolin/docsift/internal/types"
)

// Thresholds configures how heading thresholds derive from the largest font
// size in a document. The ratios are empirical and kept configurable.
type Thresholds struct {
	H1Ratio   float64 `mapstructure:"h1_ratio" yaml:"h1_ratio"`
	H2Ratio   float64 `mapstructure:"h2_ratio" yaml:"h2_ratio"`
	H3Ratio   float64 `mapstructure:"h3_ratio" yaml:"h3_ratio"`
	BodyFloor float64 `mapstructure:"body_floor" yaml:"body_floor"` // approximate body font size
}

// DefaultThresholds returns the ratios used when nothing is configured.
func DefaultThresholds() Thresholds {
	return Thresholds{
		H1Ratio:   0.90,
		H2Ratio:   0.75,
		H3Ratio:   0.60,
		BodyFloor: 10.0,
	}
}

// Validate reports whether every ratio and the body floor are positive.
func (t Thresholds) Validate() error {
	if t.H1Ratio <= 0 || t.H2Ratio <= 0 || t.H3Ratio <= 0 {
		return fmt.Errorf("heading ratios must be positive (h1=%v h2=%v h3=%v)", t.H1Ratio, t.H2Ratio, t.H3Ratio)
	}
	if t.BodyFloor <= 0 {
		return fmt.Errorf("body floor must be positive, got %v", t.BodyFloor)
	}
	return nil
}

// Derive computes the heading thresholds for a document whose largest font is
// maxFontSize. Each level is floored against the one below it, so the result
// is ordered H1 >= H2 >= H3 > 0 whenever BodyFloor is positive.
func (t Thresholds) Derive(maxFontSize float64) types.DocumentStatistics {
	h3 := max(maxFontSize*t.H3Ratio, t.BodyFloor*1.2)
	h2 := max(maxFontSize*t.H2Ratio, h3*1.15)
	h1 := max(maxFontSize*t.H1Ratio, h2*1.1)
	return types.DocumentStatistics{
		MaxFontSize: maxFontSize,
		H1:          h1,
		H2:          h2,
		H3:          h3,
	}
}

// Analyze computes document statistics in a single pass over lines.
// It returns types.ErrEmptyDocument when there are no lines.
func Analyze(lines []types.TextLine, t Thresholds) (types.DocumentStatistics, error) {
	if len(lines) == 0 {
		return types.DocumentStatistics{}, types.ErrEmptyDocument
	}
	maxFontSize := 0.0
	for _, line := range lines {
		if line.FontSize > maxFontSize {
			maxFontSize = line.FontSize
		}
	}
	return t.Derive(maxFontSize), nil
}
