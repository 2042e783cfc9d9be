package types

import (
	"encoding/json"
	"fmt"
)

// HeadingLevel orders headings by prominence: H1 < H2 < H3.
type HeadingLevel int

const (
	H1 HeadingLevel = iota + 1
	H2
	H3
)

// String returns "H1", "H2" or "H3".
func (l HeadingLevel) String() string {
	switch l {
	case H1:
		return "H1"
	case H2:
		return "H2"
	case H3:
		return "H3"
	default:
		return fmt.Sprintf("HeadingLevel(%d)", int(l))
	}
}

// ParseHeadingLevel converts "H1".."H3" to a HeadingLevel.
func ParseHeadingLevel(s string) (HeadingLevel, error) {
	switch s {
	case "H1":
		return H1, nil
	case "H2":
		return H2, nil
	case "H3":
		return H3, nil
	default:
		return 0, fmt.Errorf("unknown heading level: %q", s)
	}
}

// MarshalJSON encodes the level as its string form.
func (l HeadingLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes "H1".."H3".
func (l *HeadingLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseHeadingLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// MarshalYAML encodes the level as its string form.
func (l HeadingLevel) MarshalYAML() (any, error) {
	return l.String(), nil
}
