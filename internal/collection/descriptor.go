package collection

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/jackzampolin/docsift/internal/schema"
	"github.com/jackzampolin/docsift/internal/types"
)

// DescriptorFile is the name of the collection descriptor inside a
// collection directory.
const DescriptorFile = "challenge1b_input.json"

// Descriptor is a parsed collection descriptor.
type Descriptor struct {
	ChallengeInfo ChallengeInfo `json:"challenge_info"`
	Documents     []DocumentRef `json:"documents"`
	Persona       struct {
		Role string `json:"role"`
	} `json:"persona"`
	JobToBeDone struct {
		Task string `json:"task"`
	} `json:"job_to_be_done"`
}

// ChallengeInfo identifies the test case a collection belongs to.
type ChallengeInfo struct {
	ChallengeID  string `json:"challenge_id"`
	TestCaseName string `json:"test_case_name"`
	Description  string `json:"description,omitempty"`
}

// DocumentRef names one document of the collection.
type DocumentRef struct {
	Filename string `json:"filename"`
	Title    string `json:"title,omitempty"`
}

// LoadDescriptor reads and validates a descriptor. A missing file yields an
// error wrapping types.ErrMissingCollateral.
func LoadDescriptor(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("descriptor %s: %w", path, types.ErrMissingCollateral)
		}
		return nil, fmt.Errorf("failed to read descriptor: %w", err)
	}
	return ParseDescriptor(data)
}

// ParseDescriptor validates data against the collection input schema and
// decodes it.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	if err := schema.Validate(schema.CollectionInput, data); err != nil {
		return nil, err
	}
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode descriptor: %w", err)
	}
	return &d, nil
}

// Query returns the persona and job the collection is ranked against.
func (d *Descriptor) Query() types.Query {
	return types.Query{PersonaRole: d.Persona.Role, JobTask: d.JobToBeDone.Task}
}
