// Package schema embeds the JSON Schemas for the collection descriptor and
// the documents docsift writes, and validates payloads against them.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Schema names.
const (
	CollectionInput  = "collection_input"
	OutlineOutput    = "outline_output"
	CollectionOutput = "collection_output"
)

// Schema is one embedded JSON Schema document.
type Schema struct {
	Name string
	Raw  []byte
}

var registry = []string{CollectionInput, OutlineOutput, CollectionOutput}

var (
	compileOnce sync.Once
	compiled    map[string]*jsonschema.Schema
	compileErr  error
)

// All returns every embedded schema sorted by name.
func All() ([]Schema, error) {
	schemas := make([]Schema, 0, len(registry))
	for _, name := range registry {
		s, err := Get(name)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, *s)
	}
	sort.Slice(schemas, func(i, j int) bool {
		return schemas[i].Name < schemas[j].Name
	})
	return schemas, nil
}

// Get returns a single schema by name.
func Get(name string) (*Schema, error) {
	for _, n := range registry {
		if n != name {
			continue
		}
		content, err := schemaFS.ReadFile(filename(name))
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
		}
		return &Schema{Name: name, Raw: content}, nil
	}
	return nil, fmt.Errorf("schema not found: %s", name)
}

// Validate checks a JSON document against the named schema.
func Validate(name string, data []byte) error {
	schemas, err := compileAll()
	if err != nil {
		return err
	}
	s, ok := schemas[name]
	if !ok {
		return fmt.Errorf("schema not found: %s", name)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode %s document: %w", name, err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("document does not match %s schema: %w", name, err)
	}
	return nil
}

// ValidateValue marshals v and validates it against the named schema.
func ValidateValue(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s document: %w", name, err)
	}
	return Validate(name, data)
}

func compileAll() (map[string]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		for _, name := range registry {
			content, err := schemaFS.ReadFile(filename(name))
			if err != nil {
				compileErr = fmt.Errorf("failed to read schema %s: %w", name, err)
				return
			}
			if err := compiler.AddResource(filename(name), bytes.NewReader(content)); err != nil {
				compileErr = fmt.Errorf("failed to load schema %s: %w", name, err)
				return
			}
		}

		compiled = make(map[string]*jsonschema.Schema, len(registry))
		for _, name := range registry {
			s, err := compiler.Compile(filename(name))
			if err != nil {
				compileErr = fmt.Errorf("failed to compile schema %s: %w", name, err)
				return
			}
			compiled[name] = s
		}
	})
	return compiled, compileErr
}

func filename(name string) string {
	return fmt.Sprintf("schemas/%s.json", name)
}
