package collection

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// DirPrefix marks collection directories under an input root.
	DirPrefix = "Collection_"

	// DocumentsDir holds a collection's documents.
	DocumentsDir = "PDFs"

	// OutputFile is the analysis file written per collection.
	OutputFile = "challenge1b_output.json"
)

// Collection is one collection directory found under an input root.
type Collection struct {
	Name           string
	Dir            string
	DescriptorPath string
	DocumentsDir   string
}

// OutputPath returns where the collection's analysis goes under outputRoot.
func (c Collection) OutputPath(outputRoot string) string {
	return filepath.Join(outputRoot, c.Name, OutputFile)
}

// Discover returns the collection directories directly under root, sorted
// by name. Other entries are ignored.
func Discover(root string) ([]Collection, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections in %s: %w", root, err)
	}

	var collections []Collection
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), DirPrefix) {
			continue
		}
		dir := filepath.Join(root, e.Name())
		collections = append(collections, Collection{
			Name:           e.Name(),
			Dir:            dir,
			DescriptorPath: filepath.Join(dir, DescriptorFile),
			DocumentsDir:   filepath.Join(dir, DocumentsDir),
		})
	}
	sort.Slice(collections, func(i, j int) bool {
		return collections[i].Name < collections[j].Name
	})
	return collections, nil
}
