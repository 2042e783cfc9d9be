// Package ingest turns documents on disk into ordered TextLine streams.
//
// Two sources exist: PDFSource reads PDF content streams through pdfcpu and
// JSONSource reads pre-extracted line records (*.lines.json). Both return
// every non-empty visual line top-to-bottom, pages ascending, with font
// sizes rounded to two decimals.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jackzampolin/docsift/internal/types"
)

// Extensions recognized by the default loader.
const (
	ExtPDF   = ".pdf"
	ExtLines = ".lines.json"
)

// Source reads one document into a line stream.
type Source interface {
	// Name identifies the source for logging.
	Name() string

	// Read returns the document's lines tagged with documentID.
	Read(ctx context.Context, path, documentID string) ([]types.TextLine, error)
}

// Loader dispatches documents to a Source by file extension.
type Loader struct {
	sources map[string]Source
	logger  *slog.Logger
}

// NewLoader returns a loader that understands PDFs and line-record files.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		sources: map[string]Source{
			ExtPDF:   NewPDFSource(),
			ExtLines: NewJSONSource(),
		},
		logger: logger,
	}
}

// Register adds or replaces the source for an extension.
func (l *Loader) Register(ext string, src Source) {
	l.sources[strings.ToLower(ext)] = src
}

// Supported reports whether path has an extension the loader can read.
func (l *Loader) Supported(path string) bool {
	_, ok := l.sourceFor(path)
	return ok
}

// Load reads the document at path. The document ID is the file's base name.
// A missing file yields an error wrapping types.ErrMissingCollateral.
func (l *Loader) Load(ctx context.Context, path string) ([]types.TextLine, error) {
	src, ok := l.sourceFor(path)
	if !ok {
		return nil, fmt.Errorf("unsupported document type: %s", filepath.Base(path))
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("document %s: %w", filepath.Base(path), types.ErrMissingCollateral)
		}
		return nil, fmt.Errorf("document %s: %w", filepath.Base(path), err)
	}

	docID := filepath.Base(path)
	l.logger.Debug("reading document", "document", docID, "source", src.Name())

	lines, err := src.Read(ctx, path, docID)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", docID, err)
	}
	return lines, nil
}

func (l *Loader) sourceFor(path string) (Source, bool) {
	lower := strings.ToLower(path)
	// Longest extension first so ".lines.json" wins over ".json".
	exts := make([]string, 0, len(l.sources))
	for ext := range l.sources {
		exts = append(exts, ext)
	}
	sort.Slice(exts, func(i, j int) bool { return len(exts[i]) > len(exts[j]) })
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return l.sources[ext], true
		}
	}
	return nil, false
}

// ListDocuments returns the supported documents directly inside dir, sorted
// by name with numeric suffixes in numeric order.
func (l *Loader) ListDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if l.Supported(p) {
			paths = append(paths, p)
		}
	}
	return sortDocumentsByNumber(paths), nil
}

var numericSuffix = regexp.MustCompile(`^(.*?)[-_ ]?(\d+)$`)

// sortDocumentsByNumber sorts paths so that "doc-2.pdf" precedes "doc-10.pdf".
// e.g., ["b-2.pdf", "b-10.pdf", "b-1.pdf", "a.pdf"] -> ["a.pdf", "b-1.pdf", "b-2.pdf", "b-10.pdf"]
func sortDocumentsByNumber(paths []string) []string {
	sorted := make([]string, len(paths))
	copy(sorted, paths)

	type key struct {
		stem string
		num  int
		has  bool
	}
	keyOf := func(p string) key {
		stem := BaseName(p)
		if m := numericSuffix.FindStringSubmatch(stem); m != nil {
			n, _ := strconv.Atoi(m[2])
			return key{stem: m[1], num: n, has: true}
		}
		return key{stem: stem}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		ki, kj := keyOf(sorted[i]), keyOf(sorted[j])
		if ki.stem != kj.stem {
			return ki.stem < kj.stem
		}
		// Files without numbers come first
		if ki.has != kj.has {
			return !ki.has
		}
		if ki.num != kj.num {
			return ki.num < kj.num
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}

// BaseName strips the directory and a recognized document extension.
// e.g., "/in/report.pdf" -> "report", "scan.lines.json" -> "scan"
func BaseName(path string) string {
	base := filepath.Base(path)
	lower := strings.ToLower(base)
	for _, ext := range []string{ExtLines, ExtPDF} {
		if strings.HasSuffix(lower, ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
