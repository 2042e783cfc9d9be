package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackzampolin/docsift/internal/types"
)

func TestSortDocumentsByNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "already sorted",
			input:    []string{"book-1.pdf", "book-2.pdf", "book-3.pdf"},
			expected: []string{"book-1.pdf", "book-2.pdf", "book-3.pdf"},
		},
		{
			name:     "reverse order",
			input:    []string{"book-3.pdf", "book-2.pdf", "book-1.pdf"},
			expected: []string{"book-1.pdf", "book-2.pdf", "book-3.pdf"},
		},
		{
			name:     "mixed with double digits",
			input:    []string{"book-10.pdf", "book-2.pdf", "book-1.pdf"},
			expected: []string{"book-1.pdf", "book-2.pdf", "book-10.pdf"},
		},
		{
			name:     "numbered and unnumbered",
			input:    []string{"book-2.pdf", "book.pdf", "book-1.pdf"},
			expected: []string{"book.pdf", "book-1.pdf", "book-2.pdf"},
		},
		{
			name:     "different stems",
			input:    []string{"zeta.pdf", "alpha-2.lines.json", "alpha-1.pdf"},
			expected: []string{"alpha-1.pdf", "alpha-2.lines.json", "zeta.pdf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sortDocumentsByNumber(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("length mismatch: got %d, want %d", len(result), len(tt.expected))
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("index %d: got %q, want %q", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/path/to/report.pdf", "report"},
		{"/path/to/REPORT.PDF", "REPORT"},
		{"scan.lines.json", "scan"},
		{"notes.txt", "notes"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := BaseName(tt.input); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNormalizeLines(t *testing.T) {
	in := []types.TextLine{
		{Text: "  second page  ", FontSize: 11.999, Page: 2, Y: 10},
		{Text: "   ", FontSize: 12, Page: 1, Y: 5},
		{Text: "Café", FontSize: 12.004, Page: 1, Y: 50.126},
		{Text: "top", FontSize: 14, Page: 1, Y: 20},
		{Text: "no page", FontSize: 10, Page: 0, Y: 90},
	}

	got := normalizeLines(in, "doc.pdf")
	want := []types.TextLine{
		{Text: "top", FontSize: 14, Page: 1, Y: 20, DocumentID: "doc.pdf"},
		{Text: "Café", FontSize: 12, Page: 1, Y: 50.13, DocumentID: "doc.pdf"},
		{Text: "no page", FontSize: 10, Page: 1, Y: 90, DocumentID: "doc.pdf"},
		{Text: "second page", FontSize: 12, Page: 2, Y: 10, DocumentID: "doc.pdf"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestJSONSource(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	t.Run("bare array", func(t *testing.T) {
		path := filepath.Join(dir, "a.lines.json")
		data := `[{"text":"Body","font_size":10,"page":1,"y_position":100},
			{"text":"Heading","font_size":18,"bold":true,"page":1,"y_position":40}]`
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}

		lines, err := NewJSONSource().Read(ctx, path, "a.lines.json")
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if len(lines) != 2 || lines[0].Text != "Heading" || !lines[0].Bold {
			t.Fatalf("unexpected lines: %+v", lines)
		}
		if lines[1].DocumentID != "a.lines.json" {
			t.Errorf("document id = %q", lines[1].DocumentID)
		}
	})

	t.Run("wrapped object", func(t *testing.T) {
		path := filepath.Join(dir, "b.lines.json")
		if err := os.WriteFile(path, []byte(`{"lines":[{"text":"Only","font_size":12,"page":3}]}`), 0o644); err != nil {
			t.Fatal(err)
		}
		lines, err := NewJSONSource().Read(ctx, path, "b")
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if len(lines) != 1 || lines[0].Page != 3 {
			t.Fatalf("unexpected lines: %+v", lines)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(dir, "bad.lines.json")
		if err := os.WriteFile(path, []byte(`{"lines":`), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewJSONSource().Read(ctx, path, "bad"); err == nil {
			t.Fatal("expected decode error")
		}
	})
}

func TestLoader(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	loader := NewLoader(nil)

	linesPath := filepath.Join(dir, "doc-1.lines.json")
	if err := os.WriteFile(linesPath, []byte(`[{"text":"Hello","font_size":12,"page":1}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.pdf"), []byte("not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("load by extension", func(t *testing.T) {
		lines, err := loader.Load(ctx, linesPath)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(lines) != 1 || lines[0].DocumentID != "doc-1.lines.json" {
			t.Fatalf("unexpected lines: %+v", lines)
		}
	})

	t.Run("missing document", func(t *testing.T) {
		_, err := loader.Load(ctx, filepath.Join(dir, "absent.pdf"))
		if !errors.Is(err, types.ErrMissingCollateral) {
			t.Fatalf("expected ErrMissingCollateral, got %v", err)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		if _, err := loader.Load(ctx, filepath.Join(dir, "notes.txt")); err == nil {
			t.Fatal("expected error for unsupported type")
		}
	})

	t.Run("corrupt pdf", func(t *testing.T) {
		_, err := loader.Load(ctx, filepath.Join(dir, "broken.pdf"))
		if err == nil {
			t.Fatal("expected parse error")
		}
		if errors.Is(err, types.ErrMissingCollateral) {
			t.Fatal("corrupt file is not missing collateral")
		}
	})

	t.Run("list documents", func(t *testing.T) {
		docs, err := loader.ListDocuments(dir)
		if err != nil {
			t.Fatalf("ListDocuments() error = %v", err)
		}
		if len(docs) != 2 {
			t.Fatalf("expected 2 documents, got %v", docs)
		}
		if filepath.Base(docs[0]) != "broken.pdf" || filepath.Base(docs[1]) != "doc-1.lines.json" {
			t.Errorf("unexpected order: %v", docs)
		}
	})
}
