package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/jackzampolin/docsift/internal/outline"
	"github.com/jackzampolin/docsift/internal/providers"
	"github.com/jackzampolin/docsift/internal/relevance"
	"github.com/jackzampolin/docsift/internal/types"
)

type lineRecord struct {
	Text     string  `json:"text"`
	FontSize float64 `json:"font_size"`
	Bold     bool    `json:"bold"`
	Page     int     `json:"page"`
	Y        float64 `json:"y_position"`
}

var franceLines = []lineRecord{
	{"Guide to France", 20, true, 1, 50},
	{"Planning Your Trip", 16, true, 1, 100},
	{"Plan your trip to France early. France trip planning requires a visa.", 10, false, 1, 120},
	{"Local Cuisine", 16, true, 2, 50},
	{"The bakeries sell fresh bread every morning for everyone.", 10, false, 2, 70},
}

func writeLines(t *testing.T, path string, lines []lineRecord) {
	t.Helper()
	data, err := json.Marshal(lines)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func testDescriptor(files ...string) *Descriptor {
	d := &Descriptor{ChallengeInfo: ChallengeInfo{ChallengeID: "round_1b_001", TestCaseName: "travel"}}
	d.Persona.Role = "Travel Planner"
	d.JobToBeDone.Task = "Plan a trip to France"
	for _, f := range files {
		d.Documents = append(d.Documents, DocumentRef{Filename: f})
	}
	return d
}

var fixedNow = func() time.Time {
	return time.Date(2025, 7, 10, 15, 30, 0, 0, time.UTC)
}

func newTestAnalyzer(cfg Config) *Analyzer {
	if cfg.Thresholds == (outline.Thresholds{}) {
		cfg.Thresholds = outline.DefaultThresholds()
	}
	if cfg.Scoring == (relevance.Config{}) {
		cfg.Scoring = relevance.DefaultConfig()
	}
	cfg.Workers = 4
	cfg.Now = fixedNow
	return NewAnalyzer(cfg)
}

func TestAnalyze(t *testing.T) {
	dir := t.TempDir()
	writeLines(t, filepath.Join(dir, "france.lines.json"), franceLines)
	writeLines(t, filepath.Join(dir, "empty.lines.json"), nil)
	if err := os.WriteFile(filepath.Join(dir, "broken.lines.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	desc := testDescriptor("france.lines.json", "missing.pdf", "empty.lines.json", "broken.lines.json")
	a := newTestAnalyzer(Config{})

	result, err := a.Analyze(context.Background(), "Collection_1", desc, dir)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	t.Run("missing documents are not listed", func(t *testing.T) {
		want := []string{"france.lines.json", "empty.lines.json", "broken.lines.json"}
		if !reflect.DeepEqual(result.Metadata.InputDocuments, want) {
			t.Errorf("input_documents = %v, want %v", result.Metadata.InputDocuments, want)
		}
	})

	t.Run("metadata", func(t *testing.T) {
		if result.Metadata.Persona != "Travel Planner" || result.Metadata.JobToBeDone != "Plan a trip to France" {
			t.Errorf("unexpected metadata: %+v", result.Metadata)
		}
		if result.Metadata.ProcessingTimestamp != "2025-07-10T15:30:00Z" {
			t.Errorf("timestamp = %q", result.Metadata.ProcessingTimestamp)
		}
	})

	t.Run("sections ranked across documents", func(t *testing.T) {
		if len(result.ExtractedSections) != 2 {
			t.Fatalf("expected 2 sections, got %+v", result.ExtractedSections)
		}
		first, second := result.ExtractedSections[0], result.ExtractedSections[1]
		if first.SectionTitle != "Planning Your Trip" || first.ImportanceRank != 1 || first.PageNumber != 1 {
			t.Errorf("unexpected first section: %+v", first)
		}
		if second.SectionTitle != "Local Cuisine" || second.ImportanceRank != 2 || second.PageNumber != 2 {
			t.Errorf("unexpected second section: %+v", second)
		}
		if first.Document != "france.lines.json" {
			t.Errorf("document = %q", first.Document)
		}
	})

	t.Run("only relevant sections are refined", func(t *testing.T) {
		if len(result.SubsectionAnalysis) != 1 {
			t.Fatalf("expected 1 refined section, got %+v", result.SubsectionAnalysis)
		}
		got := result.SubsectionAnalysis[0]
		want := "Plan your trip to France early. France trip planning requires a visa."
		if got.RefinedText != want || got.PageNumber != 1 {
			t.Errorf("refined = %+v", got)
		}
	})
}

func TestAnalyze_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writeLines(t, filepath.Join(dir, "a.lines.json"), franceLines)
	writeLines(t, filepath.Join(dir, "b.lines.json"), franceLines)
	desc := testDescriptor("a.lines.json", "b.lines.json")

	a := newTestAnalyzer(Config{})
	first, err := a.Analyze(context.Background(), "Collection_1", desc, dir)
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Analyze(context.Background(), "Collection_1", desc, dir)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("runs differ:\n%+v\n%+v", first, second)
	}

	// Equal scores tie-break by descriptor order.
	if first.ExtractedSections[0].Document != "a.lines.json" || first.ExtractedSections[1].Document != "b.lines.json" {
		t.Errorf("unexpected tie order: %+v", first.ExtractedSections)
	}
}

func TestAnalyze_TopKBound(t *testing.T) {
	dir := t.TempDir()

	lines := []lineRecord{{"Guide to France", 20, true, 1, 10}}
	for i := 0; i < 12; i++ {
		y := float64(20 + i*40)
		lines = append(lines,
			lineRecord{fmt.Sprintf("Trip Section %d", i+1), 16, true, 1, y},
			lineRecord{"Plan your trip to France with this section.", 10, false, 1, y + 20},
		)
	}
	writeLines(t, filepath.Join(dir, "many.lines.json"), lines)

	a := newTestAnalyzer(Config{})
	result, err := a.Analyze(context.Background(), "Collection_1", testDescriptor("many.lines.json"), dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.ExtractedSections) != 12 {
		t.Errorf("expected all 12 sections, got %d", len(result.ExtractedSections))
	}
	if len(result.SubsectionAnalysis) != 10 {
		t.Errorf("expected 10 refined sections, got %d", len(result.SubsectionAnalysis))
	}
	for i, s := range result.ExtractedSections {
		if s.ImportanceRank != i+1 {
			t.Errorf("rank %d at position %d", s.ImportanceRank, i)
		}
	}
}

func TestAnalyze_Embedder(t *testing.T) {
	dir := t.TempDir()
	writeLines(t, filepath.Join(dir, "france.lines.json"), franceLines)
	desc := testDescriptor("france.lines.json")

	t.Run("healthy embedder is used", func(t *testing.T) {
		mock := providers.NewMockEmbedder()
		a := newTestAnalyzer(Config{Embedder: mock, ReadyAttempts: 1})
		result, err := a.Analyze(context.Background(), "Collection_1", desc, dir)
		if err != nil {
			t.Fatal(err)
		}
		if mock.RequestCount() == 0 {
			t.Error("embedder was never called")
		}
		if len(result.ExtractedSections) != 2 {
			t.Errorf("expected 2 sections, got %d", len(result.ExtractedSections))
		}
	})

	t.Run("unhealthy embedder falls back", func(t *testing.T) {
		mock := &providers.MockEmbedder{Dimensions: 64, Unhealthy: true}
		a := newTestAnalyzer(Config{Embedder: mock, ReadyAttempts: 2, ReadyDelay: time.Millisecond})
		result, err := a.Analyze(context.Background(), "Collection_1", desc, dir)
		if err != nil {
			t.Fatal(err)
		}
		if mock.RequestCount() != 0 {
			t.Error("unhealthy embedder should not be asked for vectors")
		}
		if result.ExtractedSections[0].SectionTitle != "Planning Your Trip" {
			t.Errorf("token overlap ranking expected, got %+v", result.ExtractedSections)
		}
	})
}

func TestAnalyze_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeLines(t, filepath.Join(dir, "france.lines.json"), franceLines)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := newTestAnalyzer(Config{})
	if _, err := a.Analyze(ctx, "Collection_1", testDescriptor("france.lines.json"), dir); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLoadDescriptor(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		path := filepath.Join(dir, "valid.json")
		data := `{
			"challenge_info": {"challenge_id": "round_1b_002", "test_case_name": "travel_planner"},
			"documents": [{"filename": "South of France - Cities.pdf", "title": "Cities"}],
			"persona": {"role": "Travel Planner"},
			"job_to_be_done": {"task": "Plan a trip of 4 days for a group of 10 college friends."}
		}`
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
		d, err := LoadDescriptor(path)
		if err != nil {
			t.Fatalf("LoadDescriptor() error = %v", err)
		}
		if d.ChallengeInfo.ChallengeID != "round_1b_002" || len(d.Documents) != 1 {
			t.Errorf("unexpected descriptor: %+v", d)
		}
		q := d.Query()
		if q.PersonaRole != "Travel Planner" || q.JobTask == "" {
			t.Errorf("unexpected query: %+v", q)
		}
	})

	t.Run("missing", func(t *testing.T) {
		_, err := LoadDescriptor(filepath.Join(dir, "nope.json"))
		if !errors.Is(err, types.ErrMissingCollateral) {
			t.Errorf("expected ErrMissingCollateral, got %v", err)
		}
	})

	t.Run("schema violation", func(t *testing.T) {
		_, err := ParseDescriptor([]byte(`{"documents": [], "persona": {}}`))
		if err == nil {
			t.Error("expected validation error")
		}
	})
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"Collection_2", "Collection_1", "notes"} {
		if err := os.MkdirAll(filepath.Join(root, name), 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "Collection_3"), []byte("file"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(got) != 2 || got[0].Name != "Collection_1" || got[1].Name != "Collection_2" {
		t.Fatalf("unexpected collections: %+v", got)
	}
	c := got[0]
	if c.DescriptorPath != filepath.Join(root, "Collection_1", DescriptorFile) {
		t.Errorf("descriptor path = %s", c.DescriptorPath)
	}
	if c.DocumentsDir != filepath.Join(root, "Collection_1", DocumentsDir) {
		t.Errorf("documents dir = %s", c.DocumentsDir)
	}
	if out := c.OutputPath("/out"); out != filepath.Join("/out", "Collection_1", OutputFile) {
		t.Errorf("output path = %s", out)
	}

	if _, err := Discover(filepath.Join(root, "absent")); err == nil {
		t.Error("expected error for missing root")
	}
}
