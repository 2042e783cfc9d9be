package relevance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/jackzampolin/docsift/internal/types"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// tableEmbedder returns fixed vectors and fails for unknown texts.
type tableEmbedder map[string][]float32

func (e tableEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec, ok := e[text]
	if !ok {
		return nil, fmt.Errorf("no vector for %q", text)
	}
	return vec, nil
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Plan a trip to France!")
	for _, want := range []string{"plan", "trip", "france"} {
		if _, ok := got[want]; !ok {
			t.Errorf("Tokenize missing %q, got %v", want, got)
		}
	}
	for _, unwanted := range []string{"a", "to", "france!"} {
		if _, ok := got[unwanted]; ok {
			t.Errorf("Tokenize kept %q", unwanted)
		}
	}
}

func TestTokenOverlap(t *testing.T) {
	ctx := context.Background()

	t.Run("trip to france", func(t *testing.T) {
		c, err := NewTokenOverlapProvider().Against(ctx, "plan a trip to France")
		if err != nil {
			t.Fatalf("Against: %v", err)
		}
		score, err := c.Compare(ctx, "France trip planning requires a visa.")
		if err != nil {
			t.Fatalf("Compare: %v", err)
		}
		// {france, trip} of {france, trip, planning, requires, visa}
		if !approx(score, 0.4) {
			t.Errorf("score = %v, want 0.4", score)
		}
	})

	t.Run("no qualifying tokens", func(t *testing.T) {
		c, _ := NewTokenOverlapProvider().Against(ctx, "plan a trip")
		score, err := c.Compare(ctx, "a to of")
		if err != nil || score != 0 {
			t.Errorf("Compare = %v, %v; want 0, nil", score, err)
		}
	})

	t.Run("empty reference", func(t *testing.T) {
		c, _ := NewTokenOverlapProvider().Against(ctx, "")
		score, _ := c.Compare(ctx, "anything goes here")
		if score != 0 {
			t.Errorf("score = %v, want 0", score)
		}
	})
}

func TestVectorProvider(t *testing.T) {
	ctx := context.Background()
	emb := tableEmbedder{
		"ref":      {1, 0},
		"same":     {2, 0},
		"opposite": {-1, 0},
		"diagonal": {1, 1},
		"zero":     {0, 0},
		"wide":     {1, 0, 0},
	}
	p := NewVectorProvider(emb)

	c, err := p.Against(ctx, "ref")
	if err != nil {
		t.Fatalf("Against: %v", err)
	}

	tests := []struct {
		text        string
		want        float64
		unavailable bool
	}{
		{text: "same", want: 1},
		{text: "opposite", want: 0},
		{text: "diagonal", want: 1 / math.Sqrt2},
		{text: "zero", unavailable: true},
		{text: "wide", unavailable: true},
		{text: "unknown", unavailable: true},
		{text: "   ", unavailable: true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := c.Compare(ctx, tt.text)
			if tt.unavailable {
				if !errors.Is(err, types.ErrSimilarityUnavailable) {
					t.Fatalf("err = %v, want ErrSimilarityUnavailable", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Compare: %v", err)
			}
			if !approx(got, tt.want) {
				t.Errorf("Compare = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := p.Against(ctx, "zero"); !errors.Is(err, types.ErrSimilarityUnavailable) {
		t.Errorf("Against(zero) err = %v, want ErrSimilarityUnavailable", err)
	}
}

func TestScorer(t *testing.T) {
	ctx := context.Background()
	query := types.Query{PersonaRole: "persona", JobTask: "job"}
	emb := tableEmbedder{
		"job":     {1, 0},
		"persona": {0, 1},
		"jobby":   {1, 0},
		"both":    {1, 1},
		"against": {-1, -1},
	}

	t.Run("vector variant", func(t *testing.T) {
		s := NewScorer(ctx, NewVectorProvider(emb), query, DefaultConfig(), nil)
		if s.Variant() != VariantVector {
			t.Fatalf("variant = %s, want vector", s.Variant())
		}
		cases := map[string]float64{
			"jobby":   0.7,
			"both":    (0.7 + 0.3) / math.Sqrt2,
			"against": 0,
			"missing": 0, // both terms unavailable
		}
		for body, want := range cases {
			if got := s.Score(ctx, body); !approx(got, want) {
				t.Errorf("Score(%q) = %v, want %v", body, got, want)
			}
		}
	})

	t.Run("falls back when query cannot be embedded", func(t *testing.T) {
		broken := tableEmbedder{"persona": {0, 1}}
		s := NewScorer(ctx, NewVectorProvider(broken), query, DefaultConfig(), nil)
		if s.Variant() != VariantTokenOverlap {
			t.Fatalf("variant = %s, want token_overlap", s.Variant())
		}
	})

	t.Run("no provider", func(t *testing.T) {
		q := types.Query{PersonaRole: "Travel Planner", JobTask: "plan a trip to France"}
		s := NewScorer(ctx, nil, q, DefaultConfig(), nil)
		if s.Variant() != VariantTokenOverlap {
			t.Fatalf("variant = %s, want token_overlap", s.Variant())
		}
		got := s.Score(ctx, "France trip planning requires a visa.")
		if got <= 0 || got > 1 {
			t.Errorf("Score = %v, want in (0,1]", got)
		}
	})

	t.Run("ScoreSections keeps inputs", func(t *testing.T) {
		s := NewScorer(ctx, NewVectorProvider(emb), query, DefaultConfig(), nil)
		in := []types.Section{{Body: "jobby"}, {Body: "against"}}
		out := s.ScoreSections(ctx, in)
		if in[0].RelevanceScore != 0 {
			t.Error("input section mutated")
		}
		if !approx(out[0].RelevanceScore, 0.7) || out[1].RelevanceScore != 0 {
			t.Errorf("scores = %v, %v", out[0].RelevanceScore, out[1].RelevanceScore)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cfg := DefaultConfig()
	cfg.JobWeight = 0.9
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for weights summing above 1")
	}

	cfg = DefaultConfig()
	cfg.PersonaWeight = -0.1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative weight")
	}

	cfg = DefaultConfig()
	cfg.TopK = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative top_k")
	}

	if DefaultConfig().SentenceThreshold(VariantVector) != 0.3 {
		t.Error("vector threshold should be 0.3")
	}
	if DefaultConfig().SentenceThreshold(VariantTokenOverlap) != 0.1 {
		t.Error("token threshold should be 0.1")
	}
}

func TestRank(t *testing.T) {
	in := []types.RankedSection{
		{Section: types.Section{HeadingText: "b-p2", Page: 2, Seq: 0, RelevanceScore: 0.5}, DocumentIndex: 1},
		{Section: types.Section{HeadingText: "a-p3", Page: 3, Seq: 2, RelevanceScore: 0.5}, DocumentIndex: 0},
		{Section: types.Section{HeadingText: "top", Page: 9, Seq: 5, RelevanceScore: 0.9}, DocumentIndex: 1},
		{Section: types.Section{HeadingText: "a-p1-late", Page: 1, Seq: 1, RelevanceScore: 0.5}, DocumentIndex: 0},
		{Section: types.Section{HeadingText: "a-p1-early", Page: 1, Seq: 0, RelevanceScore: 0.5}, DocumentIndex: 0},
	}

	got := Rank(in)
	want := []string{"top", "a-p1-early", "a-p1-late", "a-p3", "b-p2"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].HeadingText != w {
			t.Errorf("rank %d = %q, want %q", i+1, got[i].HeadingText, w)
		}
		if got[i].ImportanceRank != i+1 {
			t.Errorf("%q rank = %d, want %d", w, got[i].ImportanceRank, i+1)
		}
	}
	if in[0].ImportanceRank != 0 {
		t.Error("input mutated")
	}
	if len(Rank(nil)) != 0 {
		t.Error("Rank(nil) should be empty")
	}
}
