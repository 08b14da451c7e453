package matching

import (
	"reflect"
	"strings"
	"testing"

	"github.com/edualign/edualign/internal/catalog"
	"github.com/edualign/edualign/internal/student"
)

func fallbackFixture() ([]ScoredCandidate, [student.DimensionCount]float64) {
	scored := []ScoredCandidate{
		{
			Record: &catalog.Record{
				ID: 1, Name: "Alpha College", City: "Atlanta", State: "GA",
				Experience: &[student.DimensionCount]float64{0.9, 0.8, 0.7, 0.2, 0.3, 0.4, 0.5, 0.6},
			},
			Composite: 0.9,
		},
		{
			Record: &catalog.Record{
				ID: 2, Name: "Beta University", City: "Austin", State: "TX",
				Experience: &[student.DimensionCount]float64{0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.3, 0.2},
			},
			Composite: 0.6,
		},
		{
			Record: &catalog.Record{
				ID: 3, Name: "Gamma Institute", City: "Denver", State: "CO",
				Experience: &[student.DimensionCount]float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5},
			},
			Composite: 0.3,
		},
	}

	norm := [student.DimensionCount]float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}
	return scored, norm
}

func TestFallbackExplainStrengths(t *testing.T) {
	t.Parallel()

	scored, norm := fallbackFixture()
	results := NewFallbackExplainer(FallbackConfig{}).Explain(scored, norm, 3)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	// Alpha's three highest dimensions.
	expected := []string{"academic_intensity", "social_life", "inclusivity"}
	if !reflect.DeepEqual(results[0].Strengths, expected) {
		t.Fatalf("expected strengths %v, got %v", expected, results[0].Strengths)
	}

	for _, result := range results {
		if result.Explanation == "" {
			t.Fatalf("expected a non-empty explanation for %s", result.CollegeName)
		}
		if len(result.Strengths) != 3 {
			t.Fatalf("expected 3 strengths for %s, got %d", result.CollegeName, len(result.Strengths))
		}
	}
}

func TestFallbackExplainTradeoffs(t *testing.T) {
	t.Parallel()

	scored, norm := fallbackFixture()
	results := NewFallbackExplainer(FallbackConfig{}).Explain(scored, norm, 3)

	// Alpha trails 0.5 by more than 0.2 only on career_support (0.2).
	if !reflect.DeepEqual(results[0].Tradeoffs, []string{"career_support"}) {
		t.Fatalf("unexpected tradeoffs: %v", results[0].Tradeoffs)
	}
	if !strings.Contains(results[0].Explanation, "career support") {
		t.Fatalf("expected the widest gap in the sentence: %q", results[0].Explanation)
	}

	// Gamma sits exactly on the preference everywhere: no tradeoffs, and
	// the sentence still reads fine without the gap clause.
	if len(results[2].Tradeoffs) != 0 {
		t.Fatalf("expected no tradeoffs for Gamma, got %v", results[2].Tradeoffs)
	}
	if strings.Contains(results[2].Explanation, "Potential gap") {
		t.Fatalf("expected no gap clause: %q", results[2].Explanation)
	}
}

func TestFallbackExplainRescalesWindow(t *testing.T) {
	t.Parallel()

	scored, norm := fallbackFixture()
	results := NewFallbackExplainer(FallbackConfig{}).Explain(scored, norm, 3)

	if !almostEqual(results[0].SimilarityScore, DefaultScoreCeil) {
		t.Fatalf("top score should hit the ceiling, got %v", results[0].SimilarityScore)
	}
	if !almostEqual(results[2].SimilarityScore, DefaultScoreFloor) {
		t.Fatalf("bottom score should hit the floor, got %v", results[2].SimilarityScore)
	}
	if !almostEqual(results[1].SimilarityScore, 0.84) {
		t.Fatalf("middle score should interpolate to 0.84, got %v", results[1].SimilarityScore)
	}

	// The window excludes candidates beyond topN, so the rescale adapts.
	trimmed := NewFallbackExplainer(FallbackConfig{}).Explain(scored, norm, 2)
	if len(trimmed) != 2 {
		t.Fatalf("expected 2 results, got %d", len(trimmed))
	}
	if !almostEqual(trimmed[1].SimilarityScore, DefaultScoreFloor) {
		t.Fatalf("window bottom should hit the floor, got %v", trimmed[1].SimilarityScore)
	}
}

func TestFallbackExplainDegenerateWindow(t *testing.T) {
	t.Parallel()

	scored, norm := fallbackFixture()
	results := NewFallbackExplainer(FallbackConfig{}).Explain(scored[:1], norm, 4)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !almostEqual(results[0].SimilarityScore, DefaultScoreCeil) {
		t.Fatalf("a single-candidate window maps to the ceiling, got %v", results[0].SimilarityScore)
	}
}

func TestFallbackExplainDeterministicBySeed(t *testing.T) {
	t.Parallel()

	scored, norm := fallbackFixture()

	first := NewFallbackExplainer(FallbackConfig{Seed: 42}).Explain(scored, norm, 3)
	second := NewFallbackExplainer(FallbackConfig{Seed: 42}).Explain(scored, norm, 3)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same seed must produce identical output")
	}
}

func TestFallbackExplainZeroTopN(t *testing.T) {
	t.Parallel()

	scored, norm := fallbackFixture()
	if got := NewFallbackExplainer(FallbackConfig{}).Explain(scored, norm, 0); len(got) != 0 {
		t.Fatalf("expected no results for topN=0, got %d", len(got))
	}
}
