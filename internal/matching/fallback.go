package matching

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/edualign/edualign/internal/student"
)

// Presentation window for fallback scores. Raw composite scores are
// rescaled into it so fallback results remain visually comparable to
// externally generated ones. Tuning constants, not invariants.
const (
	DefaultScoreFloor = 0.70
	DefaultScoreCeil  = 0.98
)

// tradeoffMargin is how far a candidate dimension must trail the student's
// normalized preference before it counts as a tradeoff.
const tradeoffMargin = 0.2

const maxListedDimensions = 3

// FallbackConfig tunes the deterministic explainer. The seed feeds an
// explicit random source so template selection is reproducible in tests.
type FallbackConfig struct {
	Seed       int64
	ScoreFloor float64
	ScoreCeil  float64
}

// FallbackExplainer builds template-based explanations for composite-scored
// candidates without any external dependency. Construct one per request:
// the template sequence is a function of the seed alone.
type FallbackExplainer struct {
	rng   *rand.Rand
	floor float64
	ceil  float64
}

var fallbackTemplates = []string{
	"%s (%s) has a %.0f%% alignment with your preferences, led by %s.",
	"%s (%s) matches %.0f%% of what you said matters most, with %s standing out.",
	"%s (%s) scores a %.0f%% fit against your priorities; its strongest area is %s.",
}

func NewFallbackExplainer(cfg FallbackConfig) *FallbackExplainer {
	floor, ceil := cfg.ScoreFloor, cfg.ScoreCeil
	if floor <= 0 && ceil <= 0 {
		floor, ceil = DefaultScoreFloor, DefaultScoreCeil
	}
	if ceil < floor {
		ceil = floor
	}

	return &FallbackExplainer{
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		floor: floor,
		ceil:  ceil,
	}
}

// Explain returns up to topN results for the highest-scored candidates. The
// input must already be sorted by ScoreAll. It never fails on missing
// optional parts; a candidate without tradeoffs just gets a shorter
// sentence.
func (f *FallbackExplainer) Explain(scored []ScoredCandidate, norm [student.DimensionCount]float64, topN int) []Result {
	if topN <= 0 {
		return []Result{}
	}

	window := scored
	if len(window) > topN {
		window = window[:topN]
	}

	presented := rescale(window, f.floor, f.ceil)

	results := make([]Result, 0, len(window))
	for i, candidate := range window {
		strengths := topDimensions(candidate.Record.Experience)
		tradeoffs, weakest := trailingDimensions(candidate.Record.Experience, norm)

		results = append(results, Result{
			ID:              candidate.Record.ID,
			CollegeName:     candidate.Record.Name,
			SimilarityScore: presented[i],
			Explanation:     f.sentence(candidate, presented[i], strengths, weakest),
			Strengths:       strengths,
			Tradeoffs:       tradeoffs,
			Dimensions:      candidate.Record.DimensionMap(),
		})
	}

	return results
}

func (f *FallbackExplainer) sentence(candidate ScoredCandidate, score float64, strengths []string, weakest string) string {
	place := strings.TrimSpace(candidate.Record.City)
	if place == "" {
		place = candidate.Record.State
	} else if candidate.Record.State != "" {
		place = place + ", " + candidate.Record.State
	}

	strongest := "overall fit"
	if len(strengths) > 0 {
		strongest = student.Label(strengths[0])
	}

	template := fallbackTemplates[f.rng.Intn(len(fallbackTemplates))]
	text := fmt.Sprintf(template, candidate.Record.Name, place, score*100, strongest)

	if weakest != "" {
		text += fmt.Sprintf(" Potential gap: %s.", student.Label(weakest))
	}

	return text
}

// topDimensions returns the candidate's three highest-valued dimensions,
// ties broken by canonical dimension order.
func topDimensions(experience *[student.DimensionCount]float64) []string {
	if experience == nil {
		return []string{}
	}

	order := make([]int, student.DimensionCount)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return experience[order[a]] > experience[order[b]]
	})

	out := make([]string, 0, maxListedDimensions)
	for _, i := range order[:maxListedDimensions] {
		out = append(out, student.Dimensions[i])
	}
	return out
}

// trailingDimensions returns dimensions where the candidate trails the
// student's normalized preference by more than the margin, in canonical
// order, plus the single widest gap for the explanation sentence.
func trailingDimensions(experience *[student.DimensionCount]float64, norm [student.DimensionCount]float64) ([]string, string) {
	out := []string{}
	if experience == nil {
		return out, ""
	}

	weakest := ""
	widest := 0.0
	for i, dim := range student.Dimensions {
		gap := norm[i] - experience[i]
		if gap <= tradeoffMargin {
			continue
		}
		if len(out) < maxListedDimensions {
			out = append(out, dim)
		}
		if gap > widest {
			widest = gap
			weakest = dim
		}
	}

	return out, weakest
}

// rescale maps the window's raw composite scores onto [floor, ceil] with a
// min-max transform. The transform is monotonic, so ranking order is
// unchanged; a degenerate window (one candidate, or all scores equal) maps
// to the ceiling.
func rescale(window []ScoredCandidate, floor, ceil float64) []float64 {
	out := make([]float64, len(window))
	if len(window) == 0 {
		return out
	}

	lowest, highest := window[0].Composite, window[0].Composite
	for _, candidate := range window[1:] {
		if candidate.Composite < lowest {
			lowest = candidate.Composite
		}
		if candidate.Composite > highest {
			highest = candidate.Composite
		}
	}

	span := highest - lowest
	for i, candidate := range window {
		if span == 0 {
			out[i] = ceil
			continue
		}
		out[i] = floor + (candidate.Composite-lowest)/span*(ceil-floor)
	}

	return out
}
