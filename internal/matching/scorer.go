package matching

import (
	"math"
	"sort"

	"github.com/edualign/edualign/internal/catalog"
	"github.com/edualign/edualign/internal/student"
)

// DefaultAffinityWeight is the share of the composite score contributed by
// profile affinity. A tuning constant, not an invariant.
const DefaultAffinityWeight = 0.20

// ScoredCandidate pairs a candidate with its composite ranking score and
// the components it was blended from.
type ScoredCandidate struct {
	Record    *catalog.Record
	Composite float64
	Cosine    float64
	Affinity  float64
}

// ScoreAll blends weighted cosine similarity with profile affinity for
// every candidate that carries complete experience data. Candidates without
// experience data never appear in the output.
//
// The result is sorted descending by composite score, ties broken by
// ascending id. ScoreAll is a pure function of its inputs: scoring the same
// candidates in any order yields the same scores and the same final order.
func ScoreAll(candidates []*catalog.Record, norm, weights [student.DimensionCount]float64, affinities []float64, affinityWeight float64) []ScoredCandidate {
	var studentVec [student.DimensionCount]float64
	for i := range studentVec {
		studentVec[i] = norm[i] * weights[i]
	}

	out := make([]ScoredCandidate, 0, len(candidates))
	for i, candidate := range candidates {
		if candidate.Experience == nil {
			continue
		}

		var candidateVec [student.DimensionCount]float64
		for j := range candidateVec {
			candidateVec[j] = candidate.Experience[j] * weights[j]
		}

		cosine := cosineSimilarity(studentVec, candidateVec)
		affinity := 0.0
		if i < len(affinities) {
			affinity = affinities[i]
		}

		out = append(out, ScoredCandidate{
			Record:    candidate,
			Composite: (1-affinityWeight)*cosine + affinityWeight*affinity,
			Cosine:    cosine,
			Affinity:  affinity,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Composite != out[j].Composite {
			return out[i].Composite > out[j].Composite
		}
		return out[i].Record.ID < out[j].Record.ID
	})

	return out
}

// cosineSimilarity returns 0 when either vector is zero, which happens when
// a student rates every dimension at the minimum.
func cosineSimilarity(a, b [student.DimensionCount]float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
