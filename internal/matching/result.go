// Package matching implements the ranking pipeline: preference
// normalization, composite similarity scoring, shortlist selection, the
// retry/fallback orchestration around the reasoning service, and request
// memoization.
package matching

import (
	"sort"

	"github.com/edualign/edualign/internal/student"
)

// Request is the pipeline entry contract.
type Request struct {
	Preferences student.PreferenceVector `json:"preferences"`
	TopN        int                      `json:"top_n"`
	Profile     *student.Profile         `json:"profile,omitempty"`
}

// Result is one ranked match returned to the caller.
type Result struct {
	ID              int                `json:"unitid"`
	CollegeName     string             `json:"college_name"`
	SimilarityScore float64            `json:"similarity_score"`
	Explanation     string             `json:"explanation"`
	Strengths       []string           `json:"strengths"`
	Tradeoffs       []string           `json:"tradeoffs"`
	Dimensions      map[string]float64 `json:"dimensions"`
}

// Response is the completed pipeline output. It is never mutated after it
// is returned, so cached responses can be shared between requests.
type Response struct {
	Matches      []Result `json:"matches"`
	UsedFallback bool     `json:"used_fallback"`
}

// sortResults orders matches descending by similarity score, ties broken by
// ascending institution id so the ordering is deterministic.
func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].SimilarityScore != results[j].SimilarityScore {
			return results[i].SimilarityScore > results[j].SimilarityScore
		}
		return results[i].ID < results[j].ID
	})
}
