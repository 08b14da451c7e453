package ai

import (
	"context"

	"github.com/edualign/edualign/internal/student"
)

// Candidate is one shortlisted institution summarized for the reasoning
// service.
type Candidate struct {
	ID         int
	Name       string
	City       string
	State      string
	Dimensions [student.DimensionCount]float64
}

// Request carries everything the reasoning service needs to rank and
// explain the shortlist.
type Request struct {
	Preferences student.PreferenceVector
	Profile     *student.Profile
	Candidates  []Candidate
	TopN        int
}

// Explanation is one entry of the service's structured response.
type Explanation struct {
	CollegeName     string   `json:"college_name"`
	SimilarityScore float64  `json:"similarity_score"`
	Explanation     string   `json:"explanation"`
	Strengths       []string `json:"strengths"`
	Tradeoffs       []string `json:"tradeoffs"`
}

// Explainer produces ranked explanations for a shortlist of candidates.
type Explainer interface {
	Explain(ctx context.Context, req *Request) ([]Explanation, error)
}
