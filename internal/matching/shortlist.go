package matching

// DefaultShortlistSize bounds the payload sent to the reasoning service
// regardless of catalog size.
const DefaultShortlistSize = 15

// Shortlist returns the top k scored candidates. The input must already be
// sorted by ScoreAll; pools at or below the budget pass through whole.
func Shortlist(scored []ScoredCandidate, k int) []ScoredCandidate {
	if k <= 0 || len(scored) <= k {
		return scored
	}
	return scored[:k]
}
