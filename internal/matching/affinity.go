package matching

import (
	"github.com/edualign/edualign/internal/catalog"
	"github.com/edualign/edualign/internal/student"
)

const (
	inStateWeight  = 2.0
	locationWeight = 1.0

	// SAT differences up to satFullBand points score full proximity; the
	// score then decays linearly to zero over another satFullBand points.
	satFullBand = 200.0

	// Candidates with no known SAT average contribute a neutral value so
	// missing data is never penalized.
	satNeutral = 0.5
)

// Affinities computes a per-candidate profile affinity in [0, 1]. The
// second return reports whether the profile carried any usable signal at
// all; when it did not, every affinity is exactly 0 and the engine drops
// the affinity term from the composite blend entirely (no bonus, no
// penalty).
func Affinities(candidates []*catalog.Record, profile *student.Profile) ([]float64, bool) {
	out := make([]float64, len(candidates))
	if profile == nil {
		return out, false
	}

	homeState, hasState := catalog.ResolveState(profile.Location)
	hasSAT := profile.SAT != nil
	if !hasState && !hasSAT {
		return out, false
	}
	stateWeight := locationWeight
	if profile.InStatePreference != nil && *profile.InStatePreference {
		stateWeight = inStateWeight
	}

	for i, candidate := range candidates {
		var numerator, denominator float64

		if hasState {
			if candidate.State == homeState {
				numerator += stateWeight
			}
			denominator += stateWeight
		}

		if hasSAT {
			if candidate.SATAverage != nil {
				numerator += satProximity(float64(*profile.SAT), *candidate.SATAverage)
			} else {
				numerator += satNeutral
			}
			denominator += 1.0
		}

		if denominator > 0 {
			out[i] = numerator / denominator
		}
	}

	return out, true
}

func satProximity(sat, average float64) float64 {
	diff := sat - average
	if diff < 0 {
		diff = -diff
	}
	score := 1 - (diff-satFullBand)/satFullBand
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
