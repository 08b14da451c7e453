package student

import "fmt"

// DimensionCount is the number of experience dimensions every preference
// vector and candidate profile carries.
const DimensionCount = 8

// Dimensions lists the experience dimension keys in their canonical order.
// The order is load-bearing: normalized vectors and candidate profiles are
// indexed by it.
var Dimensions = [DimensionCount]string{
	"academic_intensity",
	"social_life",
	"inclusivity",
	"career_support",
	"collaboration_vs_competition",
	"mental_health_culture",
	"campus_safety",
	"overall_satisfaction",
}

const (
	minRating = 1
	maxRating = 10
)

// PreferenceVector maps each experience dimension to an importance rating
// between 1 and 10.
type PreferenceVector map[string]int

// ValidationError reports malformed caller input. It is never retried and
// never absorbed into the fallback path.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// Validate checks that all eight dimensions are present and rated within
// [1, 10]. It must run before any other pipeline stage.
func (p PreferenceVector) Validate() error {
	for _, dim := range Dimensions {
		value, ok := p[dim]
		if !ok {
			return &ValidationError{Field: dim, Reason: "missing required dimension"}
		}
		if value < minRating || value > maxRating {
			return &ValidationError{
				Field:  dim,
				Reason: fmt.Sprintf("rating %d is outside [%d, %d]", value, minRating, maxRating),
			}
		}
	}
	return nil
}

// Normalize maps the 1-10 ratings into [0, 1] and returns the raw ratings as
// importance weights. Validate must have succeeded first.
func (p PreferenceVector) Normalize() (norm, weights [DimensionCount]float64) {
	for i, dim := range Dimensions {
		value := p[dim]
		norm[i] = float64(value-minRating) / float64(maxRating-minRating)
		weights[i] = float64(value)
	}
	return norm, weights
}

// Label renders a dimension key for human-readable output.
func Label(dim string) string {
	out := make([]byte, len(dim))
	for i := 0; i < len(dim); i++ {
		if dim[i] == '_' {
			out[i] = ' '
			continue
		}
		out[i] = dim[i]
	}
	return string(out)
}
