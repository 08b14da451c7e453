package student

import (
	"errors"
	"testing"
)

func fullPreferences() PreferenceVector {
	prefs := make(PreferenceVector, DimensionCount)
	for _, dim := range Dimensions {
		prefs[dim] = 5
	}
	return prefs
}

func TestValidateRequiresEveryDimension(t *testing.T) {
	t.Parallel()

	for _, missing := range Dimensions {
		prefs := fullPreferences()
		delete(prefs, missing)

		err := prefs.Validate()
		if err == nil {
			t.Fatalf("expected validation error for missing %s", missing)
		}

		var validation *ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("expected *ValidationError, got %T", err)
		}
		if validation.Field != missing {
			t.Fatalf("expected error to name %s, got %s", missing, validation.Field)
		}
	}
}

func TestValidateRejectsOutOfRangeRatings(t *testing.T) {
	t.Parallel()

	for _, rating := range []int{0, -3, 11} {
		prefs := fullPreferences()
		prefs["social_life"] = rating

		err := prefs.Validate()
		if err == nil {
			t.Fatalf("expected validation error for rating %d", rating)
		}

		var validation *ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("expected *ValidationError, got %T", err)
		}
		if validation.Field != "social_life" {
			t.Fatalf("expected error to name social_life, got %s", validation.Field)
		}
	}
}

func TestValidateAcceptsFullVector(t *testing.T) {
	t.Parallel()

	if err := fullPreferences().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	prefs := fullPreferences()
	prefs["academic_intensity"] = 1
	prefs["social_life"] = 10

	norm, weights := prefs.Normalize()

	if norm[0] != 0 {
		t.Fatalf("rating 1 should normalize to 0, got %v", norm[0])
	}
	if norm[1] != 1 {
		t.Fatalf("rating 10 should normalize to 1, got %v", norm[1])
	}
	if weights[0] != 1 || weights[1] != 10 {
		t.Fatalf("weights should carry the raw ratings, got %v and %v", weights[0], weights[1])
	}

	// Middle rating lands at (5-1)/9.
	expected := 4.0 / 9.0
	if norm[2] != expected {
		t.Fatalf("rating 5 should normalize to %v, got %v", expected, norm[2])
	}
}

func TestLabel(t *testing.T) {
	t.Parallel()

	if got := Label("mental_health_culture"); got != "mental health culture" {
		t.Fatalf("unexpected label: %q", got)
	}
}
