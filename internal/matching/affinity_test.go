package matching

import (
	"math"
	"testing"

	"github.com/edualign/edualign/internal/catalog"
	"github.com/edualign/edualign/internal/student"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
func boolPtr(b bool) *bool        { return &b }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAffinitiesWithoutProfile(t *testing.T) {
	t.Parallel()

	candidates := []*catalog.Record{
		{ID: 1, State: "GA"},
		{ID: 2, State: "TX"},
	}

	for _, profile := range []*student.Profile{nil, {}, {Major: "CS"}} {
		affinities, hasSignal := Affinities(candidates, profile)
		if hasSignal {
			t.Fatalf("profile %+v carries no scoreable signal", profile)
		}
		for i, affinity := range affinities {
			if affinity != 0 {
				t.Fatalf("expected zero affinity without profile signal, candidate %d got %v", i, affinity)
			}
		}
	}
}

func TestAffinitiesStateMatch(t *testing.T) {
	t.Parallel()

	candidates := []*catalog.Record{
		{ID: 1, State: "GA"},
		{ID: 2, State: "TX"},
	}

	affinities, hasSignal := Affinities(candidates, &student.Profile{Location: "Georgia"})
	if !hasSignal {
		t.Fatalf("a resolvable location is a usable signal")
	}
	if !almostEqual(affinities[0], 1) {
		t.Fatalf("in-state candidate should score 1, got %v", affinities[0])
	}
	if !almostEqual(affinities[1], 0) {
		t.Fatalf("out-of-state candidate should score 0, got %v", affinities[1])
	}
}

func TestAffinitiesSATProximity(t *testing.T) {
	t.Parallel()

	candidates := []*catalog.Record{
		{ID: 1, State: "GA", SATAverage: floatPtr(1300)}, // exact
		{ID: 2, State: "GA", SATAverage: floatPtr(1000)}, // 300 off: 1 - 100/200
		{ID: 3, State: "GA", SATAverage: floatPtr(700)},  // 600 off: clamped to 0
		{ID: 4, State: "GA"},                             // unknown: neutral
	}

	affinities, hasSignal := Affinities(candidates, &student.Profile{SAT: intPtr(1300)})
	if !hasSignal {
		t.Fatalf("a SAT score is a usable signal")
	}

	expected := []float64{1, 0.5, 0, 0.5}
	for i, want := range expected {
		if !almostEqual(affinities[i], want) {
			t.Fatalf("candidate %d: expected %v, got %v", i, want, affinities[i])
		}
	}
}

func TestAffinitiesBlendsStateAndSAT(t *testing.T) {
	t.Parallel()

	candidates := []*catalog.Record{
		{ID: 1, State: "GA", SATAverage: floatPtr(1300)},
	}

	profile := &student.Profile{
		Location:          "GA",
		SAT:               intPtr(1300),
		InStatePreference: boolPtr(true),
	}

	// State: 2/2, SAT: 1/1 -> (2+1)/(2+1) = 1.
	affinities, _ := Affinities(candidates, profile)
	if !almostEqual(affinities[0], 1) {
		t.Fatalf("expected blended affinity 1, got %v", affinities[0])
	}

	// Out-of-state with the doubled weight drags the blend down harder.
	candidates[0].State = "TX"
	affinities, _ = Affinities(candidates, profile)
	if !almostEqual(affinities[0], 1.0/3.0) {
		t.Fatalf("expected blended affinity 1/3, got %v", affinities[0])
	}
}

func TestAffinitiesUnresolvableLocationIsNoSignal(t *testing.T) {
	t.Parallel()

	candidates := []*catalog.Record{{ID: 1, State: "GA"}}

	affinities, hasSignal := Affinities(candidates, &student.Profile{Location: "somewhere warm"})
	if hasSignal {
		t.Fatalf("an unresolvable location is not a usable signal")
	}
	if affinities[0] != 0 {
		t.Fatalf("unresolvable location must contribute nothing, got %v", affinities[0])
	}
}
