package catalog

import (
	"testing"

	"github.com/edualign/edualign/internal/student"
)

func record(id int, dims *[student.DimensionCount]float64) *Record {
	return &Record{ID: id, Name: "College", State: "GA", Experience: dims}
}

func TestWithExperienceFiltersAndDeduplicates(t *testing.T) {
	t.Parallel()

	dims := [student.DimensionCount]float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}

	pool := &Pool{Items: []*Record{
		record(3, &dims),
		record(1, nil),
		record(2, &dims),
		record(3, &dims), // duplicate id
	}}

	got := pool.WithExperience()
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].ID != 2 || got[1].ID != 3 {
		t.Fatalf("expected ascending ids [2 3], got [%d %d]", got[0].ID, got[1].ID)
	}
}

func TestDimensionMap(t *testing.T) {
	t.Parallel()

	if m := record(1, nil).DimensionMap(); m != nil {
		t.Fatalf("expected nil map without experience data, got %v", m)
	}

	dims := [student.DimensionCount]float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8}
	m := record(1, &dims).DimensionMap()
	if len(m) != student.DimensionCount {
		t.Fatalf("expected %d entries, got %d", student.DimensionCount, len(m))
	}
	if m["academic_intensity"] != 0.1 || m["overall_satisfaction"] != 0.8 {
		t.Fatalf("unexpected map values: %v", m)
	}
}
