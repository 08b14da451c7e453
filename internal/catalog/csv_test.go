package catalog

import (
	"strings"
	"testing"
)

const sampleCSV = `UNITID,INSTNM,CITY,STABBR,ADM_RATE,SAT_AVG,TUITIONFEE_IN,TUITIONFEE_OUT,academic_intensity,social_life,inclusivity,career_support,collaboration_vs_competition,mental_health_culture,campus_safety,overall_satisfaction
100654,Alpha College,Atlanta,GA,0.62,1150,9000,21000,0.8,0.6,0.7,0.9,0.5,0.6,0.7,0.8
100663,Beta University,Austin,TX,,,,,0.4,0.9,0.5,0.3,0.7,0.8,0.6,0.5
100690,Gamma Institute,Denver,CO,0.5,1200,11000,26000,0.3,0.2,,0.1,0.4,0.5,0.6,0.7
`

func TestReadPool(t *testing.T) {
	t.Parallel()

	pool, err := ReadPool(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pool.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", pool.Len())
	}

	alpha := pool.FindByID(100654)
	if alpha == nil {
		t.Fatalf("expected to find record 100654")
	}
	if alpha.Name != "Alpha College" || alpha.State != "GA" {
		t.Fatalf("unexpected record: %+v", alpha)
	}
	if alpha.SATAverage == nil || *alpha.SATAverage != 1150 {
		t.Fatalf("expected SAT average 1150, got %v", alpha.SATAverage)
	}
	if alpha.Experience == nil || alpha.Experience[0] != 0.8 {
		t.Fatalf("expected complete experience data, got %v", alpha.Experience)
	}

	beta := pool.FindByName("Beta University")
	if beta == nil {
		t.Fatalf("expected to find Beta University")
	}
	if beta.SATAverage != nil {
		t.Fatalf("missing SAT average should be nil, got %v", *beta.SATAverage)
	}
	if beta.Experience == nil {
		t.Fatalf("Beta carries all dimensions and should have experience data")
	}

	// Gamma is missing one dimension: all-or-nothing.
	gamma := pool.FindByID(100690)
	if gamma == nil || gamma.Experience != nil {
		t.Fatalf("a record with a missing dimension must have no experience data")
	}
}

func TestReadPoolRejectsMissingColumns(t *testing.T) {
	t.Parallel()

	_, err := ReadPool(strings.NewReader("INSTNM,CITY\nAlpha,Atlanta\n"))
	if err == nil {
		t.Fatalf("expected an error for missing required columns")
	}
	if !strings.Contains(err.Error(), "UNITID") {
		t.Fatalf("expected error to name the missing column, got: %v", err)
	}
}
