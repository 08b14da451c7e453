// Package catalog owns the in-memory candidate pool of institutions. The
// pool is built once at startup and treated as immutable for the process
// lifetime; refreshing it requires the owning process to rebuild the engine
// and invalidate any result cache.
package catalog

import (
	"sort"

	"github.com/edualign/edualign/internal/student"
)

// Record is one institution. Experience is nil when no alumni ratings exist
// for the institution; such records are excluded from experience ranking.
type Record struct {
	ID    int    `json:"unitid"`
	Name  string `json:"name"`
	City  string `json:"city"`
	State string `json:"state"`

	// Raw statistics. Nil means unknown, never zero.
	AdmissionRate *float64 `json:"admission_rate,omitempty"`
	SATAverage    *float64 `json:"sat_average,omitempty"`
	TuitionIn     *float64 `json:"tuition_in,omitempty"`
	TuitionOut    *float64 `json:"tuition_out,omitempty"`

	Experience *[student.DimensionCount]float64 `json:"experience,omitempty"`
}

// DimensionMap copies the record's experience values into a map keyed by
// dimension name. Returns nil when the record carries no experience data.
func (r *Record) DimensionMap() map[string]float64 {
	if r.Experience == nil {
		return nil
	}
	dims := make(map[string]float64, student.DimensionCount)
	for i, dim := range student.Dimensions {
		dims[dim] = r.Experience[i]
	}
	return dims
}

// Pool holds the full candidate set.
type Pool struct {
	Items []*Record
}

func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Items)
}

// FindByName returns the record with the given institution name, or nil.
func (p *Pool) FindByName(name string) *Record {
	for _, item := range p.Items {
		if item.Name == name {
			return item
		}
	}
	return nil
}

// FindByID returns the record with the given stable id, or nil.
func (p *Pool) FindByID(id int) *Record {
	for _, item := range p.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// WithExperience returns the records that carry alumni experience data,
// deduplicated by id and ordered by ascending id. Only these records can be
// ranked on experience fit.
func (p *Pool) WithExperience() []*Record {
	if p == nil {
		return nil
	}

	seen := make(map[int]bool, len(p.Items))
	out := make([]*Record, 0, len(p.Items))
	for _, item := range p.Items {
		if item.Experience == nil || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
