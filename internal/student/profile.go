package student

import (
	"sort"
	"strings"
)

// Profile carries the optional student signals. Nil pointers and empty
// strings mean "no signal"; a profile zero value never influences scoring.
type Profile struct {
	GPA               *float64 `json:"gpa,omitempty" mapstructure:"gpa"`
	SAT               *int     `json:"sat,omitempty" mapstructure:"sat"`
	Major             string   `json:"major,omitempty" mapstructure:"major"`
	Location          string   `json:"location,omitempty" mapstructure:"location"`
	Extracurriculars  string   `json:"extracurriculars,omitempty" mapstructure:"extracurriculars"`
	InStatePreference *bool    `json:"in_state_preference,omitempty" mapstructure:"in-state-preference"`
	FreeText          string   `json:"free_text,omitempty" mapstructure:"free-text"`
}

// IsEmpty reports whether the profile carries no usable signal at all.
func (p *Profile) IsEmpty() bool {
	if p == nil {
		return true
	}
	return p.GPA == nil && p.SAT == nil && p.InStatePreference == nil &&
		strings.TrimSpace(p.Major) == "" &&
		strings.TrimSpace(p.Location) == "" &&
		strings.TrimSpace(p.Extracurriculars) == "" &&
		strings.TrimSpace(p.FreeText) == ""
}

// Item is one present profile field, used for canonical fingerprinting.
type Item struct {
	Key   string `json:"k"`
	Value any    `json:"v"`
}

// Items returns the present profile fields sorted by key. Absent fields do
// not appear, so two profiles differing only in unset fields fingerprint
// identically.
func (p *Profile) Items() []Item {
	if p == nil {
		return nil
	}

	items := make([]Item, 0, 7)
	if p.GPA != nil {
		items = append(items, Item{Key: "gpa", Value: *p.GPA})
	}
	if p.SAT != nil {
		items = append(items, Item{Key: "sat", Value: *p.SAT})
	}
	if p.InStatePreference != nil {
		items = append(items, Item{Key: "in_state_preference", Value: *p.InStatePreference})
	}
	for key, value := range map[string]string{
		"major":            p.Major,
		"location":         p.Location,
		"extracurriculars": p.Extracurriculars,
		"free_text":        p.FreeText,
	} {
		if strings.TrimSpace(value) != "" {
			items = append(items, Item{Key: key, Value: value})
		}
	}

	// A profile with nothing set must serialize exactly like a nil profile.
	if len(items) == 0 {
		return nil
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })
	return items
}
