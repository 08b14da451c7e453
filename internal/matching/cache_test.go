package matching

import (
	"sync"
	"testing"

	"github.com/edualign/edualign/internal/student"
)

func TestFingerprintStableUnderOrdering(t *testing.T) {
	t.Parallel()

	prefs := student.PreferenceVector{}
	for i, dim := range student.Dimensions {
		prefs[dim] = i + 1
	}

	profile := &student.Profile{Location: "GA", SAT: intPtr(1250)}

	first, err := Fingerprint(prefs, profile, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Map iteration order varies between runs; the fingerprint must not.
	for i := 0; i < 20; i++ {
		again, err := Fingerprint(prefs, profile, 4)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again != first {
			t.Fatalf("fingerprint is not canonical: %q vs %q", first, again)
		}
	}
}

func TestFingerprintDistinguishesInputs(t *testing.T) {
	t.Parallel()

	prefs := student.PreferenceVector{}
	for _, dim := range student.Dimensions {
		prefs[dim] = 5
	}

	base, _ := Fingerprint(prefs, nil, 4)

	differentTopN, _ := Fingerprint(prefs, nil, 5)
	if base == differentTopN {
		t.Fatalf("top_n must be part of the fingerprint")
	}

	withProfile, _ := Fingerprint(prefs, &student.Profile{Location: "GA"}, 4)
	if base == withProfile {
		t.Fatalf("profile must be part of the fingerprint")
	}

	// A profile with only absent fields fingerprints like no profile.
	emptyProfile, _ := Fingerprint(prefs, &student.Profile{}, 4)
	if base != emptyProfile {
		t.Fatalf("absent profile fields must not change the fingerprint")
	}

	changed := student.PreferenceVector{}
	for _, dim := range student.Dimensions {
		changed[dim] = 5
	}
	changed["social_life"] = 6
	differentPrefs, _ := Fingerprint(changed, nil, 4)
	if base == differentPrefs {
		t.Fatalf("preferences must be part of the fingerprint")
	}
}

func TestMemoryCacheConcurrentAccess(t *testing.T) {
	t.Parallel()

	cache := NewMemoryCache()
	response := &Response{UsedFallback: true}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.Put("key", response)
			if got, ok := cache.Get("key"); ok && got != response {
				t.Errorf("unexpected cached value")
			}
		}()
	}
	wg.Wait()

	if cache.Len() != 1 {
		t.Fatalf("expected a single entry, got %d", cache.Len())
	}

	if _, ok := cache.Get("missing"); ok {
		t.Fatalf("unexpected hit for missing key")
	}
}
