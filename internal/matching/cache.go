package matching

import (
	"fmt"
	"sort"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/edualign/edualign/internal/student"
)

// Cache memoizes completed responses by request fingerprint. It is injected
// by the owning process so tests stay isolated and a pool refresh can swap
// in a fresh cache wholesale.
type Cache interface {
	Get(key string) (*Response, bool)
	Put(key string, resp *Response)
}

// MemoryCache is a process-local Cache safe for concurrent use. Entries
// never expire: correctness relies on the candidate pool being immutable
// for the process lifetime.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*Response
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*Response)}
}

func (c *MemoryCache) Get(key string) (*Response, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	resp, ok := c.entries[key]
	return resp, ok
}

func (c *MemoryCache) Put(key string, resp *Response) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = resp
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

type preferenceItem struct {
	Key   string `json:"k"`
	Value int    `json:"v"`
}

type fingerprintPayload struct {
	Preferences []preferenceItem `json:"v"`
	Profile     []student.Item   `json:"p"`
	TopN        int              `json:"n"`
}

// Fingerprint builds a canonical cache key: preference and profile items
// are sorted by key so the serialization is stable under reordering.
func Fingerprint(prefs student.PreferenceVector, profile *student.Profile, topN int) (string, error) {
	items := make([]preferenceItem, 0, len(prefs))
	for key, value := range prefs {
		items = append(items, preferenceItem{Key: key, Value: value})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })

	payload := fingerprintPayload{
		Preferences: items,
		Profile:     profile.Items(),
		TopN:        topN,
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode fingerprint: %w", err)
	}

	return string(encoded), nil
}
