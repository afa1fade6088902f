package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"
)

// entry holds a cached value together with the moment it was stored and
// how long it stays valid.
type entry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
}

// Store is an in-memory key/value cache with per-entry TTLs.
//
// Stale entries are evicted lazily: an expired entry is removed the next
// time it is looked up. The store is safe for concurrent use. It is
// intended to be constructed once at startup and injected into the
// components that need it, so tests can use isolated instances.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry

	// now is swappable for tests
	now func() time.Time
}

// NewStore creates an empty cache store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached value for key, if present and not expired.
// An expired entry is evicted and reported as a miss.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.now().Sub(e.storedAt) > e.ttl {
		delete(s.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the given TTL, overwriting any
// previous entry.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{
		value:    value,
		storedAt: s.now(),
		ttl:      ttl,
	}
}

// Clear removes all entries. Clearing is always safe: a cleared cache
// simply forces recomputation on the next lookup.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]entry)
}

// Stats describes the current contents of a Store.
type Stats struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

// Stats returns the number of entries and their keys, sorted for
// stable output. Expired entries that have not been looked up yet are
// still counted; they only disappear on access or Clear.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return Stats{Size: len(keys), Keys: keys}
}

// Key derives a deterministic cache key from a logical request kind and
// its parameters. Parameters are serialized as canonical JSON
// (encoding/json sorts map keys), so equivalent parameter sets produce
// identical keys regardless of construction order.
func Key(kind string, params any) string {
	data, err := json.Marshal(params)
	if err != nil {
		// Unserializable params cannot be cached meaningfully; fall back
		// to a formatted representation so the caller still gets a key.
		data = []byte(fmt.Sprintf("%+v", params))
	}
	sum := sha256.Sum256(data)
	return kind + ":" + hex.EncodeToString(sum[:16])
}
