package cache

import (
	"testing"
	"time"
)

func TestStoreGetSet(t *testing.T) {
	s := NewStore()

	if _, ok := s.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}

	s.Set("k", []int{1, 2, 3}, time.Minute)
	v, ok := s.Get("k")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	got, ok := v.([]int)
	if !ok || len(got) != 3 {
		t.Errorf("unexpected cached value: %v", v)
	}
}

func TestStoreExpiry(t *testing.T) {
	s := NewStore()
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	current := base
	s.now = func() time.Time { return current }

	s.Set("k", "v", 5*time.Minute)

	current = base.Add(5 * time.Minute)
	if _, ok := s.Get("k"); !ok {
		t.Error("entry at exactly TTL age should still be valid")
	}

	current = base.Add(5*time.Minute + time.Second)
	if _, ok := s.Get("k"); ok {
		t.Error("entry past TTL should be evicted")
	}

	// Eviction is lazy but permanent: the entry is gone even if the
	// clock were to rewind.
	current = base
	if _, ok := s.Get("k"); ok {
		t.Error("evicted entry should not reappear")
	}
}

func TestStoreOverwrite(t *testing.T) {
	s := NewStore()
	s.Set("k", "old", time.Minute)
	s.Set("k", "new", time.Minute)

	v, ok := s.Get("k")
	if !ok || v.(string) != "new" {
		t.Errorf("expected overwritten value, got %v", v)
	}
}

func TestStoreClear(t *testing.T) {
	s := NewStore()
	s.Set("a", 1, time.Minute)
	s.Set("b", 2, time.Minute)

	s.Clear()

	if stats := s.Stats(); stats.Size != 0 {
		t.Errorf("expected empty store after Clear, got %d entries", stats.Size)
	}
	if _, ok := s.Get("a"); ok {
		t.Error("expected miss after Clear")
	}

	// Clear on an empty store is a no-op
	s.Clear()
}

func TestStoreStats(t *testing.T) {
	s := NewStore()
	s.Set("b", 2, time.Minute)
	s.Set("a", 1, time.Minute)

	stats := s.Stats()
	if stats.Size != 2 {
		t.Fatalf("expected 2 entries, got %d", stats.Size)
	}
	if stats.Keys[0] != "a" || stats.Keys[1] != "b" {
		t.Errorf("expected sorted keys, got %v", stats.Keys)
	}
}

func TestKeyDeterministic(t *testing.T) {
	params := map[string]any{
		"timeMin":  "2025-03-10T09:00:00Z",
		"timeMax":  "2025-03-10T18:00:00Z",
		"timeZone": "Europe/Berlin",
	}
	k1 := Key("busy", params)
	k2 := Key("busy", map[string]any{
		"timeZone": "Europe/Berlin",
		"timeMax":  "2025-03-10T18:00:00Z",
		"timeMin":  "2025-03-10T09:00:00Z",
	})
	if k1 != k2 {
		t.Errorf("equivalent params should produce identical keys: %s vs %s", k1, k2)
	}
}

func TestKeyDistinguishesKindAndParams(t *testing.T) {
	params := map[string]any{"timeZone": "UTC"}

	if Key("busy", params) == Key("slots", params) {
		t.Error("different kinds must not collide")
	}
	if Key("busy", params) == Key("busy", map[string]any{"timeZone": "Europe/Berlin"}) {
		t.Error("different params must not collide")
	}
}
