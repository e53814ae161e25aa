package cache

import (
	"testing"
	"time"
)

// fakeClock returns a clock function and a way to advance it.
func fakeClock(start time.Time) (func() time.Time, func(d time.Duration)) {
	current := start
	return func() time.Time { return current },
		func(d time.Duration) { current = current.Add(d) }
}

func TestStore_GetSet(t *testing.T) {
	s := New[[]string](time.Minute)

	if _, ok := s.Get("default"); ok {
		t.Error("expected miss on empty store")
	}

	s.Set("default", []string{"a", "b"})

	got, ok := s.Get("default")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if len(got) != 2 || got[0] != "a" {
		t.Errorf("Get() = %v, want [a b]", got)
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	now, advance := fakeClock(time.Unix(1700000000, 0))
	s := NewWithClock[int](5*time.Minute, now)

	s.Set("p1", 42)

	// Just inside the TTL
	advance(5*time.Minute - time.Second)
	if got, ok := s.Get("p1"); !ok || got != 42 {
		t.Errorf("Get() within TTL = (%v, %v), want (42, true)", got, ok)
	}

	// At the TTL boundary the entry is stale
	advance(time.Second)
	if _, ok := s.Get("p1"); ok {
		t.Error("expected miss after TTL elapsed")
	}
}

func TestStore_SetRefreshesTimestamp(t *testing.T) {
	now, advance := fakeClock(time.Unix(1700000000, 0))
	s := NewWithClock[string](5*time.Minute, now)

	s.Set("k", "old")
	advance(4 * time.Minute)
	s.Set("k", "new")
	advance(4 * time.Minute)

	got, ok := s.Get("k")
	if !ok {
		t.Fatal("expected hit 4m after refresh")
	}
	if got != "new" {
		t.Errorf("Get() = %q, want %q", got, "new")
	}
}

func TestStore_Delete(t *testing.T) {
	s := New[string](time.Hour)
	s.Set("p1", "data")
	s.Set("p2", "data")

	s.Delete("p1")

	if _, ok := s.Get("p1"); ok {
		t.Error("expected miss after Delete, regardless of TTL")
	}
	if _, ok := s.Get("p2"); !ok {
		t.Error("Delete should not affect other keys")
	}
}

func TestStore_Clear(t *testing.T) {
	s := New[string](time.Hour)
	s.Set("p1", "data")
	s.Set("p2", "data")

	s.Clear()

	if s.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", s.Len())
	}
}

func TestStore_ZeroTTLUsesDefault(t *testing.T) {
	now, advance := fakeClock(time.Unix(1700000000, 0))
	s := NewWithClock[string](0, now)

	s.Set("k", "v")
	advance(DefaultTTL - time.Second)
	if _, ok := s.Get("k"); !ok {
		t.Error("expected hit within default TTL")
	}
	advance(2 * time.Second)
	if _, ok := s.Get("k"); ok {
		t.Error("expected miss after default TTL")
	}
}
