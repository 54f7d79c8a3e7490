package application

import (
	"testing"
	"time"
)

func TestPlanCacheStoresAndReturnsCopies(t *testing.T) {
	fixed := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	current := fixed
	cache := newPlanCache(time.Minute, 4, func() time.Time { return current })

	original := RotationPlan{
		GroupID: "group-1",
		Date:    "2025-03-03",
		Seats:   map[string]string{"S1": "alice"},
	}
	cache.Store("group-1", original)

	// Mutating the original plan should not affect the cached copy.
	original.Seats["S1"] = "mutated"

	cached, ok := cache.Get("group-1")
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if cached.Seats["S1"] != "alice" {
		t.Fatalf("expected cached occupant to remain unchanged, got %s", cached.Seats["S1"])
	}

	// Mutating the returned plan should not be visible on subsequent reads.
	cached.Seats["S1"] = "changed"
	cachedAgain, ok := cache.Get("group-1")
	if !ok {
		t.Fatalf("expected cache hit on second read")
	}
	if cachedAgain.Seats["S1"] != "alice" {
		t.Fatalf("expected cache to return independent copy, got %s", cachedAgain.Seats["S1"])
	}
}

func TestPlanCacheExpiresEntries(t *testing.T) {
	fixed := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	current := fixed
	cache := newPlanCache(time.Second, 4, func() time.Time { return current })

	cache.Store("group-1", RotationPlan{GroupID: "group-1", Date: "2025-03-03"})
	if _, ok := cache.Get("group-1"); !ok {
		t.Fatalf("expected cache hit before expiry")
	}

	current = current.Add(2 * time.Second)
	if _, ok := cache.Get("group-1"); ok {
		t.Fatalf("expected cache entry to expire")
	}
}

func TestPlanCacheInvalidate(t *testing.T) {
	cache := newPlanCache(time.Minute, 4, time.Now)
	cache.Store("group-1", RotationPlan{GroupID: "group-1"})
	cache.Store("group-2", RotationPlan{GroupID: "group-2"})

	cache.Invalidate("group-1")

	if _, ok := cache.Get("group-1"); ok {
		t.Fatalf("expected invalidated entry to be gone")
	}
	if _, ok := cache.Get("group-2"); !ok {
		t.Fatalf("expected other entries to survive invalidation")
	}
}
