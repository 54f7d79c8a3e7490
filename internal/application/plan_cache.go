package application

import (
	"sync"
	"time"
)

// planCache stores recently computed rotation plans to avoid re-reading the
// full history for identical requests while the group's data is unchanged.
// Entries are keyed by group ID and invalidated on any write to the group.
type planCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]planCacheEntry
}

type planCacheEntry struct {
	plan      RotationPlan
	expiresAt time.Time
}

func newPlanCache(ttl time.Duration, maxEntries int, now func() time.Time) *planCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	if now == nil {
		now = time.Now
	}
	return &planCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]planCacheEntry),
	}
}

func (c *planCache) Get(groupID string) (RotationPlan, bool) {
	if c == nil {
		return RotationPlan{}, false
	}
	c.mu.RLock()
	entry, ok := c.entries[groupID]
	c.mu.RUnlock()
	if !ok {
		return RotationPlan{}, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, groupID)
		c.mu.Unlock()
		return RotationPlan{}, false
	}
	return clonePlan(entry.plan), true
}

func (c *planCache) Store(groupID string, plan RotationPlan) {
	if c == nil {
		return
	}
	cloned := clonePlan(plan)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[groupID] = planCacheEntry{plan: cloned, expiresAt: expiry}
}

func (c *planCache) Invalidate(groupID string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.entries, groupID)
	c.mu.Unlock()
}

func (c *planCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *planCache) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func clonePlan(plan RotationPlan) RotationPlan {
	out := plan
	if plan.Seats != nil {
		out.Seats = make(map[string]string, len(plan.Seats))
		for seat, participant := range plan.Seats {
			out.Seats[seat] = participant
		}
	}
	if len(plan.Warnings) > 0 {
		out.Warnings = make([]PlanWarning, len(plan.Warnings))
		copy(out.Warnings, plan.Warnings)
	}
	return out
}
