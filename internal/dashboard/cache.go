package dashboard

import (
	"sync"
	"time"
)

// SnapshotCache holds the latest dashboard snapshot with a TTL
type SnapshotCache struct {
	mu         sync.RWMutex
	snapshot   *Snapshot
	expiration time.Time
	ttl        time.Duration
}

// NewSnapshotCache creates a new cache
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{ttl: ttl}
}

// Get returns the cached snapshot if present and fresh
func (c *SnapshotCache) Get() (*Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snapshot == nil || time.Now().After(c.expiration) {
		return nil, false
	}
	return c.snapshot, true
}

// Set stores a snapshot
func (c *SnapshotCache) Set(snapshot *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot = snapshot
	c.expiration = time.Now().Add(c.ttl)
}

// Latest returns the cached snapshot regardless of freshness. Stale data is
// still useful to render while a refresh is in flight.
func (c *SnapshotCache) Latest() (*Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snapshot == nil {
		return nil, false
	}
	return c.snapshot, true
}

// Clear drops the cached snapshot
func (c *SnapshotCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot = nil
	c.expiration = time.Time{}
}
