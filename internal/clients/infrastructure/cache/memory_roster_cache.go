package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryRosterCache keeps the roster in process memory.
type MemoryRosterCache struct {
	mu        sync.RWMutex
	roster    []byte
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewMemoryRosterCache creates an in-memory roster cache. A zero ttl never
// expires.
func NewMemoryRosterCache(ttl time.Duration) *MemoryRosterCache {
	return &MemoryRosterCache{ttl: ttl, now: time.Now}
}

func (c *MemoryRosterCache) Load(_ context.Context) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.roster == nil {
		return nil, false, nil
	}
	if c.ttl > 0 && !c.now().Before(c.expiresAt) {
		return nil, false, nil
	}
	return append([]byte(nil), c.roster...), true, nil
}

func (c *MemoryRosterCache) Store(_ context.Context, roster []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.roster = append([]byte(nil), roster...)
	c.expiresAt = c.now().Add(c.ttl)
	return nil
}

func (c *MemoryRosterCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.roster = nil
	return nil
}
