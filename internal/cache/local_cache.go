package cache

import (
	"context"
	"sync"
	"time"
)

type item[V any] struct {
	value      V
	expiration int64
}

// LocalCache is a size-bounded in-process cache with per-entry TTL.
type LocalCache[V any] struct {
	items   map[string]item[V]
	mu      sync.RWMutex
	ttl     time.Duration
	maxSize int
	now     func() time.Time

	// Metrics
	statsMu sync.Mutex
	hits    int64
	misses  int64
}

func NewLocalCache[V any](ttl time.Duration, maxSize int) *LocalCache[V] {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &LocalCache[V]{
		items:   make(map[string]item[V]),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

func (c *LocalCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	it, exists := c.items[key]
	c.mu.RUnlock()

	if !exists || c.now().UnixNano() > it.expiration {
		c.record(false)
		var zero V
		return zero, false
	}
	c.record(true)
	return it.value, true
}

func (c *LocalCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UnixNano()
	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxSize {
		c.evictLocked(now)
	}
	c.items[key] = item[V]{
		value:      value,
		expiration: c.now().Add(c.ttl).UnixNano(),
	}
}

// evictLocked drops expired entries, or the entry closest to expiry when
// none have expired.
func (c *LocalCache[V]) evictLocked(now int64) {
	oldestKey := ""
	var oldest int64
	removed := false
	for k, it := range c.items {
		if now > it.expiration {
			delete(c.items, k)
			removed = true
			continue
		}
		if oldestKey == "" || it.expiration < oldest {
			oldestKey, oldest = k, it.expiration
		}
	}
	if !removed && oldestKey != "" {
		delete(c.items, oldestKey)
	}
}

func (c *LocalCache[V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *LocalCache[V]) record(hit bool) {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	if hit {
		c.hits++
	} else {
		c.misses++
	}
}

func (c *LocalCache[V]) HitRate() float64 {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()

	total := c.hits + c.misses
	if total == 0 {
		return 0.0
	}
	return float64(c.hits) / float64(total)
}

// Cleanup removes expired entries.
func (c *LocalCache[V]) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UnixNano()
	for key, it := range c.items {
		if now > it.expiration {
			delete(c.items, key)
		}
	}
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (c *LocalCache[V]) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Cleanup()
		}
	}
}
