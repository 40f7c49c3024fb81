package cache

import (
	"testing"
	"time"
)

func TestLocalCacheExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := NewLocalCache[string](time.Minute, 10)
	c.now = func() time.Time { return now }

	c.Set("a", "audio")
	if v, ok := c.Get("a"); !ok || v != "audio" {
		t.Fatalf("get = %q, %v", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if got := c.HitRate(); got != 0.5 {
		t.Fatalf("hit rate = %v", got)
	}

	c.Cleanup()
	if c.Size() != 0 {
		t.Fatalf("size after cleanup = %d", c.Size())
	}
}

func TestLocalCacheEvictsSoonestToExpire(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := NewLocalCache[int](time.Minute, 2)
	c.now = func() time.Time { return now }

	c.Set("first", 1)
	now = now.Add(time.Second)
	c.Set("second", 2)
	now = now.Add(time.Second)
	c.Set("third", 3)

	if c.Size() != 2 {
		t.Fatalf("size = %d", c.Size())
	}
	if _, ok := c.Get("first"); ok {
		t.Fatal("expected first to be evicted")
	}
	if v, ok := c.Get("third"); !ok || v != 3 {
		t.Fatalf("third = %d, %v", v, ok)
	}

	// Overwriting an existing key never evicts.
	c.Set("second", 20)
	if c.Size() != 2 {
		t.Fatalf("size = %d", c.Size())
	}
}
