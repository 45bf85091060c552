package thumbs

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Cache stores rendered previews keyed by page reference and rotation, so a
// rotated page never serves a stale image.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
}

// CacheKey derives the cache key for a page reference at a given rotation.
func CacheKey(pageRefID string, rotation int) string {
	return fmt.Sprintf("%s:%d", pageRefID, rotation)
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// MemoryCache is the default in-process cache with a per-entry TTL.
type MemoryCache struct {
	mu  sync.RWMutex
	m   map[string]memoryEntry
	ttl time.Duration
}

// NewMemoryCache returns an in-process cache. ttl <= 0 disables expiry.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{m: make(map[string]memoryEntry), ttl: ttl}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if c.ttl > 0 && time.Now().After(e.expires) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.data, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, data []byte) error {
	c.mu.Lock()
	c.m[key] = memoryEntry{data: data, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

// Purge drops every cached entry. Called when the workspace is cleared.
func (c *MemoryCache) Purge() {
	c.mu.Lock()
	c.m = make(map[string]memoryEntry)
	c.mu.Unlock()
}
