// Package cache provides an in-memory TTL cache used for rendered responses.
package cache

import (
	"context"
	"sync"
	"time"
)

const defaultCleanupInterval = time.Minute

// Stats holds cache statistics
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	MaxSize   int
	HitRate   float64
}

// MemoryCache is an in-memory cache with per-item TTL and a size bound.
// It is safe for concurrent use.
type MemoryCache[V any] struct {
	mu      sync.Mutex
	data    map[string]*cacheItem[V]
	maxSize int
	stats   Stats
	now     func() time.Time

	cleanupTicker *time.Ticker
	cancel        context.CancelFunc

	// serializes loads so a burst of misses renders once
	loadMu sync.Mutex
}

type cacheItem[V any] struct {
	value       V
	expiresAt   time.Time
	createdAt   time.Time
	accessCount int64
}

// NewMemoryCache creates a cache holding at most maxSize items and starts
// the background cleanup of expired items. Call Close to stop it.
func NewMemoryCache[V any](maxSize int) *MemoryCache[V] {
	ctx, cancel := context.WithCancel(context.Background())

	c := &MemoryCache[V]{
		data:    make(map[string]*cacheItem[V]),
		maxSize: maxSize,
		stats:   Stats{MaxSize: maxSize},
		now:     time.Now,
		cancel:  cancel,
	}
	c.startCleanup(ctx, defaultCleanupInterval)

	return c
}

// Get retrieves a value from the cache
func (c *MemoryCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLocked(key)
}

func (c *MemoryCache[V]) getLocked(key string) (V, bool) {
	var zero V

	item, exists := c.data[key]
	if !exists {
		c.stats.Misses++
		return zero, false
	}

	if !c.now().Before(item.expiresAt) {
		delete(c.data, key)
		c.stats.Size = len(c.data)
		c.stats.Misses++
		return zero, false
	}

	item.accessCount++
	c.stats.Hits++
	return item.value, true
}

// Set stores a value with the given TTL
func (c *MemoryCache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.data[key]; !exists && len(c.data) >= c.maxSize {
		c.evictLFU()
	}

	now := c.now()
	c.data[key] = &cacheItem[V]{
		value:     value,
		expiresAt: now.Add(ttl),
		createdAt: now,
	}
	c.stats.Size = len(c.data)
}

// GetOrLoad returns the cached value for key, or calls load and caches its
// result for ttl. hit reports whether the value came from the cache.
// Errors from load are returned and not cached.
func (c *MemoryCache[V]) GetOrLoad(key string, ttl time.Duration, load func() (V, error)) (value V, hit bool, err error) {
	if value, ok := c.Get(key); ok {
		return value, true, nil
	}

	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	// another caller may have loaded it while we waited
	c.mu.Lock()
	item, exists := c.data[key]
	if exists && c.now().Before(item.expiresAt) {
		c.mu.Unlock()
		return item.value, true, nil
	}
	c.mu.Unlock()

	value, err = load()
	if err != nil {
		return value, false, err
	}
	c.Set(key, value, ttl)
	return value, false, nil
}

// GetStats returns cache statistics
func (c *MemoryCache[V]) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	return stats
}

// evictLFU removes the least used item, the oldest on ties. Caller holds mu.
func (c *MemoryCache[V]) evictLFU() {
	var (
		victim       string
		oldest       time.Time
		lowestAccess int64 = -1
	)

	for key, item := range c.data {
		if lowestAccess == -1 || item.accessCount < lowestAccess ||
			(item.accessCount == lowestAccess && item.createdAt.Before(oldest)) {
			victim = key
			lowestAccess = item.accessCount
			oldest = item.createdAt
		}
	}

	if lowestAccess != -1 {
		delete(c.data, victim)
		c.stats.Evictions++
	}
}

func (c *MemoryCache[V]) startCleanup(ctx context.Context, interval time.Duration) {
	c.cleanupTicker = time.NewTicker(interval)

	go func() {
		for {
			select {
			case <-c.cleanupTicker.C:
				c.cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// cleanup removes expired items
func (c *MemoryCache[V]) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, item := range c.data {
		if !now.Before(item.expiresAt) {
			delete(c.data, key)
			c.stats.Evictions++
		}
	}
	c.stats.Size = len(c.data)
}

// Close stops the background cleanup
func (c *MemoryCache[V]) Close() {
	c.cancel()
	c.cleanupTicker.Stop()
}
