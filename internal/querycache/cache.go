// Package querycache keeps fetched query results keyed by name, with a
// freshness window and explicit invalidation. Stale entries are refetched
// on the next read; nothing is refetched in the background.
package querycache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DefaultStaleTime is how long a fetched result counts as fresh.
const DefaultStaleTime = 5 * time.Minute

type entry struct {
	data        any
	fetchedAt   time.Time
	invalidated bool
}

// Cache is safe for concurrent use and is meant to be shared by every reader of a query.
type Cache struct {
	mu        sync.Mutex
	entries   map[string]*entry
	staleTime time.Duration
	now       func() time.Time

	// generation advances on every Invalidate.
	generation uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithStaleTime overrides the freshness window.
func WithStaleTime(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.staleTime = d
		}
	}
}

// WithClock replaces time.Now, used by tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New builds an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:   make(map[string]*entry),
		staleTime: DefaultStaleTime,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StaleTime returns the configured freshness window.
func (c *Cache) StaleTime() time.Duration {
	return c.staleTime
}

// IsStale reports whether the next read of key must fetch. Missing keys are stale.
func (c *Cache) IsStale(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isStaleLocked(key)
}

func (c *Cache) isStaleLocked(key string) bool {
	e, ok := c.entries[key]
	if !ok {
		return true
	}
	return e.invalidated || c.now().Sub(e.fetchedAt) >= c.staleTime
}

// store records a value fetched while the cache was at generation started.
func (c *Cache) store(key string, data any, started uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &entry{data: data, fetchedAt: c.now(), invalidated: c.generation != started}
}

// Invalidate marks key and every key under "key/" stale. Cached data is kept until refetched.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	prefix := key + "/"
	for k, e := range c.entries {
		if k == key || strings.HasPrefix(k, prefix) {
			e.invalidated = true
		}
	}
}

// Query returns the cached value for key while it is fresh, otherwise calls
// fetch and caches its result. Fetch errors leave the previous entry untouched.
// A result whose fetch overlapped an Invalidate is stored already stale.
func Query[T any](ctx context.Context, c *Cache, key string, fetch func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	if !c.isStaleLocked(key) {
		if v, ok := c.entries[key].data.(T); ok {
			c.mu.Unlock()
			return v, nil
		}
	}
	started := c.generation
	c.mu.Unlock()

	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.store(key, v, started)
	return v, nil
}
