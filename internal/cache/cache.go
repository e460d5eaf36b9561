// Package cache provides thread-safe generic caching, the list snapshot
// stores and the rendered markdown cache.
package cache

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var cacheLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	cacheLogger = l
}

type entry[V any] struct {
	value   V
	expires time.Time
}

// Cache is a map guarded by a RWMutex. With a TTL, entries older than the
// TTL read as missing and are swept out by a later Set.
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]entry[V]

	ttl       time.Duration
	now       func() time.Time
	nextSweep time.Time
}

func NewCache[K comparable, V any]() *Cache[K, V] {
	return NewCacheWithTTL[K, V](0)
}

func NewCacheWithTTL[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	return NewCacheWithClock[K, V](ttl, time.Now)
}

// NewCacheWithClock is NewCacheWithTTL reading the time from now.
func NewCacheWithClock[K comparable, V any](ttl time.Duration, now func() time.Time) *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]entry[V]),
		ttl:   ttl,
		now:   now,
	}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.items[key]
	if !ok || c.expired(e) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweep()
	c.items[key] = c.wrap(value)
}

func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]entry[V])
}

// Len counts entries, expired ones included until the next sweep.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache[K, V]) wrap(value V) entry[V] {
	e := entry[V]{value: value}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	return e
}

func (c *Cache[K, V]) expired(e entry[V]) bool {
	return !e.expires.IsZero() && !c.now().Before(e.expires)
}

// sweep drops expired entries, at most once per TTL. Callers hold mu.
func (c *Cache[K, V]) sweep() {
	if c.ttl <= 0 {
		return
	}
	now := c.now()
	if now.Before(c.nextSweep) {
		return
	}
	for k, e := range c.items {
		if c.expired(e) {
			delete(c.items, k)
		}
	}
	c.nextSweep = now.Add(c.ttl)
}
