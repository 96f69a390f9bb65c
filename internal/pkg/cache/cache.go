// Package cache provides the in-process query result cache: per-entry TTL,
// LRU eviction under a capacity bound, substring-based invalidation after
// writes, and a background sweep that evicts expired entries nobody reads.
package cache

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"
)

const (
	DefaultCapacity      = 1000
	DefaultSweepInterval = 5 * time.Minute
)

type entry struct {
	key            string
	value          any
	createdAt      time.Time
	lastAccessedAt time.Time
	expiresAt      time.Time // zero => no TTL
	elem           *list.Element
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Cache is safe for concurrent use. Construct it at process start, inject it
// where needed, and Close it on shutdown; it is never a package global.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*entry
	order    *list.List // front = most recently used
	capacity int
	now      func() time.Time

	sweepStop chan struct{}
	sweepDone chan struct{}
}

type Option func(*Cache)

func WithCapacity(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithNowFunc overrides the time source. Tests use this to drive expiry
// without sleeping.
func WithNowFunc(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a cache and starts its sweep goroutine. sweepInterval <= 0
// disables the background sweep (expiry is then enforced lazily on access).
func New(sweepInterval time.Duration, opts ...Option) *Cache {
	c := &Cache{
		entries:  make(map[string]*entry),
		order:    list.New(),
		capacity: DefaultCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if sweepInterval > 0 {
		c.sweepStop = make(chan struct{})
		c.sweepDone = make(chan struct{})
		go c.sweepLoop(sweepInterval)
	}
	return c
}

// Get returns the value for key unless it is missing or expired. A hit
// refreshes the entry's last-accessed timestamp and LRU position; an expired
// entry is evicted and reported as a miss.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	now := c.now()
	if e.expired(now) {
		c.removeLocked(e)
		return nil, false
	}
	e.lastAccessedAt = now
	c.order.MoveToFront(e.elem)
	return e.value, true
}

// Set stores a value with no expiry. It never falls to the sweep.
func (c *Cache) Set(key string, value any) {
	c.set(key, value, time.Time{})
}

// SetWithTTL stores a value that expires after ttl. A zero or negative ttl
// stores an already-expired entry, so the key is effectively uncached.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.set(key, value, c.now().Add(ttl))
}

func (c *Cache) set(key string, value any, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.createdAt = now
		e.lastAccessedAt = now
		e.expiresAt = expiresAt
		c.order.MoveToFront(e.elem)
		return
	}

	if len(c.entries) >= c.capacity {
		c.evictOldestLocked()
	}

	e := &entry{
		key:            key,
		value:          value,
		createdAt:      now,
		lastAccessedAt: now,
		expiresAt:      expiresAt,
	}
	e.elem = c.order.PushFront(e)
	c.entries[key] = e
}

// Has reports whether key holds a live entry. It applies the same expiry
// check as Get but does not refresh recency.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	if e.expired(c.now()) {
		c.removeLocked(e)
		return false
	}
	return true
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		c.removeLocked(e)
	}
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
	c.order.Init()
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// InvalidatePattern removes every entry whose key contains the given
// substring and returns the number removed. Matching is literal substring
// containment, so related keys must share a literal common prefix
// (e.g. "booking:list:").
func (c *Cache) InvalidatePattern(substring string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if strings.Contains(key, substring) {
			c.removeLocked(e)
			removed++
		}
	}
	return removed
}

// Close stops the sweep goroutine. The cache stays usable afterwards; expiry
// is then enforced only on access.
func (c *Cache) Close() {
	if c.sweepStop == nil {
		return
	}
	select {
	case <-c.sweepDone:
		return
	default:
	}
	close(c.sweepStop)
	<-c.sweepDone
}

// Sweep evicts every expired entry regardless of access patterns and returns
// the number evicted. The background loop calls this; tests call it directly.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for _, e := range c.entries {
		if e.expired(now) {
			c.removeLocked(e)
			removed++
		}
	}
	return removed
}

func (c *Cache) sweepLoop(interval time.Duration) {
	defer close(c.sweepDone)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.sweepStop:
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

func (c *Cache) evictOldestLocked() {
	if back := c.order.Back(); back != nil {
		c.removeLocked(back.Value.(*entry))
	}
}

func (c *Cache) removeLocked(e *entry) {
	c.order.Remove(e.elem)
	delete(c.entries, e.key)
}

// Cached wraps a read so its result is cached under key for ttl. On a miss
// the read runs and its result is stored; on a hit the read is never invoked.
// This is the only way reads populate the cache. Errors are not cached.
func Cached[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
		// A type clash means two callers share a key; treat as a miss.
		c.Delete(key)
	}

	result, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.SetWithTTL(key, result, ttl)
	return result, nil
}
