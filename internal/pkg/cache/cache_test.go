//go:build unit

package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"rentyard/internal/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, opts ...cache.Option) *cache.Cache {
	t.Helper()
	c := cache.New(0, opts...)
	t.Cleanup(c.Close)
	return c
}

func TestGetSet(t *testing.T) {
	t.Run("returns stored value on hit", func(t *testing.T) {
		c := newTestCache(t)
		c.Set("k", "v")

		v, ok := c.Get("k")
		require.True(t, ok)
		assert.Equal(t, "v", v)
	})

	t.Run("misses unknown key", func(t *testing.T) {
		c := newTestCache(t)
		_, ok := c.Get("absent")
		assert.False(t, ok)
	})

	t.Run("entry past its TTL is evicted and reported as a miss", func(t *testing.T) {
		c := newTestCache(t)
		c.SetWithTTL("k", "v", 10*time.Millisecond)

		time.Sleep(20 * time.Millisecond)

		_, ok := c.Get("k")
		assert.False(t, ok)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("zero or negative TTL means effectively uncached", func(t *testing.T) {
		c := newTestCache(t)
		c.SetWithTTL("zero", "v", 0)
		c.SetWithTTL("neg", "v", -time.Second)

		_, ok := c.Get("zero")
		assert.False(t, ok)
		_, ok = c.Get("neg")
		assert.False(t, ok)
	})

	t.Run("set refreshes an existing entry in place", func(t *testing.T) {
		c := newTestCache(t)
		c.SetWithTTL("k", "old", -time.Second)
		c.Set("k", "new")

		v, ok := c.Get("k")
		require.True(t, ok)
		assert.Equal(t, "new", v)
	})
}

func TestHas(t *testing.T) {
	now := time.Now()
	current := now
	c := newTestCache(t, cache.WithNowFunc(func() time.Time { return current }), cache.WithCapacity(2))

	c.SetWithTTL("k", "v", time.Minute)
	assert.True(t, c.Has("k"))
	assert.False(t, c.Has("absent"))

	// Has must not refresh recency: "k" stays oldest and is the LRU victim.
	c.Set("other", 1)
	c.Has("k")
	c.Set("third", 2)

	assert.False(t, c.Has("k"))
	assert.True(t, c.Has("other"))
	assert.True(t, c.Has("third"))

	// Has applies the expiry check.
	current = now.Add(2 * time.Minute)
	c.SetWithTTL("expiring", "v", -time.Second)
	assert.False(t, c.Has("expiring"))
}

func TestLRUEviction(t *testing.T) {
	t.Run("evicts the oldest last-accessed entry at capacity", func(t *testing.T) {
		c := newTestCache(t, cache.WithCapacity(3))
		c.Set("a", 1)
		c.Set("b", 2)
		c.Set("c", 3)

		// Touch "a" so "b" becomes the oldest.
		_, ok := c.Get("a")
		require.True(t, ok)

		c.Set("d", 4)

		assert.Equal(t, 3, c.Len())
		assert.False(t, c.Has("b"))
		assert.True(t, c.Has("a"))
		assert.True(t, c.Has("c"))
		assert.True(t, c.Has("d"))
	})

	t.Run("evicts exactly one entry per insertion", func(t *testing.T) {
		c := newTestCache(t, cache.WithCapacity(2))
		c.Set("a", 1)
		c.Set("b", 2)
		c.Set("c", 3)

		assert.Equal(t, 2, c.Len())
	})
}

func TestInvalidatePattern(t *testing.T) {
	c := newTestCache(t)
	c.Set("booking:list:a", 1)
	c.Set("booking:list:b", 2)
	c.Set("stats:x", 3)

	removed := c.InvalidatePattern("booking:list")

	assert.Equal(t, 2, removed)
	assert.False(t, c.Has("booking:list:a"))
	assert.False(t, c.Has("booking:list:b"))
	assert.True(t, c.Has("stats:x"))

	assert.Equal(t, 0, c.InvalidatePattern("booking:list"))
}

func TestSweep(t *testing.T) {
	now := time.Now()
	current := now
	c := newTestCache(t, cache.WithNowFunc(func() time.Time { return current }))

	c.Set("forever", "v")
	c.SetWithTTL("short", "v", time.Minute)
	c.SetWithTTL("long", "v", time.Hour)

	current = now.Add(30 * time.Minute)
	assert.Equal(t, 1, c.Sweep())

	// Entries without a TTL never expire under the sweep.
	current = now.Add(1000 * time.Hour)
	assert.Equal(t, 1, c.Sweep())
	assert.True(t, c.Has("forever"))
	assert.Equal(t, 1, c.Len())
}

func TestDeleteAndClear(t *testing.T) {
	c := newTestCache(t)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	assert.False(t, c.Has("a"))
	assert.True(t, c.Has("b"))

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestCached(t *testing.T) {
	ctx := context.Background()

	t.Run("calls through on miss and stores the result", func(t *testing.T) {
		c := newTestCache(t)
		calls := 0
		fn := func(context.Context) (string, error) {
			calls++
			return "computed", nil
		}

		v, err := cache.Cached(ctx, c, "k", time.Minute, fn)
		require.NoError(t, err)
		assert.Equal(t, "computed", v)

		v, err = cache.Cached(ctx, c, "k", time.Minute, fn)
		require.NoError(t, err)
		assert.Equal(t, "computed", v)
		assert.Equal(t, 1, calls, "hit must not invoke the read")
	})

	t.Run("does not cache errors", func(t *testing.T) {
		c := newTestCache(t)
		calls := 0
		fn := func(context.Context) (int, error) {
			calls++
			return 0, errors.New("read failed")
		}

		_, err := cache.Cached(ctx, c, "k", time.Minute, fn)
		require.Error(t, err)
		_, err = cache.Cached(ctx, c, "k", time.Minute, fn)
		require.Error(t, err)
		assert.Equal(t, 2, calls)
	})
}
