package lru

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/upac/pokerbots/pkg/cache"
)

func init() {
	cache.Register("lru", newCache)
}

type entry struct {
	value   any
	expires time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// Cache is a memory cache that uses a LRU cache policy. Items set with a
// TTL are dropped on the first access after they expire.
type Cache struct {
	cache   *lru.Cache[string, entry]
	onEvict func(key string, value any)
	size    int
	ttl     time.Duration
	now     func() time.Time
}

var _ cache.Cache = (*Cache)(nil)

// WithSize sets the cache size.
func WithSize(s int) cache.Option {
	return func(c cache.Cache) {
		if ca, ok := c.(*Cache); ok {
			ca.size = s
		}
	}
}

// WithEvictCallback sets the eviction callback.
func WithEvictCallback(cb func(key string, value any)) cache.Option {
	return func(c cache.Cache) {
		if ca, ok := c.(*Cache); ok {
			ca.onEvict = cb
		}
	}
}

// WithTTL sets the TTL of items set without one.
func WithTTL(d time.Duration) cache.Option {
	return func(c cache.Cache) {
		if ca, ok := c.(*Cache); ok {
			ca.ttl = d
		}
	}
}

// WithClock sets the time source used for expiry.
func WithClock(now func() time.Time) cache.Option {
	return func(c cache.Cache) {
		if ca, ok := c.(*Cache); ok && now != nil {
			ca.now = now
		}
	}
}

// newCache returns a new Cache.
func newCache(_ context.Context, opts ...cache.Option) (cache.Cache, error) {
	c := &Cache{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}

	if c.size <= 0 {
		c.size = 1
	}

	var evict func(string, entry)
	if c.onEvict != nil {
		evict = func(key string, e entry) {
			c.onEvict(key, e.value)
		}
	}

	var err error
	c.cache, err = lru.NewWithEvict(c.size, evict)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Delete implements cache.Cache.
func (c *Cache) Delete(_ context.Context, key string) {
	c.cache.Remove(key)
}

// Get implements cache.Cache.
func (c *Cache) Get(_ context.Context, key string) (any, bool) {
	e, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	if e.expired(c.now()) {
		c.cache.Remove(key)
		return nil, false
	}
	return e.value, true
}

// Set implements cache.Cache.
func (c *Cache) Set(_ context.Context, key string, val any, opts ...cache.ItemOption) {
	o := cache.NewItemOptions(cache.WithTTL(c.ttl))
	for _, opt := range opts {
		opt(&o)
	}
	e := entry{value: val}
	if o.TTL > 0 {
		e.expires = c.now().Add(o.TTL)
	}
	c.cache.Add(key, e)
}

// Len implements cache.Cache. Expired items not yet accessed are counted.
func (c *Cache) Len(_ context.Context) int64 {
	return int64(c.cache.Len())
}

// Contains implements cache.Cache.
func (c *Cache) Contains(_ context.Context, key string) bool {
	e, ok := c.cache.Peek(key)
	return ok && !e.expired(c.now())
}
