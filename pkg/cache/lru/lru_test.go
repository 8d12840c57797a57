package lru_test

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/upac/pokerbots/pkg/cache"
	"github.com/upac/pokerbots/pkg/cache/lru"
	_ "github.com/upac/pokerbots/pkg/cache/noop"
)

func TestLRUEvicts(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()
	var evicted []string
	c, err := cache.New(ctx, "lru", lru.WithSize(2), lru.WithEvictCallback(func(key string, _ any) {
		evicted = append(evicted, key)
	}))
	is.NoErr(err)

	c.Set(ctx, "bot:1", 1)
	c.Set(ctx, "bot:2", 2)
	c.Set(ctx, "bot:3", 3)

	is.Equal(c.Len(ctx), int64(2))
	is.True(!c.Contains(ctx, "bot:1"))
	is.Equal(evicted, []string{"bot:1"})

	v, ok := c.Get(ctx, "bot:3")
	is.True(ok)
	is.Equal(v, 3)

	c.Delete(ctx, "bot:3")
	is.True(!c.Contains(ctx, "bot:3"))
}

func TestLRUExpires(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()
	now := time.Unix(0, 0)
	c, err := cache.New(ctx, "lru",
		lru.WithSize(10),
		lru.WithTTL(time.Hour),
		lru.WithClock(func() time.Time { return now }),
	)
	is.NoErr(err)

	c.Set(ctx, "team:1", 1, cache.WithTTL(time.Minute))
	// The cache default applies.
	c.Set(ctx, "team:2", 2)
	// Zero never expires.
	c.Set(ctx, "team:3", 3, cache.WithTTL(0))
	is.True(c.Contains(ctx, "team:1"))

	now = now.Add(time.Minute)
	_, ok := c.Get(ctx, "team:1")
	is.True(!ok)
	is.True(!c.Contains(ctx, "team:1"))
	v, ok := c.Get(ctx, "team:2")
	is.True(ok)
	is.Equal(v, 2)

	now = now.Add(time.Hour)
	is.True(!c.Contains(ctx, "team:2"))
	_, ok = c.Get(ctx, "team:3")
	is.True(ok)
}

func TestNoop(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()
	c, err := cache.New(ctx, "noop")
	is.NoErr(err)
	c.Set(ctx, "team:1", 1)
	_, ok := c.Get(ctx, "team:1")
	is.True(!ok)
}

func TestUnknownBackend(t *testing.T) {
	is := is.New(t)
	_, err := cache.New(context.TODO(), "redis")
	is.Equal(err, cache.ErrCacheNotFound)
}
