// Package cache provides a small key/value cache used to avoid repeated
// lookups of bots and teams.
package cache

import (
	"context"
	"time"
)

// ItemOptions holds the per item settings of Set.
type ItemOptions struct {
	// TTL is how long the item stays valid. Zero keeps it until evicted.
	TTL time.Duration
}

// ItemOption is an option for setting cache items.
type ItemOption func(*ItemOptions)

// WithTTL expires the item after d.
func WithTTL(d time.Duration) ItemOption {
	return func(o *ItemOptions) {
		o.TTL = d
	}
}

// NewItemOptions applies opts to the zero ItemOptions.
func NewItemOptions(opts ...ItemOption) ItemOptions {
	var o ItemOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option is an option for creating new cache.
type Option func(Cache)

// Cache is a caching interface. Expired items are never returned.
type Cache interface {
	Get(ctx context.Context, key string) (value any, ok bool)
	Set(ctx context.Context, key string, val any, opts ...ItemOption)
	Len(ctx context.Context) int64
	Contains(ctx context.Context, key string) bool
	Delete(ctx context.Context, key string)
}
