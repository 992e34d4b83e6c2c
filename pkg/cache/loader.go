package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// LoadFunc computes a value on a cache miss. It returns the value and the
// TTL to cache it with.
type LoadFunc[V any] func(ctx context.Context) (V, time.Duration, error)

// Loader fronts a Cache with a singleflight group, so concurrent misses for
// the same key run the load function once.
type Loader[V any] struct {
	cache Cache[V]
	group singleflight.Group
}

// NewLoader wraps c.
func NewLoader[V any](c Cache[V]) *Loader[V] {
	return &Loader[V]{cache: c}
}

type loaded[V any] struct {
	val V
	ttl time.Duration
}

// GetOrSet retrieves a value from the cache, or calls fn to compute it on a miss.
// If fn returns an error, nothing is cached and the error is returned.
// A failing cache write is ignored: the computed value is still returned.
func (l *Loader[V]) GetOrSet(ctx context.Context, key string, fn LoadFunc[V]) (V, error) {
	if v, err := l.cache.Get(ctx, key); err == nil {
		return v, nil
	}

	v, err, _ := l.group.Do(key, func() (any, error) {
		val, ttl, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		_ = l.cache.Set(ctx, key, val, ttl)
		return loaded[V]{val: val, ttl: ttl}, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	return v.(loaded[V]).val, nil
}

// Forget drops a cached value.
func (l *Loader[V]) Forget(ctx context.Context, key string) error {
	l.group.Forget(key)
	return l.cache.Delete(ctx, key)
}
