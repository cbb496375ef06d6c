package cache

import (
	"context"
	"time"

	"github.com/matzehuels/vesselgen/pkg/observability"
)

// instrumented reports hits, misses and writes to the registered cache hooks.
type instrumented struct {
	Cache
}

// Instrument wraps c so that every Get and Set is reported to
// [observability.Cache]. Hooks are looked up on each call, so hooks
// registered after wrapping are honoured.
func Instrument(c Cache) Cache {
	if _, ok := c.(instrumented); ok {
		return c
	}
	return instrumented{Cache: c}
}

func (c instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, KeyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, KeyType(key))
		}
	}
	return data, hit, err
}

func (c instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, KeyType(key), len(data))
	}
	return err
}
