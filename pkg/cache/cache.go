// Package cache stores generated networks and rendered artifacts so that
// repeated runs with identical inputs skip the synthesis pipeline.
//
// A [Cache] is a byte store keyed by strings. Keys are derived by a [Keyer]
// from a content hash of the input volume and every option that influences
// the output, so a cache entry can never be served for a different input.
//
//	c, _ := cache.NewFileCache(dir)
//	c = cache.Instrument(c)
//	key := cache.NewDefaultKeyer().NetworkKey(volumeHash, opts)
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Cache is a key/value byte store with optional expiry.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Key type prefixes. They also label cache metrics.
const (
	KeyTypeNetwork  = "network"
	KeyTypeArtifact = "artifact"
)
