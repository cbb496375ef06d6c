package cache

import "errors"

// ErrEmptyKey is returned when a cache operation is called with an empty key.
var ErrEmptyKey = errors.New("empty cache key")
