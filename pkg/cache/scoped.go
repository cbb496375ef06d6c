package cache

// ScopedKeyer wraps a Keyer with a prefix so that separate projects can
// share one cache directory without colliding.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "liver-study:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// NetworkKey generates a prefixed key for network caching.
func (k *ScopedKeyer) NetworkKey(volumeHash string, opts NetworkKeyOpts) string {
	return k.prefix + k.inner.NetworkKey(volumeHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(networkHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(networkHash, opts)
}
