package cache

import "strings"

// NetworkKeyOpts lists every option that changes a generated network.
type NetworkKeyOpts struct {
	Anchor             []float64 `json:"anchor,omitempty"`
	Jitter             float64   `json:"jitter"`
	PositionRandomness float64   `json:"position_randomness"`
	Seed               uint64    `json:"seed"`
	Prune              int       `json:"prune"`
	PruneFlow          float64   `json:"prune_flow"`
	Relax              float64   `json:"relax"`
}

// ArtifactKeyOpts lists every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
	Spatial  bool   `json:"spatial,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// NetworkKey returns the key of the network generated from the volume
	// with the given content hash.
	NetworkKey(volumeHash string, opts NetworkKeyOpts) string

	// ArtifactKey returns the key of an artifact rendered from the network
	// with the given content hash.
	ArtifactKey(networkHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the inputs into "type:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// NetworkKey implements [Keyer].
func (DefaultKeyer) NetworkKey(volumeHash string, opts NetworkKeyOpts) string {
	return hashKey(KeyTypeNetwork, volumeHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(networkHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, networkHash, opts)
}

// KeyType returns the type prefix of a key produced by a [Keyer], ignoring
// any scope prefix.
func KeyType(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return "unknown"
	}
	return parts[len(parts)-2]
}

var _ Keyer = DefaultKeyer{}
