package vessel

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vesselgen/pkg/errors"
	"github.com/matzehuels/vesselgen/pkg/graph"
	"github.com/matzehuels/vesselgen/pkg/voxel"
	"github.com/matzehuels/vesselgen/pkg/workpool"
)

const (
	// DefaultJitter scales the uniform noise added to squared shell distances.
	DefaultJitter = 10.0

	// DefaultPositionRandomness is the half-width of the cube from which
	// position offsets are drawn by [Reposition].
	DefaultPositionRandomness = 0.5
)

// Params configures a [Generate] run.
type Params struct {
	// Anchor, when set, pulls the root towards this point in voxel space.
	Anchor *voxel.Vec3

	// Jitter scales the noise added to every squared shell distance.
	Jitter float64

	// PositionRandomness bounds the per-axis offset applied by [Reposition].
	PositionRandomness float64

	// Workers limits concurrent distance jobs. Zero means workpool.DefaultLimit.
	Workers int

	// RunID is attached to hook events and log lines.
	RunID string

	// Logger receives progress messages. Nil discards them.
	Logger *log.Logger

	// OnDepths, when set, is called with the superflow graph right after the
	// distance field has been computed. It is used for diagnostic dumps.
	OnDepths func(g *graph.Graph) error
}

// DefaultParams returns the parameters used when nothing is configured.
func DefaultParams() Params {
	return Params{
		Jitter:             DefaultJitter,
		PositionRandomness: DefaultPositionRandomness,
	}
}

// Validate checks the numeric parameters.
func (p Params) Validate() error {
	if err := errors.ValidateNonNegative("jitter", p.Jitter); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("position randomness", p.PositionRandomness); err != nil {
		return err
	}
	if p.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must not be negative, got %d", p.Workers)
	}
	return nil
}

func (p Params) workers() int {
	if p.Workers == 0 {
		return workpool.DefaultLimit()
	}
	return p.Workers
}

func (p Params) logger() *log.Logger {
	if p.Logger == nil {
		return log.New(io.Discard)
	}
	return p.Logger
}
