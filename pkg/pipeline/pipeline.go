// Package pipeline provides the complete vessel generation pipeline.
//
// This package implements the volume → network → artifacts pipeline used
// by the CLI. By centralizing option handling, caching and rendering here,
// every entry point produces identical results for identical inputs.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read an occupancy volume from JSON or build a named shape
//  2. Generate: Synthesize the vessel tree, then prune and relax it
//  3. Render: Produce the requested output formats (JSON, DOT, SVG, PNG, CSV)
//
// Generated networks and rendered artifacts are cached under keys derived
// from the volume content and every relevant option.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Shape = "torus"
//	opts.Formats = []string{"json", "svg"}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := pipeline.WriteArtifacts(result, "out")
//
// Options can also be loaded from a TOML or YAML control file with
// [LoadOptions].
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vesselgen/pkg/cache"
	"github.com/matzehuels/vesselgen/pkg/errors"
	"github.com/matzehuels/vesselgen/pkg/graph"
	"github.com/matzehuels/vesselgen/pkg/graph/transform"
	"github.com/matzehuels/vesselgen/pkg/vessel"
	"github.com/matzehuels/vesselgen/pkg/voxel"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultShape is the built-in volume used when no volume file is given.
	DefaultShape = voxel.ShapeSphere

	// DefaultSize is the edge length of the built-in shape in voxels.
	DefaultSize = 24

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultPrune is the number of leaf-stripping rounds.
	DefaultPrune = 3

	// DefaultOutput is the directory artifacts are written to.
	DefaultOutput = "."

	// BaseName is the file name stem of written artifacts.
	BaseName = "vessels"

	// VoxelDumpName is the file name of the depth dump.
	VoxelDumpName = "voxels.csv"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the vessel pipeline.
// Field tags mirror the keys of the control file.
type Options struct {
	// Input options
	Volume string `json:"volume,omitempty" toml:"volume" yaml:"volume"` // JSON volume file; overrides Shape
	Shape  string `json:"shape,omitempty" toml:"shape" yaml:"shape"`
	Size   int    `json:"size,omitempty" toml:"size" yaml:"size"`

	// Synthesis options
	RootAt             []float64 `json:"root_at,omitempty" toml:"root_at" yaml:"root_at"`
	PositionRandomness float64   `json:"position_randomness" toml:"position_randomness" yaml:"position_randomness"`
	Jitter             float64   `json:"jitter" toml:"jitter" yaml:"jitter"`
	Workers            int       `json:"workers,omitempty" toml:"workers" yaml:"workers"`
	Seed               uint64    `json:"seed" toml:"seed" yaml:"seed"`

	// Post-processing options
	Prune     int     `json:"prune" toml:"prune" yaml:"prune"`
	PruneFlow float64 `json:"prune_flow,omitempty" toml:"prune_flow" yaml:"prune_flow"`
	Relax     float64 `json:"relax" toml:"relax" yaml:"relax"`

	// Output options
	Output     string   `json:"output,omitempty" toml:"output" yaml:"output"`
	Formats    []string `json:"formats,omitempty" toml:"formats" yaml:"formats"`
	DumpVoxels bool     `json:"dump_voxels,omitempty" toml:"dump_voxels" yaml:"dump_voxels"`
	Detailed   bool     `json:"detailed,omitempty" toml:"detailed" yaml:"detailed"`
	Spatial    bool     `json:"spatial,omitempty" toml:"spatial" yaml:"spatial"`

	// Cache options
	CacheDir string `json:"cache_dir,omitempty" toml:"cache_dir" yaml:"cache_dir"`
	NoCache  bool   `json:"no_cache,omitempty" toml:"no_cache" yaml:"no_cache"`
	Refresh  bool   `json:"refresh,omitempty" toml:"refresh" yaml:"refresh"`
	// CacheScope prefixes every cache key, so runs in different scopes never
	// share entries.
	CacheScope string `json:"cache_scope,omitempty" toml:"cache_scope" yaml:"cache_scope"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-" yaml:"-"`
}

// DefaultOptions returns the options used when nothing is configured.
// Zero is a meaningful value for jitter, position randomness, seed, pruning
// and relaxation, so those defaults are only applied here and never by
// [Options.SetDefaults].
func DefaultOptions() Options {
	params := vessel.DefaultParams()
	return Options{
		Shape:              DefaultShape,
		Size:               DefaultSize,
		PositionRandomness: params.PositionRandomness,
		Jitter:             params.Jitter,
		Seed:               DefaultSeed,
		Prune:              DefaultPrune,
		Relax:              transform.DefaultRelaxFactor,
		Output:             DefaultOutput,
		Formats:            []string{FormatJSON},
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the final, pruned and relaxed network.
	Graph *graph.Graph

	// Root is the id of the tree root. It may no longer be part of Graph
	// when pruning removed it.
	Root voxel.ID

	// RunID identifies the run that generated the network.
	RunID string

	// NetworkHash is the content hash of the network JSON.
	NetworkHash string

	// Artifacts contains rendered outputs keyed by format. The depth dump,
	// when requested, is stored under [VoxelDumpName].
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether the network came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Generate     vessel.Stats
	Prune        transform.PruneStats
	NodeCount    int
	EdgeCount    int
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid format: %q (must be one of: %s)", format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func formatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills fields whose zero value is not meaningful.
func (o *Options) SetDefaults() {
	if o.Volume == "" && o.Shape == "" {
		o.Shape = DefaultShape
	}
	if o.Size == 0 {
		o.Size = DefaultSize
	}
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks every option. All failures are INVALID_CONFIG or
// INVALID_PATH errors.
func (o *Options) Validate() error {
	if o.Volume != "" {
		if err := errors.ValidatePath(o.Volume); err != nil {
			return err
		}
	} else {
		if !slices.Contains(voxel.Shapes(), o.Shape) {
			return errors.New(errors.ErrCodeInvalidConfig,
				"unknown shape %q (available: %s)", o.Shape, strings.Join(voxel.Shapes(), ", "))
		}
		if o.Size <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "size must be positive, got %d", o.Size)
		}
	}

	if len(o.RootAt) != 0 && len(o.RootAt) != 3 {
		return errors.New(errors.ErrCodeInvalidConfig, "root_at needs 3 coordinates, got %d", len(o.RootAt))
	}
	checks := []struct {
		name string
		v    float64
	}{
		{"position_randomness", o.PositionRandomness},
		{"jitter", o.Jitter},
		{"prune_flow", o.PruneFlow},
	}
	for _, c := range checks {
		if err := errors.ValidateNonNegative(c.name, c.v); err != nil {
			return err
		}
	}
	if err := errors.ValidateFraction("relax", o.Relax); err != nil {
		return err
	}
	if o.Prune < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "prune must not be negative, got %d", o.Prune)
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must not be negative, got %d", o.Workers)
	}

	if err := errors.ValidatePath(o.Output); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// ValidateAndSetDefaults applies defaults and validates.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}

// Anchor returns RootAt as a point, or nil when unset.
func (o *Options) Anchor() *voxel.Vec3 {
	if len(o.RootAt) != 3 {
		return nil
	}
	return &voxel.Vec3{X: o.RootAt[0], Y: o.RootAt[1], Z: o.RootAt[2]}
}

// Params returns the synthesis parameters for [vessel.Generate].
func (o *Options) Params(runID string) vessel.Params {
	return vessel.Params{
		Anchor:             o.Anchor(),
		Jitter:             o.Jitter,
		PositionRandomness: o.PositionRandomness,
		Workers:            o.Workers,
		RunID:              runID,
		Logger:             o.Logger,
	}
}

// NetworkKeyOpts returns cache key options for network generation.
func (o *Options) NetworkKeyOpts() cache.NetworkKeyOpts {
	return cache.NetworkKeyOpts{
		Anchor:             o.RootAt,
		Jitter:             o.Jitter,
		PositionRandomness: o.PositionRandomness,
		Seed:               o.Seed,
		Prune:              o.Prune,
		PruneFlow:          o.PruneFlow,
		Relax:              o.Relax,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed,
		Spatial:  o.Spatial,
	}
}

// Describe returns a short human readable summary of the input.
func (o *Options) Describe() string {
	if o.Volume != "" {
		return o.Volume
	}
	return fmt.Sprintf("%s(%d)", o.Shape, o.Size)
}
