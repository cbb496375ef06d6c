package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/vesselgen/pkg/cache"
	"github.com/matzehuels/vesselgen/pkg/errors"
	"github.com/matzehuels/vesselgen/pkg/graph"
	"github.com/matzehuels/vesselgen/pkg/graph/transform"
	graphio "github.com/matzehuels/vesselgen/pkg/io"
	"github.com/matzehuels/vesselgen/pkg/vessel"
	"github.com/matzehuels/vesselgen/pkg/voxel"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  cache.Instrument(c),
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → generate → render pipeline with caching.
//
// A cached network is reused unless opts.Refresh or opts.DumpVoxels is set;
// the depth dump needs the intermediate distance field, which is only
// available while generating.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	vol, err := LoadVolume(opts)
	if err != nil {
		return nil, fmt.Errorf("load volume: %w", err)
	}
	r.Logger.Info("loaded volume", "input", opts.Describe(), "voxels", vol.Count())

	result := &Result{Artifacts: make(map[string][]byte)}

	genStart := time.Now()
	network, err := r.network(ctx, vol, opts, result)
	if err != nil {
		return nil, err
	}
	result.Stats.GenerateTime = time.Since(genStart)
	result.Stats.NodeCount = result.Graph.NodeCount()
	result.Stats.EdgeCount = result.Graph.EdgeCount()
	result.NetworkHash = cache.Hash(network)

	r.Logger.Info("generated network",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"cached", result.CacheHit,
		"duration", result.Stats.GenerateTime)

	renderStart := time.Now()
	artifacts, err := r.RenderWithCache(ctx, result.Graph, result.NetworkHash, network, result.Root, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	for f, data := range artifacts {
		result.Artifacts[f] = data
	}
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// network returns the encoded network JSON, generating it on a cache miss.
// It fills the graph, root, run id and stats of result.
func (r *Runner) network(ctx context.Context, vol *voxel.Volume, opts Options, result *Result) ([]byte, error) {
	volHash, err := cache.HashWriter(func(w io.Writer) error { return graphio.WriteVolume(vol, w) })
	if err != nil {
		return nil, fmt.Errorf("hash volume: %w", err)
	}
	key := r.Keyer.NetworkKey(volHash, opts.NetworkKeyOpts())

	if !opts.Refresh && !opts.DumpVoxels {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			g, meta, err := graphio.ReadJSON(bytes.NewReader(data))
			if err == nil {
				result.Graph, result.Root, result.RunID = g, meta.Root, meta.RunID
				result.CacheHit = true
				return data, nil
			}
			r.Logger.Warn("discarding unreadable cache entry", "key", key, "error", err)
		}
	}

	runID := uuid.NewString()
	params := opts.Params(runID)
	if opts.DumpVoxels {
		params.OnDepths = func(g *graph.Graph) error {
			var buf bytes.Buffer
			if err := graphio.WriteVoxelCSV(g, vol.Index(), &buf); err != nil {
				return err
			}
			result.Artifacts[VoxelDumpName] = buf.Bytes()
			return nil
		}
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef))
	res, err := vessel.Generate(ctx, vol, params, rng)
	if err != nil {
		return nil, err
	}
	g := res.Graph

	result.Stats.Prune = transform.Prune(g, opts.Prune, opts.PruneFlow)
	transform.Relax(g, opts.Relax)
	r.Logger.Debug("post-processed network",
		"culled", result.Stats.Prune.Culled,
		"rounds", result.Stats.Prune.Rounds,
		"relax", opts.Relax)

	var buf bytes.Buffer
	if err := graphio.WriteJSON(g, graphio.Meta{RunID: runID, Root: res.Root}, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode network")
	}
	data := buf.Bytes()

	if !opts.NoCache {
		if err := r.Cache.Set(ctx, key, data, 0); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "error", err)
		}
	}

	result.Graph, result.Root, result.RunID = g, res.Root, runID
	result.Stats.Generate = res.Stats
	return data, nil
}

// RenderWithCache produces every requested format for a network. network
// is its JSON encoding, which is returned as is for the json format. Other
// formats are looked up in the cache by networkHash first.
func (r *Runner) RenderWithCache(ctx context.Context, g *graph.Graph, networkHash string, network []byte, root voxel.ID, opts Options) (map[string][]byte, error) {
	out := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, f := range opts.Formats {
		if f == FormatJSON {
			out[f] = network
			continue
		}
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(networkHash, opts.ArtifactKeyOpts(f))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				out[f] = data
				continue
			}
		}
		missing = append(missing, f)
	}
	if len(missing) == 0 {
		return out, nil
	}

	rendered, err := Render(ctx, g, root, missing, opts)
	if err != nil {
		return nil, err
	}
	for f, data := range rendered {
		out[f] = data
		if opts.NoCache {
			continue
		}
		key := r.Keyer.ArtifactKey(networkHash, opts.ArtifactKeyOpts(f))
		if err := r.Cache.Set(ctx, key, data, 0); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return out, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// LoadVolume reads opts.Volume, or builds the configured shape when no
// volume file is set.
func LoadVolume(opts Options) (*voxel.Volume, error) {
	if opts.Volume != "" {
		return graphio.ImportVolume(opts.Volume)
	}
	return voxel.Build(opts.Shape, opts.Size)
}
