package vessel

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vesselgen/pkg/errors"
	"github.com/matzehuels/vesselgen/pkg/graph"
	"github.com/matzehuels/vesselgen/pkg/observability"
	"github.com/matzehuels/vesselgen/pkg/voxel"
)

// Stage names reported to observability hooks and in error messages.
const (
	StageNodes      = "nodes"
	StageDistance   = "distance"
	StageConnect    = "connect"
	StageComponents = "components"
	StageMST        = "mst"
	StageTree       = "tree"
	StageFlow       = "flow"
	StageAssemble   = "assemble"
)

// Stats summarizes a [Generate] run.
type Stats struct {
	Voxels     int // Occupied voxels in the input
	Seeds      int // Shell seeds of the distance field
	Superflow  int // Edges of the gradient graph
	Components int // Connected components before cleanup
	Removed    int // Nodes dropped outside the largest component
	Nodes      int // Nodes of the final network

	StageTimes map[string]time.Duration
}

// Result is the output of [Generate].
type Result struct {
	Graph *graph.Graph // Final network: positions, depth, flow, parent → child edges
	Root  voxel.ID
	Stats Stats
}

type run struct {
	ctx    context.Context
	logger *log.Logger
	stats  Stats
}

func (r *run) stage(name string, fn func() (int, error)) error {
	if err := r.ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeCancelled, err, "%s", name)
	}
	start := time.Now()
	n, err := fn()
	d := time.Since(start)
	r.stats.StageTimes[name] = d
	observability.Pipeline().OnStageComplete(r.ctx, name, n, d, err)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	r.logger.Debug("stage complete", "stage", name, "items", n, "duration", d)
	return nil
}

// Generate synthesizes a vessel tree from vol.
//
// The context is checked between stages and by the distance workers; a
// cancelled run returns a CANCELLED error and no network. rng supplies all
// randomness and may only be nil when both p.Jitter and
// p.PositionRandomness are zero.
func Generate(ctx context.Context, vol *voxel.Volume, p Params, rng *rand.Rand) (*Result, error) {
	if vol == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "volume is required")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if rng == nil && (p.Jitter > 0 || p.PositionRandomness > 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "random source is required")
	}

	start := time.Now()
	logger := p.logger()
	if p.RunID != "" {
		logger = logger.With("run", p.RunID)
	}
	r := &run{ctx: ctx, logger: logger, stats: Stats{Voxels: vol.Count(), StageTimes: map[string]time.Duration{}}}

	observability.Pipeline().OnGenerateStart(ctx, p.RunID, r.stats.Voxels)
	res, err := r.generate(vol, p, rng)
	nodes := 0
	if res != nil {
		nodes = res.Graph.NodeCount()
	}
	observability.Pipeline().OnGenerateComplete(ctx, p.RunID, nodes, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *run) generate(vol *voxel.Volume, p Params, rng *rand.Rand) (*Result, error) {
	var g *graph.Graph
	if err := r.stage(StageNodes, func() (int, error) {
		if r.stats.Voxels == 0 {
			return 0, errors.New(errors.ErrCodeEmptyVolume, "volume has no occupied voxels")
		}
		g = BuildNodes(vol, p.Anchor)
		return g.NodeCount(), nil
	}); err != nil {
		return nil, err
	}
	r.logger.Info("built nodes", "nodes", g.NodeCount())

	if err := r.stage(StageDistance, func() (int, error) {
		n, err := DistanceField(r.ctx, g, vol, p, rng)
		r.stats.Seeds = n
		return n, err
	}); err != nil {
		return nil, err
	}
	r.logger.Info("computed distance field", "seeds", r.stats.Seeds)

	if p.OnDepths != nil {
		if err := p.OnDepths(g); err != nil {
			return nil, fmt.Errorf("depth dump: %w", err)
		}
	}

	if err := r.stage(StageConnect, func() (int, error) {
		n, err := ConnectGradient(g, vol)
		r.stats.Superflow = n
		return n, err
	}); err != nil {
		return nil, err
	}
	r.logger.Info("connected nodes", "edges", r.stats.Superflow)

	if err := r.stage(StageComponents, func() (int, error) {
		removed, comps, err := KeepLargestComponent(g)
		r.stats.Removed, r.stats.Components = removed, comps
		return g.NodeCount(), err
	}); err != nil {
		return nil, err
	}
	r.logger.Info("cleaned components",
		"components", r.stats.Components,
		"removed", r.stats.Removed,
		"nodes", g.NodeCount())

	var mst []graph.EdgeKey
	if err := r.stage(StageMST, func() (int, error) {
		var err error
		mst, err = g.MinSpanningTree()
		return len(mst), err
	}); err != nil {
		return nil, err
	}

	Reposition(g, rng, p.PositionRandomness)

	var root voxel.ID
	var tree *graph.Tree
	if err := r.stage(StageTree, func() (int, error) {
		var err error
		if root, err = StartNode(g, p.Anchor); err != nil {
			return 0, err
		}
		tree, err = BuildTree(mst, root)
		if err != nil {
			return 0, err
		}
		return tree.NodeCount(), nil
	}); err != nil {
		return nil, err
	}
	r.logger.Info("built tree", "edges", len(mst), "root", root)

	var flow map[voxel.ID]float64
	if err := r.stage(StageFlow, func() (int, error) {
		var err error
		flow, err = ComputeFlow(tree)
		return len(flow), err
	}); err != nil {
		return nil, err
	}

	var out *graph.Graph
	if err := r.stage(StageAssemble, func() (int, error) {
		var err error
		out, err = Assemble(g, tree, flow)
		if err != nil {
			return 0, err
		}
		return out.NodeCount(), nil
	}); err != nil {
		return nil, err
	}
	r.stats.Nodes = out.NodeCount()
	r.logger.Info("assembled network", "nodes", out.NodeCount(), "edges", out.EdgeCount())

	return &Result{Graph: out, Root: root, Stats: r.stats}, nil
}
