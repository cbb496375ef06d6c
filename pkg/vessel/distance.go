package vessel

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/matzehuels/vesselgen/pkg/errors"
	"github.com/matzehuels/vesselgen/pkg/graph"
	"github.com/matzehuels/vesselgen/pkg/voxel"
	"github.com/matzehuels/vesselgen/pkg/workpool"
)

// distanceChunk is the number of nodes handled by one distance job.
const distanceChunk = 64

// BuildNodes creates one node per occupied voxel, positioned at the voxel
// coordinate.
//
// Without an anchor every node starts with depth 1. With an anchor the
// starting depth is the squared distance to the anchor normalized by its
// maximum, which [DistanceField] later uses as a multiplier.
func BuildNodes(vol *voxel.Volume, anchor *voxel.Vec3) *graph.Graph {
	g := graph.New()
	maxDist := 0.0
	vol.Each(func(id voxel.ID, c voxel.Coord) {
		pos := c.Vec3()
		d := 1.0
		if anchor != nil {
			d = pos.Dist2(*anchor)
		}
		maxDist = max(maxDist, d)
		g.AddNode(id, graph.NodeData{Position: pos, Depth: d})
	})

	for _, id := range g.NodeIDs() {
		n, _ := g.Node(id)
		if maxDist > 0 {
			n.Depth /= maxDist
		} else {
			n.Depth = 1
		}
	}
	return g
}

// DistanceField computes the depth potential of every node in g.
//
// The shell of vol (empty voxels touching an occupied one) seeds the field.
// For each node the minimum squared distance to any seed plus
// jitter·U[0,1) is computed in parallel, normalized by the global maximum
// and inverted: depth = 1 - normalized·depth, where the incoming depth is
// the anchor multiplier set by [BuildNodes].
//
// Node ids are laid out in a dense slice and every job writes only its own
// range of a pre-sized result slice; the graph itself is updated after all
// jobs have finished. It returns the number of shell seeds. rng may be nil
// when p.Jitter is zero.
func DistanceField(ctx context.Context, g *graph.Graph, vol *voxel.Volume, p Params, rng *rand.Rand) (int, error) {
	ids := g.NodeIDs()
	if len(ids) == 0 {
		return 0, errors.New(errors.ErrCodeEmptyVolume, "no occupied voxels")
	}

	if rng == nil && p.Jitter > 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "jitter requires a random source")
	}

	shell := vol.Shell()
	if len(shell) == 0 {
		return 0, errors.New(errors.ErrCodeInvalidVolume,
			"volume has no empty voxel next to an occupied one; pad the volume with empty space")
	}
	seeds := make([]voxel.Vec3, len(shell))
	for i, c := range shell {
		seeds[i] = c.Vec3()
	}

	positions := make([]voxel.Vec3, len(ids))
	jitter := make([]float64, len(ids))
	for i, id := range ids {
		n, _ := g.Node(id)
		positions[i] = n.Position
		if p.Jitter > 0 {
			jitter[i] = p.Jitter * rng.Float64()
		}
	}

	results := make([]float64, len(ids))
	pool, err := workpool.New(ctx, p.workers())
	if err != nil {
		return 0, err
	}
	// Each job returns the largest distance of its chunk.
	chunks := make([]*workpool.Future[float64], 0, len(ids)/distanceChunk+1)
	for start := 0; start < len(ids); start += distanceChunk {
		end := min(start+distanceChunk, len(ids))
		chunks = append(chunks, workpool.Enqueue(pool, func(ctx context.Context) (float64, error) {
			local := 0.0
			for i := start; i < end; i++ {
				best := math.Inf(1)
				for _, s := range seeds {
					best = min(best, positions[i].Dist2(s))
				}
				results[i] = best + jitter[i]
				local = max(local, results[i])
			}
			return local, ctx.Err()
		}))
	}
	if err := pool.Wait(); err != nil {
		return 0, errors.Wrap(errors.ErrCodeCancelled, err,
			"distance field (%d of %d jobs skipped)", pool.Skipped(), len(chunks))
	}
	p.logger().Debug("computed distances",
		"jobs", pool.Completed(),
		"workers", pool.Limit(),
		"seeds", len(seeds))

	maxDist := 0.0
	for _, f := range chunks {
		m, err := f.Wait()
		if err != nil {
			return 0, errors.Invariant(err, "distance job failed after a clean wait")
		}
		maxDist = max(maxDist, m)
	}
	if maxDist <= 0 {
		maxDist = 1
	}
	for i, id := range ids {
		n, _ := g.Node(id)
		n.Depth = 1 - (results[i]/maxDist)*n.Depth
	}
	return len(seeds), nil
}
