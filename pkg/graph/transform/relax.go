package transform

import (
	"math"

	"github.com/matzehuels/vesselgen/pkg/graph"
)

const (
	// DefaultRelaxFactor is the fraction of the way a node moves towards
	// each neighbour midpoint.
	DefaultRelaxFactor = 0.5

	// RadiusScale converts sqrt(flow/π) to voxel units.
	RadiusScale = 0.01

	// MinRadius is the smallest radius returned by [Radius].
	MinRadius = 1e-4
)

// Relax smooths sharp bends by moving every node towards the midpoint of
// each ordered pair of its neighbours. Nodes with fewer than two neighbours
// keep their position. A factor of zero leaves g unchanged.
func Relax(g *graph.Graph, factor float64) {
	if factor == 0 {
		return
	}
	for _, id := range g.NodeIDs() {
		nbs := g.Neighbors(id)
		if len(nbs) < 2 {
			continue
		}
		n, _ := g.Node(id)
		for _, a := range nbs {
			for _, b := range nbs {
				if a == b {
					continue
				}
				pa, _ := g.Node(a)
				pb, _ := g.Node(b)
				mid := pa.Position.Add(pb.Position).Scale(0.5)
				n.Position = n.Position.Add(mid.Sub(n.Position).Scale(factor))
			}
		}
	}
}

// Radius maps a flow value to a vessel radius: sqrt(flow/π)·RadiusScale,
// never below MinRadius.
func Radius(flow float64) float64 {
	return max(math.Sqrt(max(flow, 0)/math.Pi)*RadiusScale, MinRadius)
}
