package vessel

import (
	"github.com/matzehuels/vesselgen/pkg/errors"
	"github.com/matzehuels/vesselgen/pkg/graph"
	"github.com/matzehuels/vesselgen/pkg/voxel"
)

// ConnectGradient links every occupied voxel to each occupied 26-neighbour
// whose depth is not larger than its own. The edge weight is the negated
// depth drop, so the steepest descents sort first in the spanning tree.
//
// Voxels without a node in g are skipped. It returns the number of edges
// in g afterwards.
func ConnectGradient(g *graph.Graph, vol *voxel.Volume) (int, error) {
	idx := vol.Index()
	var err error
	vol.Each(func(id voxel.ID, c voxel.Coord) {
		if err != nil {
			return
		}
		cur, ok := g.Node(id)
		if !ok {
			return
		}
		for _, d := range voxel.Directions {
			nc := c.Add(d)
			if !vol.At(nc) {
				continue
			}
			nid := idx.CoordID(nc)
			other, ok := g.Node(nid)
			if !ok {
				continue
			}
			delta := cur.Depth - other.Depth
			if delta < 0 {
				continue
			}
			if err = g.AddEdge(id, nid, graph.EdgeData{Weight: -delta}); err != nil {
				return
			}
		}
	})
	if err != nil {
		return 0, err
	}
	return g.EdgeCount(), nil
}

// KeepLargestComponent removes every node outside the largest connected
// component. Equal sizes are resolved in favour of the component discovered
// first, which is the one holding the smallest id. It returns the number of
// removed nodes and the number of components found.
func KeepLargestComponent(g *graph.Graph) (removed, components int, err error) {
	comp := g.Components()
	if len(comp) == 0 {
		return 0, 0, errors.Invariant(nil, "no components found")
	}
	sizes := graph.ComponentSizes(comp)

	largest := 0
	for i, n := range sizes {
		if n > sizes[largest] {
			largest = i
		}
	}

	for _, id := range g.NodeIDs() {
		if comp[id] != largest {
			g.RemoveNode(id)
			removed++
		}
	}
	return removed, len(sizes), nil
}
