package transform

import (
	"github.com/matzehuels/vesselgen/pkg/graph"
	"github.com/matzehuels/vesselgen/pkg/voxel"
)

// PruneStats reports what [Prune] removed.
type PruneStats struct {
	Culled int   // Nodes removed by the flow threshold
	Rounds []int // Leaves removed in each round
}

// Removed returns the total number of removed nodes.
func (s PruneStats) Removed() int {
	n := s.Culled
	for _, r := range s.Rounds {
		n += r
	}
	return n
}

// Prune removes every node with flow below minFlow (when minFlow > 0), then
// runs rounds passes that each remove all nodes of degree 1. Degrees are
// captured at the start of a round.
func Prune(g *graph.Graph, rounds int, minFlow float64) PruneStats {
	var stats PruneStats

	if minFlow > 0 {
		for _, id := range g.NodeIDs() {
			if n, _ := g.Node(id); n.Flow < minFlow {
				g.RemoveNode(id)
				stats.Culled++
			}
		}
	}

	for range max(rounds, 0) {
		var leaves []voxel.ID
		for _, id := range g.NodeIDs() {
			if g.Degree(id) == 1 {
				leaves = append(leaves, id)
			}
		}
		for _, id := range leaves {
			g.RemoveNode(id)
		}
		stats.Rounds = append(stats.Rounds, len(leaves))
	}
	return stats
}
