package vessel

import (
	"math/rand/v2"

	"github.com/matzehuels/vesselgen/pkg/errors"
	"github.com/matzehuels/vesselgen/pkg/graph"
	"github.com/matzehuels/vesselgen/pkg/voxel"
)

// Reposition offsets every node position by a vector drawn uniformly from
// [-radius, radius]³. Nodes are visited in ascending id order.
func Reposition(g *graph.Graph, rng *rand.Rand, radius float64) {
	if radius == 0 || rng == nil {
		return
	}
	for _, id := range g.NodeIDs() {
		n, _ := g.Node(id)
		off := voxel.Vec3{
			X: rng.Float64()*2 - 1,
			Y: rng.Float64()*2 - 1,
			Z: rng.Float64()*2 - 1,
		}
		n.Position = n.Position.Add(off.Scale(radius))
	}
}

// StartNode picks the root of the tree: the node with the smallest depth,
// or, when anchor is set, the node closest to the anchor. Ties go to the
// smallest id.
func StartNode(g *graph.Graph, anchor *voxel.Vec3) (voxel.ID, error) {
	ids := g.NodeIDs()
	if len(ids) == 0 {
		return voxel.InvalidID, errors.Invariant(nil, "no node to start the tree from")
	}

	score := func(n *graph.NodeData) float64 {
		if anchor != nil {
			return n.Position.Dist2(*anchor)
		}
		return n.Depth
	}

	best := ids[0]
	n, _ := g.Node(best)
	bestScore := score(n)
	for _, id := range ids[1:] {
		n, _ := g.Node(id)
		if s := score(n); s < bestScore {
			best, bestScore = id, s
		}
	}
	return best, nil
}

// BuildTree orients a spanning edge list into a tree rooted at root.
//
// The edges are first loaded into an undirected precursor graph, then an
// iterative depth-first search from root records a parent → child edge for
// every newly reached neighbour. The result must visit every precursor node
// exactly once and pass [graph.Tree.Validate]; anything else means the edge
// list was not a spanning tree and is reported as an invariant violation.
// An empty edge list yields a tree holding only root.
func BuildTree(edges []graph.EdgeKey, root voxel.ID) (*graph.Tree, error) {
	pre := graph.New()
	pre.AddNode(root, graph.NodeData{})
	for _, e := range edges {
		pre.AddNode(e.A, graph.NodeData{})
		pre.AddNode(e.B, graph.NodeData{})
		if pre.HasEdge(e.A, e.B) {
			return nil, errors.Invariant(graph.ErrDuplicateEdge, "spanning edge %d-%d", e.A, e.B)
		}
		if err := pre.AddEdge(e.A, e.B, graph.EdgeData{}); err != nil {
			return nil, err
		}
	}

	if !graph.Connected(pre.NodeIDs(), edges) {
		return nil, errors.Invariant(graph.ErrNotSpanning,
			"%d spanning edges leave %d nodes disconnected", len(edges), pre.NodeCount())
	}

	t := graph.NewTree(root)
	discovered := make(map[voxel.ID]bool, pre.NodeCount())
	stack := []voxel.ID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if discovered[id] {
			continue
		}
		discovered[id] = true

		for _, nb := range pre.Neighbors(id) {
			if discovered[nb] {
				continue
			}
			if t.HasNode(nb) {
				return nil, errors.Invariant(nil, "node %d reached twice, edges contain a cycle", nb)
			}
			stack = append(stack, nb)
			if err := t.AddEdge(id, nb); err != nil {
				return nil, err
			}
		}
	}

	if len(discovered) != pre.NodeCount() || t.NodeCount() != pre.NodeCount() {
		return nil, errors.Invariant(nil, "tree reaches %d of %d nodes from %d",
			len(discovered), pre.NodeCount(), root)
	}
	if !t.Validate() {
		return nil, errors.Invariant(nil, "tree rooted at %d failed validation", root)
	}
	return t, nil
}
