package vessel

import (
	"github.com/matzehuels/vesselgen/pkg/errors"
	"github.com/matzehuels/vesselgen/pkg/graph"
	"github.com/matzehuels/vesselgen/pkg/voxel"
)

// TopologicalSort orders the nodes of t so that every parent precedes its
// children, using Kahn's algorithm.
//
// A node with more than one parent, or nodes left over because they sit on
// a cycle, are invariant violations.
func TopologicalSort(t *graph.Tree) ([]voxel.ID, error) {
	in := t.InDegrees()

	var ready []voxel.ID
	for _, id := range t.NodeIDs() {
		switch d := in[id]; {
		case d > 1:
			return nil, errors.Invariant(nil, "node %d has %d parents", id, d)
		case d == 0:
			ready = append(ready, id)
			delete(in, id)
		}
	}

	order := make([]voxel.ID, 0, t.NodeCount())
	for len(ready) > 0 {
		id := ready[len(ready)-1]
		ready = ready[:len(ready)-1]

		for _, c := range t.Children(id) {
			in[c]--
			if in[c] == 0 {
				ready = append(ready, c)
				delete(in, c)
			}
		}
		order = append(order, id)
	}

	if len(in) > 0 {
		return nil, errors.Invariant(nil, "graph is not a DAG: %d nodes on cycles", len(in))
	}
	return order, nil
}

// ComputeFlow returns the number of downstream nodes of every node in t:
// the child count plus the flow of every child. Leaves get 0 and the root
// of a valid tree gets NodeCount()-1.
func ComputeFlow(t *graph.Tree) (map[voxel.ID]float64, error) {
	order, err := TopologicalSort(t)
	if err != nil {
		return nil, err
	}

	flow := make(map[voxel.ID]float64, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		kids := t.Children(id)
		sum := float64(len(kids))
		for _, c := range kids {
			f, ok := flow[c]
			if !ok {
				return nil, errors.Invariant(nil, "child %d of %d has no flow", c, id)
			}
			sum += f
		}
		flow[id] = sum
	}
	return flow, nil
}

// Assemble builds the final network: every node of g with its position,
// depth and flow, connected by the parent → child edges of t.
func Assemble(g *graph.Graph, t *graph.Tree, flow map[voxel.ID]float64) (*graph.Graph, error) {
	out := graph.New()
	for _, id := range g.NodeIDs() {
		n, _ := g.Node(id)
		f, ok := flow[id]
		if !ok {
			return nil, errors.Invariant(nil, "node %d is not part of the tree", id)
		}
		d := *n
		d.Flow = f
		out.AddNode(id, d)
	}
	for _, e := range t.Edges() {
		if err := out.AddEdge(e.A, e.B, graph.EdgeData{}); err != nil {
			return nil, err
		}
	}
	return out, nil
}
