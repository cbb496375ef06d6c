package graph

import (
	"cmp"
	"errors"
	"maps"
	"slices"

	vgerrors "github.com/matzehuels/vesselgen/pkg/errors"
	"github.com/matzehuels/vesselgen/pkg/voxel"
)

var (
	// ErrUnknownNode is returned when an edge references a node that is not
	// part of the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrSelfLoop is returned when both endpoints of an edge are the same node.
	ErrSelfLoop = errors.New("self loop")

	// ErrDuplicateEdge is returned by [Tree.AddEdge] for an edge that already exists.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrNotSpanning is returned by [Graph.MinSpanningTree] when the accepted
	// edges do not span the graph, which means it had more than one component.
	ErrNotSpanning = errors.New("edges do not span the graph")
)

// NodeData is the payload stored with every node.
type NodeData struct {
	Position voxel.Vec3 // Voxel centre, possibly jittered
	Depth    float64    // Normalized potential in [0, 1]; 0 is the interior
	Flow     float64    // Downstream node count
}

// EdgeData is the payload stored with every edge.
type EdgeData struct {
	Weight float64 // Sort key for minimum spanning tree extraction
}

// EdgeKey identifies an edge by its endpoints. Equality is order sensitive;
// use [EdgeKey.Canonical] when orientation does not matter.
type EdgeKey struct {
	A, B voxel.ID
}

// Canonical returns the key with the smaller id first.
func (k EdgeKey) Canonical() EdgeKey {
	if k.B < k.A {
		return EdgeKey{k.B, k.A}
	}
	return k
}

// Edge is an edge together with its payload. A and B keep the orientation
// in which the edge was added.
type Edge struct {
	EdgeKey
	Data EdgeData
}

type node struct {
	data NodeData
	adj  map[voxel.ID]int // neighbour -> arena handle
}

type edgeSlot struct {
	key  EdgeKey
	data EdgeData
	refs int
}

// Graph is an undirected graph keyed by voxel id.
//
// The zero value is not usable - use New to create a valid Graph instance.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes map[voxel.ID]*node
	arena []edgeSlot
	free  []int
	live  int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[voxel.ID]*node)}
}

// AddNode adds a node. When the id already exists the call is a no-op and
// the first payload is kept.
func (g *Graph) AddNode(id voxel.ID, data NodeData) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = &node{data: data, adj: make(map[voxel.ID]int)}
}

// AddEdge adds an undirected edge between two existing nodes. Adding an edge
// that already exists in either direction is a no-op.
//
// A missing endpoint or a self loop is a precondition violation and is
// reported as an internal-invariant error wrapping [ErrUnknownNode] or
// [ErrSelfLoop].
func (g *Graph) AddEdge(a, b voxel.ID, data EdgeData) error {
	na, ok := g.nodes[a]
	if !ok {
		return vgerrors.Invariant(ErrUnknownNode, "add edge %d-%d: node %d", a, b, a)
	}
	nb, ok := g.nodes[b]
	if !ok {
		return vgerrors.Invariant(ErrUnknownNode, "add edge %d-%d: node %d", a, b, b)
	}
	if a == b {
		return vgerrors.Invariant(ErrSelfLoop, "add edge %d-%d", a, b)
	}
	if _, exists := na.adj[b]; exists {
		return nil
	}

	h := g.alloc(edgeSlot{key: EdgeKey{a, b}, data: data, refs: 2})
	na.adj[b] = h
	nb.adj[a] = h
	g.live++
	return nil
}

func (g *Graph) alloc(s edgeSlot) int {
	if n := len(g.free); n > 0 {
		h := g.free[n-1]
		g.free = g.free[:n-1]
		g.arena[h] = s
		return h
	}
	g.arena = append(g.arena, s)
	return len(g.arena) - 1
}

// release drops one endpoint reference and recycles the slot when none remain.
func (g *Graph) release(h int) {
	s := &g.arena[h]
	s.refs--
	if s.refs == 0 {
		*s = edgeSlot{}
		g.free = append(g.free, h)
		g.live--
	}
}

// RemoveNode removes a node and every edge touching it. Neighbours keep
// their other edges. Removing an unknown id is a no-op.
func (g *Graph) RemoveNode(id voxel.ID) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	for nb, h := range n.adj {
		delete(g.nodes[nb].adj, id)
		g.release(h)
		g.release(h)
	}
	delete(g.nodes, id)
}

// HasNode reports whether id is part of the graph.
func (g *Graph) HasNode(id voxel.ID) bool {
	_, ok := g.nodes[id]
	return ok
}

// HasEdge reports whether a and b are adjacent, in either direction.
func (g *Graph) HasEdge(a, b voxel.ID) bool {
	n, ok := g.nodes[a]
	if !ok {
		return false
	}
	_, ok = n.adj[b]
	return ok
}

// Node returns a pointer to the payload of id for in-place updates.
func (g *Graph) Node(id voxel.ID) (*NodeData, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, false
	}
	return &n.data, true
}

// EdgeData returns the payload of the edge between a and b.
func (g *Graph) EdgeData(a, b voxel.ID) (EdgeData, bool) {
	n, ok := g.nodes[a]
	if !ok {
		return EdgeData{}, false
	}
	h, ok := n.adj[b]
	if !ok {
		return EdgeData{}, false
	}
	return g.arena[h].data, true
}

// Neighbors returns the ids adjacent to id in ascending order.
func (g *Graph) Neighbors(id voxel.ID) []voxel.ID {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	return slices.Sorted(maps.Keys(n.adj))
}

// Degree returns the number of edges touching id.
func (g *Graph) Degree(id voxel.ID) int {
	n, ok := g.nodes[id]
	if !ok {
		return 0
	}
	return len(n.adj)
}

// NodeIDs returns all node ids in ascending order.
func (g *Graph) NodeIDs() []voxel.ID {
	return slices.Sorted(maps.Keys(g.nodes))
}

// Edges returns every edge once, in the orientation it was added, ordered by
// canonical key.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.live)
	for _, s := range g.arena {
		if s.refs > 0 {
			out = append(out, Edge{EdgeKey: s.key, Data: s.data})
		}
	}
	slices.SortFunc(out, func(x, y Edge) int {
		return compareKeys(x.Canonical(), y.Canonical())
	})
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return g.live }

func compareKeys(x, y EdgeKey) int {
	if c := cmp.Compare(x.A, y.A); c != 0 {
		return c
	}
	return cmp.Compare(x.B, y.B)
}
