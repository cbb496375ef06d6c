package graph

import (
	"cmp"
	"slices"

	"github.com/matzehuels/vesselgen/pkg/errors"
	"github.com/matzehuels/vesselgen/pkg/voxel"
)

// MinSpanningTree extracts a minimum spanning tree with Kruskal's algorithm.
//
// Edges are sorted ascending by weight. Equal weights are ordered by their
// canonical endpoint pair so the result does not depend on insertion order.
// The returned keys keep the orientation in which the edges were added.
//
// The graph must be connected: when the accepted edge count plus one does
// not equal the node count, an internal-invariant error wrapping
// [ErrNotSpanning] is returned.
func (g *Graph) MinSpanningTree() ([]EdgeKey, error) {
	edges := g.Edges()
	slices.SortFunc(edges, func(x, y Edge) int {
		if c := cmp.Compare(x.Data.Weight, y.Data.Weight); c != 0 {
			return c
		}
		return compareKeys(x.Canonical(), y.Canonical())
	})

	uf := newUnionFind(g.NodeIDs())
	out := make([]EdgeKey, 0, max(len(g.nodes)-1, 0))
	for _, e := range edges {
		if uf.union(e.A, e.B) {
			out = append(out, e.EdgeKey)
		}
	}

	if len(out)+1 != len(g.nodes) {
		return nil, errors.Invariant(ErrNotSpanning,
			"minimum spanning tree has %d edges for %d nodes", len(out), len(g.nodes))
	}
	return out, nil
}

// unionFind is a disjoint set forest over a fixed id set. Roots carry the
// size of their set; the heavier root absorbs the lighter one and on equal
// weights the root of the first argument wins.
type unionFind struct {
	index  map[voxel.ID]int
	parent []int
	weight []int
}

func newUnionFind(ids []voxel.ID) *unionFind {
	uf := &unionFind{
		index:  make(map[voxel.ID]int, len(ids)),
		parent: make([]int, len(ids)),
		weight: make([]int, len(ids)),
	}
	for i, id := range ids {
		uf.index[id] = i
		uf.parent[i] = i
		uf.weight[i] = 1
	}
	return uf
}

func (uf *unionFind) find(i int) int {
	root := i
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for uf.parent[i] != root {
		uf.parent[i], i = root, uf.parent[i]
	}
	return root
}

// union merges the sets of a and b and reports whether they were disjoint.
func (uf *unionFind) union(a, b voxel.ID) bool {
	ra, rb := uf.find(uf.index[a]), uf.find(uf.index[b])
	if ra == rb {
		return false
	}
	if uf.weight[rb] > uf.weight[ra] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.weight[ra] += uf.weight[rb]
	return true
}

// Connected reports whether edges connect all of ids into a single set.
// Endpoints outside ids are ignored.
func Connected(ids []voxel.ID, edges []EdgeKey) bool {
	if len(ids) == 0 {
		return false
	}
	uf := newUnionFind(ids)
	sets := len(ids)
	for _, e := range edges {
		if _, ok := uf.index[e.A]; !ok {
			continue
		}
		if _, ok := uf.index[e.B]; !ok {
			continue
		}
		if uf.union(e.A, e.B) {
			sets--
		}
	}
	return sets == 1
}
