package graph

import (
	"errors"
	"slices"
	"testing"

	vgerrors "github.com/matzehuels/vesselgen/pkg/errors"
	"github.com/matzehuels/vesselgen/pkg/voxel"
)

func newPath(t *testing.T, ids ...voxel.ID) *Graph {
	t.Helper()
	g := New()
	for _, id := range ids {
		g.AddNode(id, NodeData{})
	}
	for i := 1; i < len(ids); i++ {
		if err := g.AddEdge(ids[i-1], ids[i], EdgeData{Weight: float64(i)}); err != nil {
			t.Fatalf("AddEdge(%d, %d) = %v", ids[i-1], ids[i], err)
		}
	}
	return g
}

func TestAddNodeFirstInsertionWins(t *testing.T) {
	g := New()
	g.AddNode(1, NodeData{Depth: 0.25})
	g.AddNode(1, NodeData{Depth: 0.75})

	if g.NodeCount() != 1 {
		t.Fatalf("NodeCount() = %d, want 1", g.NodeCount())
	}
	d, _ := g.Node(1)
	if d.Depth != 0.25 {
		t.Errorf("Depth = %v, want 0.25", d.Depth)
	}
}

func TestNodeIsMutable(t *testing.T) {
	g := New()
	g.AddNode(7, NodeData{})
	d, ok := g.Node(7)
	if !ok {
		t.Fatal("Node(7) not found")
	}
	d.Flow = 3

	d2, _ := g.Node(7)
	if d2.Flow != 3 {
		t.Errorf("Flow = %v, want 3", d2.Flow)
	}
	if _, ok := g.Node(8); ok {
		t.Error("Node(8) found, want missing")
	}
}

func TestAddEdge(t *testing.T) {
	g := New()
	g.AddNode(1, NodeData{})
	g.AddNode(2, NodeData{})

	if err := g.AddEdge(1, 2, EdgeData{Weight: -1}); err != nil {
		t.Fatalf("AddEdge() = %v", err)
	}
	// Both directions of an existing edge are no-ops.
	if err := g.AddEdge(1, 2, EdgeData{Weight: 5}); err != nil {
		t.Fatalf("AddEdge() duplicate = %v", err)
	}
	if err := g.AddEdge(2, 1, EdgeData{Weight: 5}); err != nil {
		t.Fatalf("AddEdge() reversed = %v", err)
	}

	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if !g.HasEdge(1, 2) || !g.HasEdge(2, 1) {
		t.Error("HasEdge() = false, want true in both directions")
	}
	if d, _ := g.EdgeData(2, 1); d.Weight != -1 {
		t.Errorf("Weight = %v, want -1", d.Weight)
	}
	if g.Degree(1) != 1 || g.Degree(2) != 1 {
		t.Errorf("Degree() = %d, %d, want 1, 1", g.Degree(1), g.Degree(2))
	}
}

func TestAddEdgeErrors(t *testing.T) {
	g := New()
	g.AddNode(1, NodeData{})

	tests := []struct {
		name string
		a, b voxel.ID
		want error
	}{
		{"unknown source", 9, 1, ErrUnknownNode},
		{"unknown target", 1, 9, ErrUnknownNode},
		{"self loop", 1, 1, ErrSelfLoop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.AddEdge(tt.a, tt.b, EdgeData{})
			if !errors.Is(err, tt.want) {
				t.Errorf("AddEdge() = %v, want %v", err, tt.want)
			}
			if !vgerrors.IsInvariant(err) {
				t.Errorf("AddEdge() code = %v, want invariant", vgerrors.GetCode(err))
			}
		})
	}
}

func TestRemoveNode(t *testing.T) {
	// Star around 0 plus an edge between two leaves.
	g := New()
	for id := voxel.ID(0); id < 4; id++ {
		g.AddNode(id, NodeData{})
	}
	_ = g.AddEdge(0, 1, EdgeData{})
	_ = g.AddEdge(0, 2, EdgeData{})
	_ = g.AddEdge(3, 0, EdgeData{})
	_ = g.AddEdge(1, 2, EdgeData{})

	g.RemoveNode(0)

	if g.HasNode(0) {
		t.Error("HasNode(0) = true after RemoveNode")
	}
	for _, nb := range []voxel.ID{1, 2, 3} {
		if g.HasEdge(nb, 0) || g.HasEdge(0, nb) {
			t.Errorf("HasEdge(%d, 0) = true after RemoveNode", nb)
		}
	}
	if !g.HasEdge(1, 2) {
		t.Error("HasEdge(1, 2) = false, neighbours must keep other edges")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if got := g.Degree(3); got != 0 {
		t.Errorf("Degree(3) = %d, want 0", got)
	}

	// Removing an unknown node is a no-op.
	g.RemoveNode(42)
	if g.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", g.NodeCount())
	}
}

func TestArenaReuse(t *testing.T) {
	g := newPath(t, 1, 2, 3)
	before := len(g.arena)

	g.RemoveNode(2)
	if len(g.free) != 2 {
		t.Fatalf("free slots = %d, want 2", len(g.free))
	}

	g.AddNode(2, NodeData{})
	_ = g.AddEdge(1, 2, EdgeData{})
	_ = g.AddEdge(2, 3, EdgeData{})
	if len(g.arena) != before {
		t.Errorf("arena grew to %d, want reuse of %d slots", len(g.arena), before)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
}

func TestNeighborsAndEdgesSorted(t *testing.T) {
	g := New()
	for _, id := range []voxel.ID{5, 3, 9, 1} {
		g.AddNode(id, NodeData{})
	}
	_ = g.AddEdge(5, 9, EdgeData{})
	_ = g.AddEdge(5, 1, EdgeData{})
	_ = g.AddEdge(3, 5, EdgeData{})

	if got, want := g.Neighbors(5), []voxel.ID{1, 3, 9}; !slices.Equal(got, want) {
		t.Errorf("Neighbors(5) = %v, want %v", got, want)
	}
	if got, want := g.NodeIDs(), []voxel.ID{1, 3, 5, 9}; !slices.Equal(got, want) {
		t.Errorf("NodeIDs() = %v, want %v", got, want)
	}

	var keys []EdgeKey
	for _, e := range g.Edges() {
		keys = append(keys, e.EdgeKey)
	}
	// Orientation is preserved, order follows the canonical key.
	want := []EdgeKey{{5, 1}, {3, 5}, {5, 9}}
	if !slices.Equal(keys, want) {
		t.Errorf("Edges() = %v, want %v", keys, want)
	}
}

func TestComponents(t *testing.T) {
	g := newPath(t, 10, 11, 12)
	g.AddNode(3, NodeData{})
	g.AddNode(4, NodeData{})
	_ = g.AddEdge(3, 4, EdgeData{})
	g.AddNode(20, NodeData{})

	comp := g.Components()
	if len(comp) != 6 {
		t.Fatalf("len(Components()) = %d, want 6", len(comp))
	}

	// Lowest id is discovered first.
	want := map[voxel.ID]int{3: 0, 4: 0, 10: 1, 11: 1, 12: 1, 20: 2}
	for id, c := range want {
		if comp[id] != c {
			t.Errorf("component(%d) = %d, want %d", id, comp[id], c)
		}
	}

	if got := ComponentSizes(comp); !slices.Equal(got, []int{2, 3, 1}) {
		t.Errorf("ComponentSizes() = %v, want [2 3 1]", got)
	}
}

func TestComponentsEmpty(t *testing.T) {
	g := New()
	if got := g.Components(); len(got) != 0 {
		t.Errorf("Components() = %v, want empty", got)
	}
	if got := ComponentSizes(nil); len(got) != 0 {
		t.Errorf("ComponentSizes(nil) = %v, want empty", got)
	}
}

func TestEdgeKeyCanonical(t *testing.T) {
	if got := (EdgeKey{7, 2}).Canonical(); got != (EdgeKey{2, 7}) {
		t.Errorf("Canonical() = %v, want {2 7}", got)
	}
	if got := (EdgeKey{2, 7}).Canonical(); got != (EdgeKey{2, 7}) {
		t.Errorf("Canonical() = %v, want {2 7}", got)
	}
	if (EdgeKey{7, 2}) == (EdgeKey{2, 7}) {
		t.Error("EdgeKey equality must be order sensitive")
	}
}
