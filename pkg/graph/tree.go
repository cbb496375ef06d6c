package graph

import (
	"maps"
	"slices"

	"github.com/matzehuels/vesselgen/pkg/errors"
	"github.com/matzehuels/vesselgen/pkg/voxel"
)

// Tree is a directed structure with a single declared root. Edges point from
// parent to child.
//
// AddEdge only rejects self loops and duplicate edges. The one-parent rule is
// a property of how trees are built and is checked by [Tree.Validate] and by
// consumers such as topological sorting.
type Tree struct {
	root     voxel.ID
	children map[voxel.ID]map[voxel.ID]struct{}
}

// NewTree creates a tree containing only root.
func NewTree(root voxel.ID) *Tree {
	t := &Tree{root: root, children: make(map[voxel.ID]map[voxel.ID]struct{})}
	t.AddNode(root)
	return t
}

// Root returns the declared root.
func (t *Tree) Root() voxel.ID { return t.root }

// AddNode adds an isolated node. Existing nodes are left untouched.
func (t *Tree) AddNode(id voxel.ID) {
	if _, ok := t.children[id]; !ok {
		t.children[id] = make(map[voxel.ID]struct{})
	}
}

// AddEdge adds a parent → child edge, creating either node if needed.
func (t *Tree) AddEdge(parent, child voxel.ID) error {
	if parent == child {
		return errors.Invariant(ErrSelfLoop, "tree edge %d->%d", parent, child)
	}
	t.AddNode(parent)
	t.AddNode(child)
	if _, ok := t.children[parent][child]; ok {
		return errors.Invariant(ErrDuplicateEdge, "tree edge %d->%d", parent, child)
	}
	t.children[parent][child] = struct{}{}
	return nil
}

// Children returns the children of id in ascending order.
func (t *Tree) Children(id voxel.ID) []voxel.ID {
	return slices.Sorted(maps.Keys(t.children[id]))
}

// HasNode reports whether id is part of the tree.
func (t *Tree) HasNode(id voxel.ID) bool {
	_, ok := t.children[id]
	return ok
}

// NodeCount returns the number of nodes.
func (t *Tree) NodeCount() int { return len(t.children) }

// NodeIDs returns all node ids in ascending order.
func (t *Tree) NodeIDs() []voxel.ID {
	return slices.Sorted(maps.Keys(t.children))
}

// InDegrees returns the number of incoming edges of every node.
func (t *Tree) InDegrees() map[voxel.ID]int {
	in := make(map[voxel.ID]int, len(t.children))
	for id, kids := range t.children {
		if _, ok := in[id]; !ok {
			in[id] = 0
		}
		for c := range kids {
			in[c]++
		}
	}
	return in
}

// Edges returns every parent → child edge ordered by parent, then child.
func (t *Tree) Edges() []EdgeKey {
	var out []EdgeKey
	for _, p := range t.NodeIDs() {
		for _, c := range t.Children(p) {
			out = append(out, EdgeKey{p, c})
		}
	}
	return out
}

// Validate reports whether every node is reachable from the root and no
// node is reached twice. A second parent, a cycle or a node with no path
// from the root all make validation fail.
func (t *Tree) Validate() bool {
	if !t.HasNode(t.root) {
		return false
	}
	visited := make(map[voxel.ID]bool, len(t.children))
	stack := []voxel.ID{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			return false
		}
		visited[id] = true
		for c := range t.children[id] {
			stack = append(stack, c)
		}
	}
	return len(visited) == len(t.children)
}
