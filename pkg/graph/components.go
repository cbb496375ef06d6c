package graph

import "github.com/matzehuels/vesselgen/pkg/voxel"

// Components labels every node with the index of its connected component.
//
// Nodes are scanned in ascending id order and each unvisited node starts a
// new component, so component 0 contains the smallest id. The flood fill
// uses an explicit stack; voxel graphs are far too deep for recursion.
func (g *Graph) Components() map[voxel.ID]int {
	comp := make(map[voxel.ID]int, len(g.nodes))
	next := 0
	var stack []voxel.ID

	for _, start := range g.NodeIDs() {
		if _, seen := comp[start]; seen {
			continue
		}
		comp[start] = next
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for nb := range g.nodes[id].adj {
				if _, seen := comp[nb]; !seen {
					comp[nb] = next
					stack = append(stack, nb)
				}
			}
		}
		next++
	}
	return comp
}

// ComponentSizes returns the node count of every component in the labelling
// produced by [Graph.Components], indexed by component.
func ComponentSizes(comp map[voxel.ID]int) []int {
	n := 0
	for _, c := range comp {
		n = max(n, c+1)
	}
	sizes := make([]int, n)
	for _, c := range comp {
		sizes[c]++
	}
	return sizes
}
