// Package graph provides the undirected voxel graph and the rooted tree used
// by vessel synthesis.
//
// # Overview
//
// [Graph] is an undirected, node-keyed adjacency structure. Nodes are keyed
// by [voxel.ID] and carry a [NodeData] payload (position, potential depth and
// flow). Edges carry an [EdgeData] payload whose weight is used as the sort
// key for minimum spanning tree extraction.
//
// Edges live in an arena and are addressed by a stable integer handle. Each
// endpoint stores neighbour id → handle, so an edge is referenced exactly
// twice. Removing a node drops both references for every incident edge and
// recycles the arena slot once no endpoint refers to it.
//
//	g := graph.New()
//	g.AddNode(1, graph.NodeData{Depth: 0.2})
//	g.AddNode(2, graph.NodeData{Depth: 0.9})
//	_ = g.AddEdge(2, 1, graph.EdgeData{Weight: -0.7})
//	g.HasEdge(1, 2) // true
//
// # Algorithms
//
//   - [Graph.Components]: iterative flood fill, ids scanned in ascending order
//   - [Graph.MinSpanningTree]: Kruskal with weighted union-find
//
// Both are deterministic: ties in component discovery and edge weight are
// resolved by node id.
//
// # Trees
//
// [Tree] is a directed, single-root structure built from a spanning edge list.
// [Tree.Validate] checks that every node is reachable from the root exactly
// once.
//
// # Errors
//
// Structural precondition violations (an edge to an unknown node, a self
// loop, a spanning tree with the wrong edge count) are reported as
// internal-invariant errors from pkg/errors wrapping one of the sentinel
// errors below, so both errors.IsInvariant and the standard errors.Is work.
//
// # Concurrency
//
// Graph and Tree are not safe for concurrent mutation. The vessel pipeline
// only mutates them from a single goroutine.
package graph
