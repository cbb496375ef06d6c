// Package transform provides passes that prepare a synthesized vessel
// network for output.
//
// # Overview
//
// [vessel.Generate] returns a tree that still carries every surviving voxel.
// Before the network is exported or rendered it is usually thinned and
// smoothed:
//
//   - [Prune] drops low-flow nodes and strips leaves round by round
//   - [Relax] pulls every node towards the midpoints of its neighbour pairs
//   - [Radius] maps a node's flow to a vessel radius
//
// # Pruning
//
// Pruning has two phases. When a minimum flow is given, every node whose
// flow is below it is removed first. Then, for each round, the degrees of
// all nodes are captured and every node that had degree 1 at the start of
// the round is removed. A single round therefore strips one layer of leaves
// even when removing a leaf turns its parent into a new leaf.
//
// # Relaxation
//
// Relaxation visits the nodes in ascending id order and, for every ordered
// pair of distinct neighbours (a, b), moves the node by factor towards the
// midpoint of a and b. Updates are applied in place, so later nodes see the
// already moved positions of earlier ones.
//
//	stats := transform.Prune(g, 3, 0)
//	transform.Relax(g, transform.DefaultRelaxFactor)
//
// [vessel.Generate]: github.com/matzehuels/vesselgen/pkg/vessel.Generate
package transform
