// Package vessel synthesizes a rooted transport network from an occupancy
// volume.
//
// # Pipeline
//
// [Generate] runs the stages below in order. Each stage is also exported so
// callers and tests can drive it on hand-built inputs.
//
//  1. [BuildNodes]: one graph node per occupied voxel
//  2. [DistanceField]: parallel distance-to-shell potential, normalized
//     and inverted so the interior has depth near 0
//  3. [ConnectGradient]: link adjacent voxels whose depth does not increase
//  4. [KeepLargestComponent]: drop everything outside the largest component
//  5. MST extraction via [graph.Graph.MinSpanningTree]
//  6. [Reposition]: jitter node positions
//  7. [StartNode] and [BuildTree]: orient the MST from a root
//  8. [ComputeFlow]: topological order and downstream node counts
//  9. [Assemble]: final graph with positions, flow and parent → child edges
//
// # Determinism
//
// All randomness comes from the *rand.Rand passed to [Generate]. Jitter is
// drawn sequentially before the distance computation fans out, and every
// traversal visits ids in ascending order, so a fixed seed reproduces the
// same network regardless of the worker count.
//
// # Errors
//
// Input problems are reported with EMPTY_VOLUME, INVALID_VOLUME or
// INVALID_INPUT codes from pkg/errors. Violated structural invariants (a
// spanning tree with the wrong edge count, a node with two parents, a
// cycle) are reported as INTERNAL_INVARIANT errors. Generation is atomic:
// on error no partial network is returned.
package vessel
