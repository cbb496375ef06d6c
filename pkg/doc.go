// Package pkg provides the core libraries for vesselgen.
//
// # Overview
//
// Vesselgen grows a rooted vessel tree inside a voxelized 3D shape. Every
// occupied voxel becomes a node; edges follow the gradient of a normalized
// distance-to-boundary field, a minimum spanning tree turns the gradient
// graph into a tree, and flow is the number of descendants of each node.
//
// # Architecture
//
// The typical data flow:
//
//	voxel volume (JSON file or built-in shape)
//	         ↓
//	    [voxel] package (occupancy grid, ids, shapes)
//	         ↓
//	    [vessel] package (distance field → gradient graph → tree → flow)
//	         ↓
//	    [graph/transform] package (pruning, relaxation, radii)
//	         ↓
//	    [io] and [render/nodelink] packages (JSON, CSV, DOT, SVG, PNG)
//
// [pipeline] wires these stages together with caching ([cache]) and is what
// the command line runs.
//
// # Quick Start
//
//	vol, _ := voxel.Sphere(24)
//	rng := rand.New(rand.NewPCG(42, 42^0xdeadbeef))
//	res, err := vessel.Generate(ctx, vol, vessel.DefaultParams(), rng)
//	if err != nil {
//	    return err
//	}
//	transform.Prune(res.Graph, 3, 0)
//	transform.Relax(res.Graph, transform.DefaultRelaxFactor)
//	err = io.WriteJSON(res.Graph, io.Meta{Root: res.Root}, os.Stdout)
package pkg
