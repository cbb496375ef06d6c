// Package nodelink renders vessel networks as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz. Every
// node of the network becomes a small point, every parent → child edge an
// arrow-less line whose width grows with the vessel radius of the child.
// The root is drawn as a larger filled circle.
//
// # Usage
//
// Convert a network to DOT format, then render to SVG or PNG:
//
//	dot := nodelink.ToDOT(g, root, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Options
//
//   - Detailed: label nodes with their id, flow and depth
//   - Spatial: pin nodes to their x/y position (rendered with neato) instead
//     of a top-down hierarchical layout
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering;
// no Graphviz installation is needed.
package nodelink
