// Package render holds the visual output formats of vessel networks.
//
// The [nodelink] subpackage converts a network into Graphviz DOT source and
// renders it in-process to SVG or PNG. Edge widths follow the vessel radius
// derived from the downstream flow, so trunks stand out from capillaries.
//
//	dot := nodelink.ToDOT(g, root, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
package render
