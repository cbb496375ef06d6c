package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/vesselgen/pkg/graph"
	"github.com/matzehuels/vesselgen/pkg/graph/transform"
	"github.com/matzehuels/vesselgen/pkg/voxel"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed labels every node with its id, flow and depth.
	// When false, nodes are drawn as unlabeled points.
	Detailed bool

	// Spatial pins nodes to their projected x/y position.
	Spatial bool

	// Scale multiplies positions in spatial mode. Zero means 0.5 inch per voxel.
	Scale float64
}

// penScale converts a vessel radius to a Graphviz pen width.
const penScale = 100

// ToDOT converts a network to Graphviz DOT format. Edges are written in the
// stored parent → child orientation; root is highlighted.
func ToDOT(g *graph.Graph, root voxel.ID, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.Spatial {
		buf.WriteString("  layout=neato;\n")
		buf.WriteString("  splines=false;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
		buf.WriteString("  ranksep=0.3;\n")
		buf.WriteString("  nodesep=0.2;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if opts.Detailed {
		buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=10];\n")
	} else {
		buf.WriteString("  node [shape=point, width=0.05, color=\"#8b1a1a\"];\n")
	}
	buf.WriteString("  edge [arrowhead=none, color=\"#b22222\"];\n")
	buf.WriteString("\n")

	scale := opts.Scale
	if scale == 0 {
		scale = 0.5
	}

	for _, id := range g.NodeIDs() {
		n, _ := g.Node(id)
		var attrs []string
		if opts.Detailed {
			attrs = append(attrs, fmt.Sprintf("label=%q", fmtLabel(id, n)))
		}
		if opts.Spatial {
			attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"",
				fmtFloat(n.Position.X*scale), fmtFloat(n.Position.Y*scale)))
		}
		if id == root {
			if opts.Detailed {
				attrs = append(attrs, "fillcolor=\"#f4cccc\"", "penwidth=2")
			} else {
				attrs = append(attrs, "width=0.15", "color=\"#4a0e0e\"")
			}
		}
		fmt.Fprintf(&buf, "  n%d%s;\n", id, fmtAttrs(attrs))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		child, _ := g.Node(e.B)
		w := transform.Radius(child.Flow) * penScale
		fmt.Fprintf(&buf, "  n%d -> n%d [penwidth=%s];\n", e.A, e.B, fmtFloat(max(w, 0.5)))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(id voxel.ID, n *graph.NodeData) string {
	return fmt.Sprintf("%d\nflow: %s\ndepth: %.3f", id, fmtFloat(n.Flow), n.Depth)
}

func fmtAttrs(attrs []string) string {
	if len(attrs) == 0 {
		return ""
	}
	var buf bytes.Buffer
	buf.WriteString(" [")
	for i, a := range attrs {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(a)
	}
	buf.WriteString("]")
	return buf.String()
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
