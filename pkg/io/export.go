package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/vesselgen/pkg/graph"
	"github.com/matzehuels/vesselgen/pkg/graph/transform"
	"github.com/matzehuels/vesselgen/pkg/voxel"
)

// Meta is the run information stored alongside a network.
type Meta struct {
	RunID string   `json:"run_id,omitempty"`
	Root  voxel.ID `json:"root"`
}

type network struct {
	Meta  Meta   `json:"meta"`
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID       voxel.ID   `json:"id"`
	Position [3]float64 `json:"position"`
	Depth    float64    `json:"depth"`
	Flow     float64    `json:"flow"`
	Radius   float64    `json:"radius,omitempty"`
}

type edge struct {
	From voxel.ID `json:"from"`
	To   voxel.ID `json:"to"`
}

// WriteJSON encodes a network as JSON and writes it to w.
// Nodes are written in ascending id order and edges in their stored
// parent → child orientation. The output can be read back with [ReadJSON].
func WriteJSON(g *graph.Graph, meta Meta, w io.Writer) error {
	ids := g.NodeIDs()
	edges := g.Edges()
	out := network{
		Meta:  meta,
		Nodes: make([]node, len(ids)),
		Edges: make([]edge, len(edges)),
	}

	for i, id := range ids {
		n, _ := g.Node(id)
		out.Nodes[i] = node{
			ID:       id,
			Position: [3]float64{n.Position.X, n.Position.Y, n.Position.Z},
			Depth:    n.Depth,
			Flow:     n.Flow,
			Radius:   transform.Radius(n.Flow),
		}
	}
	for i, e := range edges {
		out.Edges[i] = edge{From: e.A, To: e.B}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
