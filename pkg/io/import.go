package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/vesselgen/pkg/errors"
	"github.com/matzehuels/vesselgen/pkg/graph"
	"github.com/matzehuels/vesselgen/pkg/voxel"
)

// ReadJSON decodes a network written by [WriteJSON].
//
// ReadJSON returns an INVALID_FORMAT error if the JSON is malformed, a node
// id appears twice, an edge references an unknown node, an edge is a self
// loop, or the meta root is not one of the nodes. Edge orientation is kept.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*graph.Graph, Meta, error) {
	var data network
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, Meta{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode network")
	}

	g := graph.New()
	for _, n := range data.Nodes {
		if g.HasNode(n.ID) {
			return nil, Meta{}, errors.New(errors.ErrCodeInvalidFormat, "duplicate node %d", n.ID)
		}
		g.AddNode(n.ID, graph.NodeData{
			Position: voxel.Vec3{X: n.Position[0], Y: n.Position[1], Z: n.Position[2]},
			Depth:    n.Depth,
			Flow:     n.Flow,
		})
	}
	for _, e := range data.Edges {
		if e.From == e.To {
			return nil, Meta{}, errors.Wrap(errors.ErrCodeInvalidFormat, graph.ErrSelfLoop, "edge %d->%d", e.From, e.To)
		}
		if !g.HasNode(e.From) || !g.HasNode(e.To) {
			return nil, Meta{}, errors.Wrap(errors.ErrCodeInvalidFormat, graph.ErrUnknownNode, "edge %d->%d", e.From, e.To)
		}
		if err := g.AddEdge(e.From, e.To, graph.EdgeData{}); err != nil {
			return nil, Meta{}, fmt.Errorf("edge %d->%d: %w", e.From, e.To, err)
		}
	}
	if len(data.Nodes) > 0 && !g.HasNode(data.Meta.Root) {
		return nil, Meta{}, errors.New(errors.ErrCodeInvalidFormat, "root %d is not a node", data.Meta.Root)
	}
	return g, data.Meta, nil
}

// ImportJSON reads a network from the JSON file at path.
// A missing file is reported as FILE_NOT_FOUND.
func ImportJSON(path string) (*graph.Graph, Meta, error) {
	f, err := open(path)
	if err != nil {
		return nil, Meta{}, err
	}
	defer f.Close()
	return ReadJSON(f)
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
