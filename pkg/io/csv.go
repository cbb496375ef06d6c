package io

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/matzehuels/vesselgen/pkg/graph"
	"github.com/matzehuels/vesselgen/pkg/voxel"
)

// WriteVoxelCSV writes the depth of every node of g as "x,y,z,depth" rows,
// preceded by a header. Coordinates are recovered from the node ids with
// idx, so g must still be keyed by the voxel ids of the source volume.
func WriteVoxelCSV(g *graph.Graph, idx voxel.Index, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y", "z", "depth"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, id := range g.NodeIDs() {
		c, ok := idx.Coord(id)
		if !ok {
			return fmt.Errorf("node %d is outside the %dx%dx%d grid", id, idx.SX, idx.SY, idx.SZ)
		}
		n, _ := g.Node(id)
		row := []string{
			strconv.Itoa(c.X),
			strconv.Itoa(c.Y),
			strconv.Itoa(c.Z),
			strconv.FormatFloat(n.Depth, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write node %d: %w", id, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
