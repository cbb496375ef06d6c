package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/vesselgen/pkg/errors"
	"github.com/matzehuels/vesselgen/pkg/voxel"
)

type volume struct {
	Size   [3]int   `json:"size"`
	Voxels [][3]int `json:"voxels"`
}

// ReadVolume decodes an occupancy volume. Repeated voxels are accepted.
func ReadVolume(r io.Reader) (*voxel.Volume, error) {
	var data volume
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode volume")
	}

	vol, err := voxel.New(data.Size[0], data.Size[1], data.Size[2])
	if err != nil {
		return nil, err
	}
	for i, v := range data.Voxels {
		c := voxel.Coord{X: v[0], Y: v[1], Z: v[2]}
		if !vol.Set(c) {
			return nil, errors.New(errors.ErrCodeInvalidVolume,
				"voxel %d at (%d, %d, %d) is outside the %dx%dx%d grid",
				i, c.X, c.Y, c.Z, data.Size[0], data.Size[1], data.Size[2])
		}
	}
	return vol, nil
}

// ImportVolume reads a volume from the JSON file at path.
func ImportVolume(path string) (*voxel.Volume, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadVolume(f)
}

// WriteVolume encodes vol in the format read by [ReadVolume], listing the
// occupied voxels in ascending id order.
func WriteVolume(vol *voxel.Volume, w io.Writer) error {
	sx, sy, sz := vol.Size()
	occupied := vol.Occupied()
	out := volume{Size: [3]int{sx, sy, sz}, Voxels: make([][3]int, len(occupied))}
	for i, c := range occupied {
		out.Voxels[i] = [3]int{c.X, c.Y, c.Z}
	}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
