package voxel

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/matzehuels/vesselgen/pkg/errors"
)

// Directions holds the 26 neighbour offsets: every combination of
// {-1, 0, 1} per axis except the zero offset, ordered by z, then y, then x.
var Directions = func() [26]Coord {
	var dirs [26]Coord
	i := 0
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				dirs[i] = Coord{dx, dy, dz}
				i++
			}
		}
	}
	return dirs
}()

// Volume is a boolean occupancy grid.
//
// Volume is not safe for concurrent mutation. Concurrent reads are safe once
// construction is complete.
type Volume struct {
	idx  Index
	bits *bitset.BitSet
}

// New returns an empty volume with the given extents.
func New(sx, sy, sz int) (*Volume, error) {
	if err := errors.ValidateDimensions(sx, sy, sz); err != nil {
		return nil, err
	}
	idx := NewIndex(sx, sy, sz)
	return &Volume{idx: idx, bits: bitset.New(uint(idx.Len()))}, nil
}

// Index returns the coordinate index of the volume.
func (v *Volume) Index() Index { return v.idx }

// Size returns the extents of the volume.
func (v *Volume) Size() (sx, sy, sz int) { return v.idx.SX, v.idx.SY, v.idx.SZ }

// Set marks c as occupied. It reports false when c is outside the volume.
func (v *Volume) Set(c Coord) bool {
	id := v.idx.CoordID(c)
	if id == InvalidID {
		return false
	}
	v.bits.Set(uint(id))
	return true
}

// Clear marks c as empty. It reports false when c is outside the volume.
func (v *Volume) Clear(c Coord) bool {
	id := v.idx.CoordID(c)
	if id == InvalidID {
		return false
	}
	v.bits.Clear(uint(id))
	return true
}

// At reports whether c is occupied. Coordinates outside the volume are empty.
func (v *Volume) At(c Coord) bool {
	id := v.idx.CoordID(c)
	if id == InvalidID {
		return false
	}
	return v.bits.Test(uint(id))
}

// Count returns the number of occupied voxels.
func (v *Volume) Count() int {
	return int(v.bits.Count())
}

// Each calls fn for every occupied voxel in ascending id order.
func (v *Volume) Each(fn func(id ID, c Coord)) {
	for i, ok := v.bits.NextSet(0); ok; i, ok = v.bits.NextSet(i + 1) {
		id := ID(i)
		c, _ := v.idx.Coord(id)
		fn(id, c)
	}
}

// Occupied returns the coordinates of all occupied voxels in ascending id order.
func (v *Volume) Occupied() []Coord {
	out := make([]Coord, 0, v.Count())
	v.Each(func(_ ID, c Coord) { out = append(out, c) })
	return out
}

// Shell returns the empty voxels that have at least one occupied neighbour
// among the 26 [Directions], in ascending id order. Cells outside the grid
// are never part of the shell.
func (v *Volume) Shell() []Coord {
	var out []Coord
	n := v.idx.Len()
	for i := 0; i < n; i++ {
		if v.bits.Test(uint(i)) {
			continue
		}
		c, _ := v.idx.Coord(ID(i))
		for _, d := range Directions {
			if v.At(c.Add(d)) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Union marks every voxel occupied in o as occupied in v.
// Both volumes must have the same extents.
func (v *Volume) Union(o *Volume) error {
	if v.idx != o.idx {
		return errors.New(errors.ErrCodeInvalidVolume,
			"union of %dx%dx%d and %dx%dx%d volumes", v.idx.SX, v.idx.SY, v.idx.SZ, o.idx.SX, o.idx.SY, o.idx.SZ)
	}
	v.bits.InPlaceUnion(o.bits)
	return nil
}
