package voxel

// ID identifies a voxel within one volume. Valid ids are non-negative.
type ID int64

// InvalidID is returned for coordinates outside the volume.
const InvalidID ID = -1

// Coord is an integer voxel coordinate.
type Coord struct {
	X, Y, Z int
}

// Add returns c offset by d.
func (c Coord) Add(d Coord) Coord {
	return Coord{c.X + d.X, c.Y + d.Y, c.Z + d.Z}
}

// Vec3 returns the coordinate as a floating point position.
func (c Coord) Vec3() Vec3 {
	return Vec3{float64(c.X), float64(c.Y), float64(c.Z)}
}

// Index maps coordinates of an sx×sy×sz grid to linear ids and back.
// The zero Index contains no coordinates.
type Index struct {
	SX, SY, SZ int
}

// NewIndex returns the index for a grid with the given extents.
func NewIndex(sx, sy, sz int) Index {
	return Index{SX: sx, SY: sy, SZ: sz}
}

// Len returns the number of cells in the grid.
func (ix Index) Len() int {
	return ix.SX * ix.SY * ix.SZ
}

// Contains reports whether c lies inside the grid.
func (ix Index) Contains(c Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.Z >= 0 &&
		c.X < ix.SX && c.Y < ix.SY && c.Z < ix.SZ
}

// ID returns the linear id of (x, y, z), or [InvalidID] when any coordinate
// is negative or not smaller than the corresponding extent.
func (ix Index) ID(x, y, z int) ID {
	return ix.CoordID(Coord{x, y, z})
}

// CoordID is [Index.ID] for a [Coord].
func (ix Index) CoordID(c Coord) ID {
	if !ix.Contains(c) {
		return InvalidID
	}
	return ID(c.X) + ID(ix.SX)*(ID(c.Y)+ID(ix.SY)*ID(c.Z))
}

// Coord returns the coordinate of id. The second result is false when id
// does not belong to the grid.
func (ix Index) Coord(id ID) (Coord, bool) {
	if id < 0 || id >= ID(ix.Len()) {
		return Coord{}, false
	}
	sx, sy := ID(ix.SX), ID(ix.SY)
	return Coord{
		X: int(id % sx),
		Y: int((id / sx) % sy),
		Z: int(id / (sx * sy)),
	}, true
}
