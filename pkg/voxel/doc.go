// Package voxel provides the occupancy volume consumed by vessel synthesis.
//
// # Overview
//
// A [Volume] is a dense boolean 3-D grid: a voxel is either occupied (part
// of the solid) or empty. Occupancy is stored in a bitset addressed by the
// row-major linear index x + sx*(y + sy*z), so a 256³ volume costs 2 MiB.
//
// The same linear index doubles as the node identifier used by the graph
// packages. [Index] converts between coordinates and [ID] values without
// needing the volume itself:
//
//	idx := voxel.NewIndex(10, 10, 10)
//	id := idx.ID(1, 2, 3)     // 321
//	c, ok := idx.Coord(id)    // {1 2 3}, true
//	idx.ID(-1, 0, 0)          // voxel.InvalidID
//
// # Neighbourhoods
//
// [Directions] lists the 26 offsets of the full 3×3×3 neighbourhood minus
// the centre. Face, edge and corner neighbours are all included.
//
// # Shapes
//
// [Box], [Sphere] and [Torus] build test and demo volumes padded by one empty
// voxel on every side, so every occupied region has a non-empty shell.
// [Build] selects a shape by name for configuration files.
package voxel
