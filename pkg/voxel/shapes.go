package voxel

import (
	"math"
	"sort"
	"strings"

	"github.com/matzehuels/vesselgen/pkg/errors"
)

// Shape names accepted by [Build].
const (
	ShapeBox    = "box"
	ShapeSphere = "sphere"
	ShapeTorus  = "torus"
	ShapeUnion  = "union"
)

var shapes = map[string]func(int) (*Volume, error){
	ShapeBox:    func(n int) (*Volume, error) { return Box(n, n, n) },
	ShapeSphere: Sphere,
	ShapeTorus:  Torus,
	ShapeUnion:  TwinSpheres,
}

// Shapes returns the names accepted by [Build] in sorted order.
func Shapes() []string {
	names := make([]string, 0, len(shapes))
	for name := range shapes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build returns the named shape with characteristic size n.
func Build(name string, n int) (*Volume, error) {
	fn, ok := shapes[strings.ToLower(name)]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"unknown shape %q (available: %s)", name, strings.Join(Shapes(), ", "))
	}
	if n <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "shape size must be positive, got %d", n)
	}
	return fn(n)
}

// Box returns an sx×sy×sz block of occupied voxels surrounded by one layer
// of empty voxels.
func Box(sx, sy, sz int) (*Volume, error) {
	v, err := New(sx+2, sy+2, sz+2)
	if err != nil {
		return nil, err
	}
	for z := 1; z <= sz; z++ {
		for y := 1; y <= sy; y++ {
			for x := 1; x <= sx; x++ {
				v.Set(Coord{x, y, z})
			}
		}
	}
	return v, nil
}

// Sphere returns a ball of diameter d voxels surrounded by one layer of
// empty voxels.
func Sphere(d int) (*Volume, error) {
	v, err := New(d+2, d+2, d+2)
	if err != nil {
		return nil, err
	}
	c := float64(d+1) / 2
	center := Vec3{c, c, c}
	r := float64(d) / 2
	fill(v, func(p Vec3) bool { return p.Dist2(center) <= r*r })
	return v, nil
}

// Torus returns a ring lying in the xy plane whose outer diameter is d
// voxels. The tube radius is a sixth of d, with a minimum of one voxel.
func Torus(d int) (*Volume, error) {
	tube := math.Max(float64(d)/6, 1)
	major := float64(d)/2 - tube
	if major <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "torus size %d too small", d)
	}
	h := 2*int(math.Ceil(tube)) + 1
	v, err := New(d+2, d+2, h+2)
	if err != nil {
		return nil, err
	}
	c := float64(d+1) / 2
	cz := float64(h+1) / 2
	fill(v, func(p Vec3) bool {
		dx, dy := p.X-c, p.Y-c
		q := math.Hypot(dx, dy) - major
		dz := p.Z - cz
		return q*q+dz*dz <= tube*tube
	})
	return v, nil
}

// TwinSpheres returns the union of two balls of diameter d whose centres
// lie d/2 apart along x, surrounded by one layer of empty voxels.
func TwinSpheres(d int) (*Volume, error) {
	sx, sy := d+d/2+2, d+2
	first, err := New(sx, sy, sy)
	if err != nil {
		return nil, err
	}
	second, err := New(sx, sy, sy)
	if err != nil {
		return nil, err
	}
	c := float64(d+1) / 2
	r := float64(d) / 2
	a := Vec3{c, c, c}
	b := Vec3{c + float64(d/2), c, c}
	fill(first, func(p Vec3) bool { return p.Dist2(a) <= r*r })
	fill(second, func(p Vec3) bool { return p.Dist2(b) <= r*r })
	if err := first.Union(second); err != nil {
		return nil, err
	}
	return first, nil
}

// fill sets every voxel whose centre satisfies inside. The outer layer of the
// grid is left empty.
func fill(v *Volume, inside func(Vec3) bool) {
	sx, sy, sz := v.Size()
	for z := 1; z < sz-1; z++ {
		for y := 1; y < sy-1; y++ {
			for x := 1; x < sx-1; x++ {
				c := Coord{x, y, z}
				if inside(c.Vec3()) {
					v.Set(c)
				}
			}
		}
	}
}
