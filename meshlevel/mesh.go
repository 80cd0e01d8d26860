package meshlevel

import (
	"errors"
	"math"

	"github.com/fogleman/delaunay"
	"github.com/mastercactapus/dotplot/coord"
)

// Mesh interpolates surface height between probed points.
type Mesh struct {
	min, max  coord.Vec2
	triangles []coord.Triangle
}

var _ ZOffsetter = &Mesh{}

// NewMesh triangulates points on the XY plane.
func NewMesh(points []coord.Point) (*Mesh, error) {
	if len(points) < 3 {
		return nil, errors.New("need at least 3 points to create a mesh")
	}

	points2d := make([]delaunay.Point, len(points))
	byXY := make(map[delaunay.Point]coord.Point, len(points))

	mesh := &Mesh{
		min: points[0].XY(),
		max: points[0].XY(),
	}
	for i, p := range points {
		mesh.min.X = math.Min(mesh.min.X, p.X)
		mesh.min.Y = math.Min(mesh.min.Y, p.Y)
		mesh.max.X = math.Max(mesh.max.X, p.X)
		mesh.max.Y = math.Max(mesh.max.Y, p.Y)

		d := delaunay.Point{X: p.X, Y: p.Y}
		if _, dup := byXY[d]; dup {
			return nil, errors.New("duplicate probe point")
		}
		byXY[d] = p
		points2d[i] = d
	}
	mesh.min.X -= coord.Epsilon
	mesh.min.Y -= coord.Epsilon
	mesh.max.X += coord.Epsilon
	mesh.max.Y += coord.Epsilon

	tri, err := delaunay.Triangulate(points2d)
	if err != nil {
		return nil, err
	}

	mesh.triangles = make([]coord.Triangle, 0, len(tri.Triangles)/3)
	for i := 0; i+2 < len(tri.Triangles); i += 3 {
		mesh.triangles = append(mesh.triangles, coord.Triangle{
			A: byXY[tri.Points[tri.Triangles[i]]],
			B: byXY[tri.Points[tri.Triangles[i+1]]],
			C: byXY[tri.Points[tri.Triangles[i+2]]],
		})
	}

	return mesh, nil
}

// OffsetZ returns the height of the mesh at x,y.
func (m Mesh) OffsetZ(x, y float64) (bool, float64) {
	if x < m.min.X || m.max.X < x || y < m.min.Y || m.max.Y < y {
		return false, 0
	}
	for _, t := range m.triangles {
		if !t.ContainsXY(x, y) {
			continue
		}
		return true, t.Z(x, y)
	}

	return false, 0
}
