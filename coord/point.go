package coord

import (
	"math"
)

type Point struct{ X, Y, Z float64 }

// Vec2 is a point on the XY plane.
type Vec2 struct{ X, Y float64 }

func (p Point) Cross(op Point) Point {
	return Point{
		p.Y*op.Z - p.Z*op.Y,
		p.Z*op.X - p.X*op.Z,
		p.X*op.Y - p.Y*op.X,
	}
}
func (p Point) Dot(op Point) float64 {
	return p.X*op.X + p.Y*op.Y + p.Z*op.Z
}

// Add will add the target values to p.
func (p Point) Add(target Point) Point {
	p.X += target.X
	p.Y += target.Y
	p.Z += target.Z
	return p
}

// Sub will subtract the target values from p.
func (p Point) Sub(target Point) Point {
	p.X -= target.X
	p.Y -= target.Y
	p.Z -= target.Z
	return p
}

// Length is the euclidean norm of p.
func (p Point) Length() float64 {
	return math.Sqrt(p.Dot(p))
}

// Distance will return the 3D distance between p and target.
func (p Point) Distance(target Point) float64 {
	return target.Sub(p).Length()
}

// IsFinite reports whether no component is NaN or infinite.
func (p Vec2) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}
