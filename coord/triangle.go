package coord

import (
	"math"
)

const (
	// Epsilon is the max error when checking containment.
	Epsilon   = 0.001
	epsilonSq = Epsilon * Epsilon
)

type Triangle struct{ A, B, C Point }

// ContainsXY returns true if the 2D projection of the triangle
// has the point x,y.
func (t Triangle) ContainsXY(x, y float64) bool {
	p := Vec2{x, y}
	a, b, c := t.A.XY(), t.B.XY(), t.C.XY()

	if !t.boundsContain(p) {
		return false
	}
	s1, s2, s3 := side(a, b, p), side(b, c, p), side(c, a, p)
	if (s1 >= 0 && s2 >= 0 && s3 >= 0) || (s1 <= 0 && s2 <= 0 && s3 <= 0) {
		return true
	}

	// points within Epsilon of an edge count as inside
	return segmentDistSq(a, b, p) <= epsilonSq ||
		segmentDistSq(b, c, p) <= epsilonSq ||
		segmentDistSq(c, a, p) <= epsilonSq
}

// Z will give the Z-coordinate on the plane defined by the triangle
// where it intersects x,y.
func (t Triangle) Z(x, y float64) float64 {
	n := t.C.Sub(t.A).Cross(t.B.Sub(t.A))
	d := n.Dot(t.C)

	return (d - n.X*x - n.Y*y) / n.Z
}

// XY drops the Z component.
func (p Point) XY() Vec2 { return Vec2{p.X, p.Y} }

func (t Triangle) boundsContain(p Vec2) bool {
	minX := math.Min(t.A.X, math.Min(t.B.X, t.C.X)) - Epsilon
	maxX := math.Max(t.A.X, math.Max(t.B.X, t.C.X)) + Epsilon
	minY := math.Min(t.A.Y, math.Min(t.B.Y, t.C.Y)) - Epsilon
	maxY := math.Max(t.A.Y, math.Max(t.B.Y, t.C.Y)) + Epsilon

	return minX <= p.X && p.X <= maxX && minY <= p.Y && p.Y <= maxY
}

// adapted from https://totologic.blogspot.com/2014/01/accurate-point-in-triangle-test.html

func side(a, b, p Vec2) float64 {
	return (b.Y-a.Y)*(p.X-a.X) + (a.X-b.X)*(p.Y-a.Y)
}

func segmentDistSq(a, b, p Vec2) float64 {
	abSq := (b.X-a.X)*(b.X-a.X) + (b.Y-a.Y)*(b.Y-a.Y)
	apSq := (p.X-a.X)*(p.X-a.X) + (p.Y-a.Y)*(p.Y-a.Y)
	if abSq == 0 {
		return apSq
	}

	dot := ((p.X-a.X)*(b.X-a.X) + (p.Y-a.Y)*(b.Y-a.Y)) / abSq
	switch {
	case dot < 0:
		return apSq
	case dot <= 1:
		return apSq - dot*dot*abSq
	}
	return (p.X-b.X)*(p.X-b.X) + (p.Y-b.Y)*(p.Y-b.Y)
}
