package coord

// Optional is a single axis value that may be absent.
type Optional struct {
	Val float64
	Set bool
}

// Some returns a present value.
func Some(v float64) Optional { return Optional{Val: v, Set: true} }

// Or returns the value if present, otherwise def.
func (o Optional) Or(def float64) float64 {
	if o.Set {
		return o.Val
	}
	return def
}

// Partial is a position update where an absent axis means
// "leave this axis where it is".
type Partial struct{ X, Y, Z Optional }

// XY returns a Partial that leaves Z untouched.
func XY(x, y float64) Partial { return Partial{X: Some(x), Y: Some(y)} }

// Z returns a Partial that only moves the Z axis.
func Z(z float64) Partial { return Partial{Z: Some(z)} }

// XYZ returns a Partial with every axis present.
func XYZ(x, y, z float64) Partial { return Partial{X: Some(x), Y: Some(y), Z: Some(z)} }

// Empty reports whether no axis is present.
func (p Partial) Empty() bool {
	return !p.X.Set && !p.Y.Set && !p.Z.Set
}

// Apply returns pos with every present axis replaced by the value in p.
func (p Partial) Apply(pos Point) Point {
	pos.X = p.X.Or(pos.X)
	pos.Y = p.Y.Or(pos.Y)
	pos.Z = p.Z.Or(pos.Z)
	return pos
}
