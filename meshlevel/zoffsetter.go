package meshlevel

// ZOffsetter reports the surface height offset at x,y.
// ok is false when x,y is outside the measured area.
type ZOffsetter interface {
	OffsetZ(x, y float64) (ok bool, offset float64)
}

// Flat is a ZOffsetter for a perfectly level surface.
type Flat struct{}

func (Flat) OffsetZ(x, y float64) (bool, float64) {
	return false, 0
}
