package coord

// Rescale maps v linearly from [srcMin, srcMax] into [dstMin, dstMax].
//
// Values outside the source range are extrapolated, not clamped. A zero-width
// source range (srcMin == srcMax) yields Inf or NaN; callers must rule it out.
func Rescale(v, srcMin, srcMax, dstMin, dstMax float64) float64 {
	return dstMin + (v-srcMin)/(srcMax-srcMin)*(dstMax-dstMin)
}
