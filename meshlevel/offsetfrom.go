package meshlevel

import (
	"github.com/mastercactapus/dotplot/coord"
)

// OffsetFrom returns a copy of points with z subtracted from every height,
// turning absolute probe readings into offsets from a reference surface.
func OffsetFrom(z float64, points []coord.Point) []coord.Point {
	p := make([]coord.Point, len(points))
	copy(p, points)

	for i := range p {
		p[i].Z -= z
	}
	return p
}
