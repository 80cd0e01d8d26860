package gcode

import (
	"github.com/mastercactapus/dotplot/coord"
)

// TotalDistance returns the length of the path traced by every Move in
// cmds, starting at start. Axes missing from a Move keep their previous
// value, so they contribute no travel.
func TotalDistance(cmds []Command, start coord.Point) float64 {
	var total float64
	pos := start
	for _, c := range cmds {
		m, ok := c.(Move)
		if !ok {
			continue
		}
		next := m.To.Apply(pos)
		total += pos.Distance(next)
		pos = next
	}

	return total
}
