package gcode

import (
	"testing"

	"github.com/mastercactapus/dotplot/coord"
	"github.com/stretchr/testify/assert"
)

func TestTotalDistance(t *testing.T) {
	start := coord.Point{Z: 6.5}

	assert.Equal(t, 0.0, TotalDistance(nil, start))

	cmds := []Command{
		Move{To: coord.XY(3, 4)},
		Move{To: coord.Z(4)},
		Move{To: coord.Z(6.5)},
	}
	assert.InDelta(t, 10.0, TotalDistance(cmds, start), 1e-9)

	// an empty move stays put
	cmds = append(cmds, Move{})
	assert.InDelta(t, 10.0, TotalDistance(cmds, start), 1e-9)

	// absent X carries forward
	cmds = append(cmds, Move{To: coord.Partial{Y: coord.Some(0)}})
	assert.InDelta(t, 14.0, TotalDistance(cmds, start), 1e-9)
}

func TestTotalDistance_IgnoresOtherCommands(t *testing.T) {
	start := coord.Point{Z: 6.5}
	moves := []Command{
		Move{To: coord.XY(50, 49), Feed: 1000},
		Move{To: coord.Z(4), Feed: 400},
		Move{To: coord.Z(6.5), Feed: 800},
		Move{To: coord.XY(29, 29), Feed: 1000},
	}
	mixed := []Command{
		Comment("start"),
		moves[0],
		NoOp{},
		Message("10%"),
		moves[1],
		Home,
		moves[2],
		ModelCheck("MK3S"),
		moves[3],
		NoOp{},
	}

	assert.Equal(t, TotalDistance(moves, start), TotalDistance(mixed, start))
}
