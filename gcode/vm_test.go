package gcode

import (
	"strings"
	"testing"
	"time"

	"github.com/mastercactapus/dotplot/coord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVM_Run(t *testing.T) {
	vm := NewVM()

	require.NoError(t, vm.Run(Block{{W: 'G', Arg: 0}, {W: 'X', Arg: 10}, {W: 'Z', Arg: 5}}))
	assert.Equal(t, coord.Point{X: 10, Z: 5}, vm.MPos())

	require.NoError(t, vm.Run(Block{{W: 'G', Arg: 92}, {W: 'X', Arg: 0}}))
	assert.Equal(t, coord.Point{X: 10}, vm.WCO())
	assert.Equal(t, coord.Point{Z: 5}, vm.WPos())

	require.NoError(t, vm.Run(Block{{W: 'G', Arg: 0}, {W: 'X', Arg: 1}}))
	assert.Equal(t, coord.Point{X: 11, Z: 5}, vm.MPos())

	require.NoError(t, vm.Run(Block{{W: 'G', Arg: 91}}))
	require.NoError(t, vm.Run(Block{{W: 'G', Arg: 0}, {W: 'Y', Arg: 2}}))
	assert.Equal(t, coord.Point{X: 11, Y: 2, Z: 5}, vm.MPos())

	require.NoError(t, vm.Run(Block{{W: 'G', Arg: 28}}))
	assert.Equal(t, coord.Point{}, vm.MPos())

	err := vm.Run(Block{{W: 'M', Arg: 3}})
	assert.Error(t, err)
}

func TestVM_Inches(t *testing.T) {
	vm := NewVM()
	require.NoError(t, vm.Run(Block{{W: 'G', Arg: 20}}))
	require.NoError(t, vm.Run(Block{{W: 'G', Arg: 1}, {W: 'X', Arg: 2}, {W: 'F', Arg: 10}}))

	assert.InDelta(t, 50.8, vm.MPos().X, 1e-9)
	assert.InDelta(t, 254.0, vm.Feed(), 1e-9)
}

func TestEstimate(t *testing.T) {
	r := NewParser(strings.NewReader(`G21
G90
G28 W
G0 Z6.5 F600.0
G0 X10.0 Y0.0 F600.0
G92 X0 Y0
M117 0.0%
G0 X3.0 Y4.0 F600.0
M84
`))

	s, err := Estimate(r)
	require.NoError(t, err)
	assert.Equal(t, 9, s.Blocks)
	assert.InDelta(t, 21.5, s.Distance, 1e-9)
	assert.InDelta(t, float64(2150*time.Millisecond), float64(s.FeedTime), float64(time.Millisecond))
}

func TestEstimate_Error(t *testing.T) {
	_, err := Estimate(&BlocksReader{Blocks: MustParse("G0 X1\nM3 S1000\n")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "block 2")
}
