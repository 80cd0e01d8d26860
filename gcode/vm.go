package gcode

import (
	"errors"

	"github.com/mastercactapus/dotplot/coord"
)

const mmPerInch = 25.4

// VM will track state and interpret gcode.
//
// Besides position it keeps a running total of the distance travelled
// and the time it took at the commanded feed rates.
type VM struct {
	pos coord.Point
	wco coord.Point

	modal [256]float64

	feed    float64
	dist    float64
	minutes float64
}

// NewVM constructs a new VM with default state.
func NewVM() *VM {
	vm := &VM{}

	// Marlin power-on defaults
	vm.modal[ModalGroupMotion] = 0
	vm.modal[ModalGroupDistanceMode] = 90
	vm.modal[ModalGroupUnits] = 21

	return vm
}

func (vm VM) Inches() bool         { return vm.modal[ModalGroupUnits] == 20 }
func (vm VM) RelativeMotion() bool { return vm.modal[ModalGroupDistanceMode] == 91 }

func (vm VM) WPos() coord.Point {
	return vm.pos.Sub(vm.wco)
}
func (vm VM) MPos() coord.Point {
	return vm.pos
}
func (vm VM) WCO() coord.Point {
	return vm.wco
}

// Feed is the modal feed rate in mm/min.
func (vm VM) Feed() float64 { return vm.feed }

// Distance is the total travel so far in mm.
func (vm VM) Distance() float64 { return vm.dist }

// Minutes is the time spent travelling at the commanded feed rates.
// Moves made before any feed rate was set are not counted.
func (vm VM) Minutes() float64 { return vm.minutes }

func isSupported(g Word) bool {
	switch g.W {
	case 'X', 'Y', 'Z', 'F', 'P', 'S', 'W':
		return true
	case 'G':
		switch g.Arg {
		case 0, 1, 4, 20, 21, 28, 53, 90, 91, 92:
			return true
		}
	case 'M':
		switch g.Arg {
		case 84, 117, 862.3:
			return true
		}
	}

	return false
}

func applyBlock(p coord.Point, b Block, mul float64) coord.Point {
	for _, g := range b {
		switch g.W {
		case 'X':
			p.X = g.Arg * mul
		case 'Y':
			p.Y = g.Arg * mul
		case 'Z':
			p.Z = g.Arg * mul
		}
	}

	return p
}

func (vm *VM) home(axes Block) {
	if len(axes) == 0 {
		vm.pos = coord.Point{}
		return
	}
	for _, g := range axes {
		switch g.W {
		case 'X':
			vm.pos.X = 0
		case 'Y':
			vm.pos.Y = 0
		case 'Z':
			vm.pos.Z = 0
		}
	}
}

func (vm *VM) setOrigin(axes Block, mul float64) {
	for _, g := range axes {
		switch g.W {
		case 'X':
			vm.wco.X = vm.pos.X - g.Arg*mul
		case 'Y':
			vm.wco.Y = vm.pos.Y - g.Arg*mul
		case 'Z':
			vm.wco.Z = vm.pos.Z - g.Arg*mul
		}
	}
}

func (vm *VM) Run(b Block) error {
	err := b.Validate()
	if err != nil {
		return err
	}
	for _, g := range b {
		if !isSupported(g) {
			return errors.New("unsupported code: " + g.String())
		}
		mg := g.ModalGroup()
		if mg != ModalGroupNone && mg != ModalGroupNonModal {
			vm.modal[mg] = g.Arg
		}
	}

	mul := 1.0
	if vm.Inches() {
		mul = mmPerInch
	}
	if ok, f := b.Arg('F'); ok {
		vm.feed = f * mul
	}

	axes := b.Axes()
	switch {
	case b.Has(Word{W: 'G', Arg: 28}):
		// homing moves are not part of the job
		vm.home(axes)
		return nil
	case b.Has(Word{W: 'G', Arg: 92}):
		vm.setOrigin(axes, mul)
		return nil
	case len(axes) == 0:
		return nil
	}

	old := vm.pos
	// apply motion
	if vm.RelativeMotion() {
		vm.pos = vm.pos.Add(applyBlock(coord.Point{}, axes, mul))
	} else if b.Has(Word{W: 'G', Arg: 53}) {
		vm.pos = applyBlock(vm.pos, axes, 1)
	} else {
		vm.pos = applyBlock(vm.WPos(), axes, mul).Add(vm.wco)
	}

	d := old.Distance(vm.pos)
	vm.dist += d
	if vm.feed > 0 {
		vm.minutes += d / vm.feed
	}

	return nil
}
