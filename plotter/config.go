package plotter

import (
	"errors"
	"fmt"
	"math"

	"github.com/mastercactapus/dotplot/coord"
	"github.com/mastercactapus/dotplot/meshlevel"
)

// DefaultParkZ is the height the head is lifted to before the motors are
// turned off.
const DefaultParkZ = 80

// Config describes the machine and how points are drawn on it.
type Config struct {
	// Model, if set, adds a printer model check to the output.
	Model string

	// Min and Max are the corners of the work envelope.
	Min, Max coord.Vec2

	// Scale is the size of the source drawing. When set, input points are
	// rescaled from [0, Scale] into the envelope.
	Scale *coord.Vec2

	// Z0 is the resting height between points, ZPlunge the drawing height.
	Z0, ZPlunge float64

	MoveFeed, PlungeFeed, RetractFeed float64

	// Mode is the motion G-code used for every move (0 or 1).
	Mode int

	// ParkZ is the final height at the end of the job. Zero means
	// DefaultParkZ.
	ParkZ float64

	// Speed is the nominal travel speed in mm/s used to estimate the job
	// duration for progress messages.
	Speed float64

	// Leveler, if set, offsets the plunge and retract heights of each point.
	Leveler meshlevel.ZOffsetter
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Validate checks that cfg describes a usable machine.
func (cfg Config) Validate() error {
	if !cfg.Min.IsFinite() || !cfg.Max.IsFinite() {
		return errors.New("envelope must be finite")
	}
	if cfg.Max.X <= cfg.Min.X || cfg.Max.Y <= cfg.Min.Y {
		return fmt.Errorf("envelope max %v must exceed min %v on both axes", cfg.Max, cfg.Min)
	}
	if cfg.Scale != nil {
		if !cfg.Scale.IsFinite() || cfg.Scale.X <= 0 || cfg.Scale.Y <= 0 {
			return fmt.Errorf("scale %v must be positive on both axes", *cfg.Scale)
		}
	}
	if !finite(cfg.Z0, cfg.ZPlunge, cfg.MoveFeed, cfg.PlungeFeed, cfg.RetractFeed, cfg.ParkZ) {
		return errors.New("heights and feed rates must be finite")
	}
	if cfg.Mode != 0 && cfg.Mode != 1 {
		return fmt.Errorf("unsupported motion mode G%d", cfg.Mode)
	}
	if !finite(cfg.Speed) || cfg.Speed <= 0 {
		return errors.New("estimate speed must be positive")
	}

	return nil
}
