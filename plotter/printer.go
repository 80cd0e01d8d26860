// Package plotter turns point drawing requests into G-code.
package plotter

import (
	"fmt"

	"github.com/mastercactapus/dotplot/coord"
	"github.com/mastercactapus/dotplot/gcode"
)

// Printer accumulates the commands of a single job.
//
// A Printer is not safe for concurrent use.
type Printer struct {
	cfg  Config
	code []gcode.Command

	width, height float64
}

// New returns a Printer for cfg, or an error if cfg is invalid.
func New(cfg Config) (*Printer, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	if cfg.ParkZ == 0 {
		cfg.ParkZ = DefaultParkZ
	}
	if cfg.Scale != nil {
		scale := *cfg.Scale
		cfg.Scale = &scale
	}

	return &Printer{
		cfg:    cfg,
		width:  cfg.Max.X - cfg.Min.X,
		height: cfg.Max.Y - cfg.Min.Y,
	}, nil
}

// Width of the work envelope.
func (p *Printer) Width() float64 { return p.width }

// Height of the work envelope.
func (p *Printer) Height() float64 { return p.height }

// Len is the number of buffered commands.
func (p *Printer) Len() int { return len(p.code) }

// Commands returns a copy of the buffered commands.
func (p *Printer) Commands() []gcode.Command {
	c := make([]gcode.Command, len(p.code))
	copy(c, p.code)
	return c
}

// DrawPoint moves to x,y and marks it by lowering and raising the head.
//
// x,y are in drawing units; they are rescaled into the envelope if the
// Printer was configured with a Scale.
func (p *Printer) DrawPoint(x, y float64) {
	px, py := x, y
	if s := p.cfg.Scale; s != nil {
		px = coord.Rescale(x, 0, s.X, 0, p.width)
		py = coord.Rescale(y, 0, s.Y, 0, p.height)
	}

	plunge, retract := p.cfg.ZPlunge, p.cfg.Z0
	if p.cfg.Leveler != nil {
		if ok, off := p.cfg.Leveler.OffsetZ(px, py); ok {
			plunge += off
			retract += off
		}
	}

	p.code = append(p.code,
		gcode.Comment(fmt.Sprintf("point (%.1f, %.1f)", x, y)),
		gcode.Move{To: coord.XY(px, py), Feed: p.cfg.MoveFeed, Mode: p.cfg.Mode},
		gcode.Move{To: coord.Z(plunge), Feed: p.cfg.PlungeFeed, Mode: p.cfg.Mode},
		gcode.Move{To: coord.Z(retract), Feed: p.cfg.RetractFeed, Mode: p.cfg.Mode},
		gcode.NoOp{},
	)
}

// TotalDistance is the travel of the buffered commands, starting at
// the resting height above the origin.
func (p *Printer) TotalDistance() float64 {
	return gcode.TotalDistance(p.code, coord.Point{Z: p.cfg.Z0})
}

// Duration estimates the job length in seconds at the nominal speed.
func (p *Printer) Duration() float64 {
	return p.TotalDistance() / p.cfg.Speed
}
