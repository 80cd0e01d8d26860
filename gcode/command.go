package gcode

import (
	"github.com/mastercactapus/dotplot/coord"
)

// A Command is a single line of generated output.
//
// The set of commands is closed; see Render for the text of each.
type Command interface {
	command()
}

// Comment is an annotation that never affects machine state.
type Comment string

// ModelCheck asserts the identity of the target printer.
type ModelCheck string

// Message is shown to the operator on the printer display.
type Message string

// Move is a linear move toward To at Feed mm/min. Mode selects
// the motion G-code (0 for G0, 1 for G1).
type Move struct {
	To   coord.Partial
	Feed float64
	Mode int
}

// Raw is a fixed, pre-formatted instruction with an optional comment.
type Raw struct {
	Code    string
	Comment string
}

// NoOp renders as a blank line.
type NoOp struct{}

func (Comment) command()    {}
func (ModelCheck) command() {}
func (Message) command()    {}
func (Move) command()       {}
func (Raw) command()        {}
func (NoOp) command()       {}

var (
	Home           = Raw{Code: "G28 W", Comment: "Home all without mesh bed level"}
	UnitsMM        = Raw{Code: "G21", Comment: "Set units to millimeters"}
	AbsoluteCoords = Raw{Code: "G90", Comment: "Use absolute coordinates"}
	SetOrigin      = Raw{Code: "G92 X0 Y0", Comment: "Set current position to origin"}
	MotorsOff      = Raw{Code: "M84", Comment: "Disable motors"}
)
