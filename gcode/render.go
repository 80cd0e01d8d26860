package gcode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mastercactapus/dotplot/coord"
)

// WarnEmptyMove replaces a Move that has no axis to move.
const WarnEmptyMove = Comment("[WARNING] Move without coordinates!")

// format1 renders f with exactly one fractional digit.
func format1(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

// FormatPartial renders the present axes of p in X, Y, Z order
// separated by single spaces. An empty Partial renders as "".
func FormatPartial(p coord.Partial) string {
	parts := make([]string, 0, 3)
	add := func(axis byte, o coord.Optional) {
		if o.Set {
			parts = append(parts, string(axis)+format1(o.Val))
		}
	}
	add('X', p.X)
	add('Y', p.Y)
	add('Z', p.Z)

	return strings.Join(parts, " ")
}

// Render returns the text of c without a trailing newline. Pointers to
// commands render the same as their values.
func Render(c Command) string {
	switch c := c.(type) {
	case *Comment:
		return Render(*c)
	case *ModelCheck:
		return Render(*c)
	case *Message:
		return Render(*c)
	case *Move:
		return Render(*c)
	case *Raw:
		return Render(*c)
	case *NoOp:
		return Render(*c)
	case Comment:
		return "; " + string(c)
	case ModelCheck:
		return fmt.Sprintf("M862.3 P %q ; printer model check", string(c))
	case Message:
		return "M117 " + string(c)
	case Move:
		pos := FormatPartial(c.To)
		if pos == "" {
			return Render(WarnEmptyMove)
		}
		return "G" + strconv.Itoa(c.Mode) + " " + pos + " F" + format1(c.Feed)
	case Raw:
		if c.Comment == "" {
			return c.Code
		}
		return c.Code + " ; " + c.Comment
	case NoOp:
		return ""
	}

	panic(fmt.Sprintf("gcode: unknown command type %T", c))
}
