package plotter

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/mastercactapus/dotplot/coord"
	"github.com/mastercactapus/dotplot/gcode"
)

const (
	progressRate    = 0.015
	progressMinimum = 5
)

// progressInterval is the number of body commands between progress
// messages for a body of n commands.
func progressInterval(n int) int {
	skip := int(math.Round(float64(n) * progressRate))
	if skip < progressMinimum {
		return progressMinimum
	}
	return skip
}

// formatClock renders seconds as HH:MM:SS.
func formatClock(seconds float64) string {
	s := int(seconds)
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s%3600/60, s%60)
}

func progressMessage(done, total int, duration float64) gcode.Message {
	frac := float64(done) / float64(total)
	return gcode.Message(fmt.Sprintf("%.1f%%  R%s", frac*100, formatClock((1-frac)*duration)))
}

func (p *Printer) header() []gcode.Command {
	h := []gcode.Command{gcode.Comment("Start of generated code")}
	if p.cfg.Model != "" {
		h = append(h, gcode.ModelCheck(p.cfg.Model))
	}
	return append(h,
		gcode.UnitsMM,
		gcode.AbsoluteCoords,
		gcode.Home,
		gcode.NoOp{},
		gcode.Move{To: coord.Z(p.cfg.Z0), Feed: p.cfg.MoveFeed, Mode: p.cfg.Mode},
		gcode.Move{To: coord.XY(p.cfg.Min.X, p.cfg.Min.Y), Feed: p.cfg.MoveFeed, Mode: p.cfg.Mode},
		gcode.SetOrigin,
		gcode.Message("0.0%"),
		gcode.NoOp{},
	)
}

func (p *Printer) footer() []gcode.Command {
	return []gcode.Command{
		gcode.Comment("Lift the head up before turning off"),
		gcode.Move{To: coord.Z(p.cfg.ParkZ), Feed: p.cfg.MoveFeed, Mode: p.cfg.Mode},
		gcode.MotorsOff,
		gcode.NoOp{},
	}
}

type lineWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (lw *lineWriter) write(c gcode.Command) {
	if lw.err != nil {
		return
	}
	n, err := io.WriteString(lw.w, gcode.Render(c)+"\n")
	lw.n += int64(n)
	lw.err = err
}

// WriteTo renders the whole job to w: the header, every buffered command
// with periodic progress messages, and the footer.
func (p *Printer) WriteTo(w io.Writer) (int64, error) {
	lw := &lineWriter{w: w}

	for _, c := range p.header() {
		lw.write(c)
	}

	total := len(p.code)
	duration := p.Duration()
	skip := progressInterval(total)
	for i, c := range p.code {
		lw.write(c)
		if (i+1)%skip == 0 {
			lw.write(progressMessage(i+1, total, duration))
		}
	}

	for _, c := range p.footer() {
		lw.write(c)
	}

	return lw.n, lw.err
}

// Save writes the job to the named file, replacing it if it exists.
func (p *Printer) Save(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)
	_, err = p.WriteTo(bw)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	return nil
}
