package gcode

import (
	"fmt"
	"io"
	"time"
)

// Stats summarize a G-code program.
type Stats struct {
	Blocks   int
	Distance float64

	// FeedTime is how long the moves take at their commanded feed rates,
	// ignoring acceleration.
	FeedTime time.Duration
}

// Estimate runs every block from r through a fresh VM.
func Estimate(r Reader) (*Stats, error) {
	vm := NewVM()
	var s Stats
	for {
		b, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		err = vm.Run(b)
		if err != nil {
			return nil, fmt.Errorf("block %d (%s): %w", s.Blocks+1, b.String(), err)
		}
		s.Blocks++
	}

	s.Distance = vm.Distance()
	s.FeedTime = time.Duration(vm.Minutes() * float64(time.Minute))
	return &s, nil
}
