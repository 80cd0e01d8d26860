package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mastercactapus/dotplot/gcode"
	flag "github.com/spf13/pflag"
)

var estimateSpeed float64

func estimateFlags(fs *flag.FlagSet) {
	fs.Float64VarP(&estimateSpeed, "speed", "s", 0, "Nominal travel speed in mm/s for a duration estimate.")
}

func estimateFile(name string) (*gcode.Stats, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return gcode.Estimate(gcode.NewParser(f))
}

func runEstimate(fs *flag.FlagSet, args []string) error {
	if len(args) != 1 {
		fs.Usage()
		return errors.New("expected a single G-code file")
	}

	s, err := estimateFile(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("blocks:    %d\n", s.Blocks)
	fmt.Printf("distance:  %.1f mm\n", s.Distance)
	fmt.Printf("feed time: %s\n", s.FeedTime.Round(time.Second))
	if estimateSpeed > 0 {
		d := time.Duration(s.Distance / estimateSpeed * float64(time.Second))
		fmt.Printf("nominal:   %s\n", d.Round(time.Second))
	}
	return nil
}
