package main

import (
	"errors"
	"log"
	"time"

	"github.com/mastercactapus/dotplot/config"
	"github.com/mastercactapus/dotplot/plotter"
	flag "github.com/spf13/pflag"
)

var (
	configFile = "printer.yaml"
	outFile    string
)

func configFlag(fs *flag.FlagSet) {
	fs.StringVarP(&configFile, "config", "c", configFile, "Printer configuration file.")
}

func renderFlags(fs *flag.FlagSet) {
	configFlag(fs)
	fs.StringVarP(&outFile, "out", "o", "out.gcode", "Output G-code file.")
}

// drawJob draws every point of job on a new Printer.
func drawJob(cfg *config.Config, job *config.Job) (*plotter.Printer, error) {
	pc, err := cfg.Printer()
	if err != nil {
		return nil, err
	}
	p, err := plotter.New(pc)
	if err != nil {
		return nil, err
	}
	for _, pt := range job.Points {
		p.DrawPoint(pt[0], pt[1])
	}
	return p, nil
}

func estimated(p *plotter.Printer) time.Duration {
	return time.Duration(p.Duration() * float64(time.Second)).Round(time.Second)
}

func runRender(fs *flag.FlagSet, args []string) error {
	if len(args) != 1 {
		fs.Usage()
		return errors.New("expected a single job file")
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	job, err := config.LoadJob(args[0])
	if err != nil {
		return err
	}
	p, err := drawJob(cfg, job)
	if err != nil {
		return err
	}

	err = p.Save(outFile)
	if err != nil {
		return err
	}

	log.Printf("wrote %s: %d points, %.1f mm, about %s", outFile, len(job.Points), p.TotalDistance(), estimated(p))
	return nil
}
