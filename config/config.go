// Package config loads printer configuration and point jobs from YAML.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/ioutil"
	"math"

	"github.com/mastercactapus/dotplot/coord"
	"github.com/mastercactapus/dotplot/meshlevel"
	"github.com/mastercactapus/dotplot/plotter"
	"gopkg.in/yaml.v3"
)

// DefaultBaud is used for serial connections when machine.baud is unset.
const DefaultBaud = 115200

// Config is the on-disk printer configuration.
type Config struct {
	Model string      `yaml:"model"`
	Min   [2]float64  `yaml:"min"`
	Max   [2]float64  `yaml:"max"`
	Scale *[2]float64 `yaml:"scale"`

	Z0      float64 `yaml:"z0"`
	ZPlunge float64 `yaml:"z_plunge"`
	ParkZ   float64 `yaml:"park_z"`

	Feed     Feed `yaml:"feed"`
	FeedMode int  `yaml:"feed_mode"`

	// EstimateSpeed is the nominal travel speed in mm/s.
	EstimateSpeed float64 `yaml:"estimate_speed"`

	Mesh    *Mesh   `yaml:"mesh"`
	Machine Machine `yaml:"machine"`
}

// Feed rates in mm/min.
type Feed struct {
	Move    float64 `yaml:"move"`
	Plunge  float64 `yaml:"plunge"`
	Retract float64 `yaml:"retract"`
}

// Mesh is a set of probed bed heights.
type Mesh struct {
	// Reference is subtracted from every probed height.
	Reference float64      `yaml:"reference"`
	Points    [][3]float64 `yaml:"points"`
}

// Machine describes how to reach the printer.
//
// With SPJS set, Port names a port on that server; otherwise it is a local
// serial device.
type Machine struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
	SPJS string `yaml:"spjs"`
}

// Load reads and validates the configuration file at name.
func Load(name string) (*Config, error) {
	data, err := ioutil.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a YAML configuration. Unknown keys are errors.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(&cfg)
	if errors.Is(err, io.EOF) {
		return nil, &Error{Message: "empty configuration"}
	}
	if err != nil {
		return nil, &Error{Message: "parse: " + err.Error(), Cause: err}
	}

	cfg.applyDefaults()
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.ParkZ == 0 {
		cfg.ParkZ = plotter.DefaultParkZ
	}
	if cfg.Machine.Baud == 0 {
		cfg.Machine.Baud = DefaultBaud
	}
}

func positive(option string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return invalid(option, "must be a positive number, got %g", v)
	}
	return nil
}

// Validate reports the first invalid option as an *Error.
func (cfg *Config) Validate() error {
	if cfg.Max[0] <= cfg.Min[0] || cfg.Max[1] <= cfg.Min[1] {
		return invalid("max", "must exceed min %v on both axes", cfg.Min)
	}
	if cfg.Scale != nil {
		if err := positive("scale", cfg.Scale[0]); err != nil {
			return err
		}
		if err := positive("scale", cfg.Scale[1]); err != nil {
			return err
		}
	}
	checks := []struct {
		option string
		v      float64
	}{
		{"feed.move", cfg.Feed.Move},
		{"feed.plunge", cfg.Feed.Plunge},
		{"feed.retract", cfg.Feed.Retract},
		{"estimate_speed", cfg.EstimateSpeed},
	}
	for _, c := range checks {
		if err := positive(c.option, c.v); err != nil {
			return err
		}
	}
	if cfg.FeedMode != 0 && cfg.FeedMode != 1 {
		return invalid("feed_mode", "must be 0 or 1, got %d", cfg.FeedMode)
	}
	if cfg.Mesh != nil && len(cfg.Mesh.Points) < 3 {
		return invalid("mesh.points", "need at least 3 points, got %d", len(cfg.Mesh.Points))
	}
	if cfg.Machine.Baud < 0 {
		return invalid("machine.baud", "must be positive")
	}

	return nil
}

// Printer converts cfg into a plotter configuration, triangulating the
// mesh if one is configured. Without a mesh the bed is treated as flat.
func (cfg *Config) Printer() (plotter.Config, error) {
	pc := plotter.Config{
		Model:       cfg.Model,
		Min:         coord.Vec2{X: cfg.Min[0], Y: cfg.Min[1]},
		Max:         coord.Vec2{X: cfg.Max[0], Y: cfg.Max[1]},
		Z0:          cfg.Z0,
		ZPlunge:     cfg.ZPlunge,
		MoveFeed:    cfg.Feed.Move,
		PlungeFeed:  cfg.Feed.Plunge,
		RetractFeed: cfg.Feed.Retract,
		Mode:        cfg.FeedMode,
		ParkZ:       cfg.ParkZ,
		Speed:       cfg.EstimateSpeed,
	}
	if cfg.Scale != nil {
		pc.Scale = &coord.Vec2{X: cfg.Scale[0], Y: cfg.Scale[1]}
	}

	if cfg.Mesh == nil {
		pc.Leveler = meshlevel.Flat{}
	} else {
		points := make([]coord.Point, len(cfg.Mesh.Points))
		for i, p := range cfg.Mesh.Points {
			points[i] = coord.Point{X: p[0], Y: p[1], Z: p[2]}
		}
		mesh, err := meshlevel.NewMesh(meshlevel.OffsetFrom(cfg.Mesh.Reference, points))
		if err != nil {
			return pc, wrap("mesh.points", err)
		}
		pc.Leveler = mesh
	}

	return pc, nil
}
