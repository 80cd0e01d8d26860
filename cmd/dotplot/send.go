package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"

	"github.com/mastercactapus/dotplot/config"
	"github.com/mastercactapus/dotplot/machine"
	"github.com/mastercactapus/dotplot/machine/marlin"
	"github.com/mastercactapus/dotplot/spjs"
	flag "github.com/spf13/pflag"
)

func sendFlags(fs *flag.FlagSet) {
	configFlag(fs)
}

// openMachine connects to the printer described by cfg.Machine.
func openMachine(ctx context.Context, cfg *config.Config) (*machine.Machine, error) {
	mc := cfg.Machine
	if mc.Port == "" {
		return nil, &config.Error{Option: "machine.port", Message: "must be specified"}
	}

	var adapter machine.Adapter
	if mc.SPJS != "" {
		adapter = marlin.NewSPJSAdapter(spjs.NewSPJS(mc.SPJS), mc.Port, mc.Baud)
	} else {
		conn, err := marlin.OpenSerial(ctx, mc.Port, mc.Baud)
		if err != nil {
			return nil, err
		}
		adapter = conn
	}

	return machine.NewMachine(adapter), nil
}

func runSend(fs *flag.FlagSet, args []string) error {
	if len(args) != 1 {
		fs.Usage()
		return errors.New("expected a single G-code file")
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	m, err := openMachine(ctx, cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	go func() {
		for p := range m.Progress() {
			log.Printf("line %d: %s", p.Line, p.Message)
		}
	}()

	n, err := m.Run(ctx, f)
	log.Printf("sent %d lines", n)
	return err
}
