package main

import (
	"context"
	"log"
	"net/http"

	"github.com/mastercactapus/dotplot/config"
	"github.com/mastercactapus/dotplot/machine"
	flag "github.com/spf13/pflag"
)

var (
	addr    = ":9091"
	dataDir = "./data"
)

func serveFlags(fs *flag.FlagSet) {
	configFlag(fs)
	fs.StringVar(&addr, "addr", addr, "Address to bind the server to.")
	fs.StringVar(&dataDir, "dir", dataDir, "Data directory to use.")
}

func runServe(fs *flag.FlagSet, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	var m *machine.Machine
	if cfg.Machine.Port != "" {
		m, err = openMachine(context.Background(), cfg)
		if err != nil {
			return err
		}
		defer m.Close()
	} else {
		log.Println("no machine configured, run is disabled")
	}

	api := newAPI(cfg, m, dataDir)

	log.Println("listening on", addr)
	return http.ListenAndServe(addr, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		log.Printf("%s %s - %s", req.Method, req.URL.Path, req.RemoteAddr)
		api.ServeHTTP(w, req)
	}))
}
