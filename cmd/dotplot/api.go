package main

import (
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	sse "github.com/alexandrevicenzi/go-sse"
	"github.com/gorilla/mux"
	"github.com/mastercactapus/dotplot/config"
	"github.com/mastercactapus/dotplot/machine"
)

type api struct {
	http.Handler
	cfg     *config.Config
	m       *machine.Machine
	dataDir string
	sse     *sse.Server
}

type renderResult struct {
	Points   int     `json:"points"`
	Commands int     `json:"commands"`
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

type estimateResult struct {
	Blocks   int     `json:"blocks"`
	Distance float64 `json:"distance"`
	FeedTime float64 `json:"feedTime"`
}

func newAPI(cfg *config.Config, m *machine.Machine, dir string) *api {
	r := mux.NewRouter()

	a := &api{
		Handler: r,
		cfg:     cfg,
		m:       m,
		dataDir: dir,
		sse: sse.NewServer(&sse.Options{
			Logger: log.New(ioutil.Discard, "", 0),
		}),
	}

	fs := http.StripPrefix("/data", http.FileServer(http.Dir(dir)))
	r.Methods("GET").PathPrefix("/data/").Handler(fs)
	r.HandleFunc("/data/{name:.+}", a.putFile).Methods("PUT")
	r.HandleFunc("/data/{name:.+}", a.deleteFile).Methods("DELETE")

	r.HandleFunc("/api/render/{name:.+}", a.render).Methods("POST")
	r.HandleFunc("/api/estimate/{name:.+}", a.estimate).Methods("GET")
	r.HandleFunc("/api/run/{name:.+}", a.run).Methods("POST")

	r.PathPrefix("/events/").Handler(a.sse)
	if m != nil {
		go func() {
			for p := range m.Progress() {
				data, err := json.Marshal(p)
				if err != nil {
					log.Printf("ERROR: marshal json: %+v", err)
					continue
				}
				a.sse.SendMessage("/events/progress", sse.SimpleMessage(string(data)))
			}
		}()
	}

	return a
}

func safePath(base, name string) (bool, string) {
	if filepath.Separator != '/' && strings.ContainsRune(name, filepath.Separator) {
		log.Println("invalid path '" + name + "'")
		return false, ""
	}
	dir := string(base)
	if dir == "" {
		dir = "."
	}
	fullName := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+name)))
	return true, fullName
}

// dataFile resolves the {name} route variable inside the data directory.
func (a *api) dataFile(w http.ResponseWriter, req *http.Request) (bool, string) {
	ok, name := safePath(a.dataDir, mux.Vars(req)["name"])
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
	}
	return ok, name
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		log.Println("ERROR: encode:", err)
	}
}

func (a *api) render(w http.ResponseWriter, req *http.Request) {
	ok, name := a.dataFile(w, req)
	if !ok {
		return
	}

	var job config.Job
	err := json.NewDecoder(req.Body).Decode(&job)
	if err == nil {
		err = job.Validate()
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := drawJob(a.cfg, &job)
	if err != nil {
		log.Printf("ERROR: render: %+v", err)
		http.Error(w, err.Error(), 500)
		return
	}

	err = os.MkdirAll(filepath.Dir(name), 0755)
	if err != nil {
		log.Printf("ERROR: mkdir '%s': %+v", filepath.Dir(name), err)
		http.Error(w, err.Error(), 500)
		return
	}
	err = p.Save(name)
	if err != nil {
		log.Printf("ERROR: save: %+v", err)
		http.Error(w, err.Error(), 500)
		return
	}

	writeJSON(w, renderResult{
		Points:   len(job.Points),
		Commands: p.Len(),
		Distance: p.TotalDistance(),
		Duration: p.Duration(),
	})
}

func (a *api) estimate(w http.ResponseWriter, req *http.Request) {
	ok, name := a.dataFile(w, req)
	if !ok {
		return
	}

	s, err := estimateFile(name)
	if os.IsNotExist(err) {
		http.NotFound(w, req)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, estimateResult{
		Blocks:   s.Blocks,
		Distance: s.Distance,
		FeedTime: s.FeedTime.Seconds(),
	})
}

func (a *api) run(w http.ResponseWriter, req *http.Request) {
	if a.m == nil {
		http.Error(w, "no machine configured", http.StatusServiceUnavailable)
		return
	}
	ok, name := a.dataFile(w, req)
	if !ok {
		return
	}

	f, err := os.Open(name)
	if os.IsNotExist(err) {
		http.NotFound(w, req)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	defer f.Close()

	// the job keeps running if the client goes away
	_, err = a.m.Run(context.Background(), f)
	if err == machine.ErrBusy {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		log.Printf("ERROR: run: %+v", err)
		http.Error(w, err.Error(), 500)
		return
	}
}

func (a *api) putFile(w http.ResponseWriter, req *http.Request) {
	ok, name := a.dataFile(w, req)
	if !ok {
		return
	}
	err := os.MkdirAll(filepath.Dir(name), 0755)
	if err != nil {
		log.Printf("ERROR: mkdir '%s': %+v", filepath.Dir(name), err)
		http.Error(w, err.Error(), 500)
		return
	}
	f, err := os.Create(name)
	if err != nil {
		log.Printf("ERROR: create '%s': %+v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
	defer f.Close()
	_, err = io.Copy(f, req.Body)
	if err != nil {
		log.Printf("ERROR: write '%s': %+v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
}

func (a *api) deleteFile(w http.ResponseWriter, req *http.Request) {
	ok, name := a.dataFile(w, req)
	if !ok {
		return
	}
	err := os.Remove(name)
	if os.IsNotExist(err) {
		http.NotFound(w, req)
		return
	}
	if err != nil {
		log.Printf("ERROR: delete '%s': %+v", name, err)
		http.Error(w, err.Error(), 500)
		return
	}
}
