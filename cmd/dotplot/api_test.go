package main

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mastercactapus/dotplot/config"
	"github.com/mastercactapus/dotplot/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
min: [0, 0]
max: [200, 200]
z0: 6.5
z_plunge: 4
feed: {move: 3000, plunge: 600, retract: 1200}
estimate_speed: 10
`

type recordAdapter struct{ lines []string }

func (r *recordAdapter) Write(p []byte) (int, error) {
	r.lines = append(r.lines, string(p))
	return len(p), nil
}
func (r *recordAdapter) Close() error { return nil }

func newTestAPI(t *testing.T, m *machine.Machine) (*api, string) {
	cfg, err := config.Parse([]byte(testConfig))
	require.NoError(t, err)
	dir := t.TempDir()
	return newAPI(cfg, m, dir), dir
}

func do(a *api, method, url, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, httptest.NewRequest(method, url, strings.NewReader(body)))
	return rec
}

func TestAPI_Data(t *testing.T) {
	a, dir := newTestAPI(t, nil)

	rec := do(a, "PUT", "/data/jobs/a.gcode", "G21\n")
	assert.Equal(t, http.StatusOK, rec.Code)

	data, err := ioutil.ReadFile(filepath.Join(dir, "jobs", "a.gcode"))
	require.NoError(t, err)
	assert.Equal(t, "G21\n", string(data))

	rec = do(a, "GET", "/data/jobs/a.gcode", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "G21\n", rec.Body.String())

	rec = do(a, "DELETE", "/data/jobs/a.gcode", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(a, "DELETE", "/data/jobs/a.gcode", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_RenderEstimate(t *testing.T) {
	a, dir := newTestAPI(t, nil)

	rec := do(a, "POST", "/api/render/out.gcode", `{"points": [[0, 0], [0, 0]]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res renderResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, 2, res.Points)
	assert.Equal(t, 10, res.Commands)
	assert.InDelta(t, 10.0, res.Distance, 1e-9)
	assert.InDelta(t, 1.0, res.Duration, 1e-9)

	data, err := ioutil.ReadFile(filepath.Join(dir, "out.gcode"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "; Start of generated code\n"))

	rec = do(a, "GET", "/api/estimate/out.gcode", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var est estimateResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&est))
	assert.True(t, est.Blocks > 0)
	assert.True(t, est.Distance > 0)

	rec = do(a, "GET", "/api/estimate/missing.gcode", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(a, "POST", "/api/render/bad.gcode", `{"points": "nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_Run(t *testing.T) {
	a, _ := newTestAPI(t, nil)
	rec := do(a, "POST", "/api/run/out.gcode", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	ad := &recordAdapter{}
	a, _ = newTestAPI(t, machine.NewMachine(ad))

	rec = do(a, "POST", "/api/run/missing.gcode", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(a, "PUT", "/data/job.gcode", "; comment\nG21 ; units\n\nM84\n")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(a, "POST", "/api/run/job.gcode", "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"G21\n", "M84\n"}, ad.lines)
}

func TestSafePath(t *testing.T) {
	ok, name := safePath("data", "../../etc/passwd")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join("data", "etc", "passwd"), name)

	ok, name = safePath("", "a/b.gcode")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join("a", "b.gcode"), name)
}

func TestAPI_NoDirectory(t *testing.T) {
	a, dir := newTestAPI(t, nil)
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "blocker"), nil, 0644))

	rec := do(a, "PUT", "/data/blocker/a.gcode", "G21\n")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = do(a, "POST", "/api/render/blocker/out.gcode", `{"points": [[1, 1]]}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
