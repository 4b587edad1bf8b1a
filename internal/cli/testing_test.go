package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
)

type apiCharacter struct {
	ID       int               `json:"id"`
	Name     string            `json:"name"`
	Status   string            `json:"status"`
	Species  string            `json:"species"`
	Type     string            `json:"type"`
	Gender   string            `json:"gender"`
	Origin   map[string]string `json:"origin"`
	Location map[string]string `json:"location"`
	Image    string            `json:"image"`
	Episode  []string          `json:"episode"`
	Created  string            `json:"created"`
}

var apiCharacters = []apiCharacter{
	{
		ID: 1, Name: "Rick Sanchez", Status: "Alive", Species: "Human", Gender: "Male",
		Origin:   map[string]string{"name": "Earth (C-137)"},
		Location: map[string]string{"name": "Citadel of Ricks"},
		Episode:  []string{"e/1", "e/2", "e/3"},
		Created:  "2017-11-04T18:48:46.250Z",
	},
	{
		ID: 2, Name: "Morty Smith", Status: "Alive", Species: "Human", Gender: "Male",
		Origin:   map[string]string{"name": "unknown"},
		Location: map[string]string{"name": "Citadel of Ricks"},
		Created:  "2017-11-04T18:50:21.651Z",
	},
	{
		ID: 6, Name: "Abadango Cluster Princess", Status: "Alive", Species: "Alien", Gender: "Female",
		Origin:   map[string]string{"name": "Abadango"},
		Location: map[string]string{"name": "Abadango"},
		Created:  "2017-11-04T19:50:28.250Z",
	},
}

// fakeAPI serves a tiny slice of the character API.
type fakeAPI struct {
	*httptest.Server
	requests atomic.Int32
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	api := &fakeAPI{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/character", func(w http.ResponseWriter, r *http.Request) {
		api.requests.Add(1)
		name := strings.ToLower(r.URL.Query().Get("name"))
		species := strings.ToLower(r.URL.Query().Get("species"))
		var results []apiCharacter
		for _, c := range apiCharacters {
			if name != "" && !strings.Contains(strings.ToLower(c.Name), name) {
				continue
			}
			if species != "" && strings.ToLower(c.Species) != species {
				continue
			}
			results = append(results, c)
		}
		if len(results) == 0 {
			writeAPIError(w, http.StatusNotFound, "There is nothing here")
			return
		}
		writeAPIJSON(w, map[string]any{
			"info":    map[string]any{"count": len(results), "pages": 1, "next": nil, "prev": nil},
			"results": results,
		})
	})
	mux.HandleFunc("/api/character/", func(w http.ResponseWriter, r *http.Request) {
		api.requests.Add(1)
		id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/character/"))
		if err != nil {
			writeAPIError(w, http.StatusInternalServerError, "Hey! you must provide an id")
			return
		}
		for _, c := range apiCharacters {
			if c.ID == id {
				writeAPIJSON(w, c)
				return
			}
		}
		writeAPIError(w, http.StatusNotFound, "Character not found")
	})
	api.Server = httptest.NewServer(mux)
	t.Cleanup(api.Close)
	return api
}

func writeAPIJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// cliEnv runs the root command against the fake API with an isolated
// data directory.
type cliEnv struct {
	api     *fakeAPI
	dataDir string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	return &cliEnv{api: newFakeAPI(t), dataDir: t.TempDir()}
}

func (e *cliEnv) run(args ...string) (string, string, error) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd := NewRootCommand("test")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append(args,
		"--config", filepath.Join(e.dataDir, "missing.yaml"),
		"--base-url", e.api.URL+"/api",
		"--data-dir", e.dataDir,
	))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func withTerminal(t *testing.T, tty bool) {
	t.Helper()
	prev := isTerminal
	isTerminal = func(io.Writer) bool { return tty }
	t.Cleanup(func() { isTerminal = prev })
}
