// Package harness provides E2E testing utilities for rickterm.
package harness

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/devspace/rickterm/e2e/testserver"
	"github.com/devspace/rickterm/internal/config"
)

// E2EHarness is the main test orchestrator.
type E2EHarness struct {
	t         *testing.T
	server    *testserver.Server
	tmpDir    string
	goldenDir string
	timeout   time.Duration
}

// Config configures the harness.
type Config struct {
	API       testserver.APIOptions
	GoldenDir string
	Timeout   time.Duration // Default: 5 seconds
}

// New creates a new E2E harness backed by a fake character API.
func New(t *testing.T, cfg Config) *E2EHarness {
	t.Helper()

	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	h := &E2EHarness{
		t:         t,
		goldenDir: cfg.GoldenDir,
		timeout:   cfg.Timeout,
	}

	// Create temporary directory for the data dir
	tmpDir, err := os.MkdirTemp("", "rickterm-e2e-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	h.tmpDir = tmpDir

	h.server = testserver.NewAPI(cfg.API)

	t.Cleanup(h.cleanup)
	return h
}

func (h *E2EHarness) cleanup() {
	h.server.Close()
	os.RemoveAll(h.tmpDir)
}

// Server returns the fake API server.
func (h *E2EHarness) Server() *testserver.Server {
	return h.server
}

// APIURL returns the base URL of the fake API.
func (h *E2EHarness) APIURL() string {
	return h.server.APIURL()
}

// TmpDir returns the temporary data directory.
func (h *E2EHarness) TmpDir() string {
	return h.tmpDir
}

// ConfigPath returns a config file path inside the data dir. It does not
// exist unless a test writes it.
func (h *E2EHarness) ConfigPath() string {
	return filepath.Join(h.tmpDir, "config.yaml")
}

// AppConfig returns the configuration sessions are started with.
func (h *E2EHarness) AppConfig() config.Config {
	cfg := config.Default()
	cfg.BaseURL = h.APIURL()
	cfg.DataDir = h.tmpDir
	cfg.Timeout = h.timeout
	cfg.DetailDebounce = 10 * time.Millisecond
	return cfg
}

// Timeout returns the configured timeout.
func (h *E2EHarness) Timeout() time.Duration {
	return h.timeout
}

// T returns the testing.T instance.
func (h *E2EHarness) T() *testing.T {
	return h.t
}

// CLI returns a CLI runner for this harness.
func (h *E2EHarness) CLI() *CLIRunner {
	return &CLIRunner{harness: h}
}

// TUI returns a TUI runner for this harness.
func (h *E2EHarness) TUI() *TUIRunner {
	return &TUIRunner{harness: h}
}

// Golden returns a golden file manager for this harness.
func (h *E2EHarness) Golden() *GoldenManager {
	return NewGoldenManager(h.goldenDir)
}
