package harness

import (
	"bytes"
	"context"
	"strconv"
	"time"

	"github.com/devspace/rickterm/internal/cli"
)

// CLIResult holds CLI execution results.
type CLIResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// CLIRunner executes CLI commands against the harness API and data dir.
type CLIRunner struct {
	harness *E2EHarness
}

// Run executes a CLI command with the given arguments.
func (r *CLIRunner) Run(args ...string) (*CLIResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.harness.timeout)
	defer cancel()

	start := time.Now()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	cmd := cli.NewRootCommand("test")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append(args,
		"--config", r.harness.ConfigPath(),
		"--base-url", r.harness.APIURL(),
		"--data-dir", r.harness.TmpDir(),
	))

	err := cmd.ExecuteContext(ctx)

	result := &CLIResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		result.ExitCode = 1
	}

	return result, err
}

// List runs the list command.
func (r *CLIRunner) List(opts ...string) (*CLIResult, error) {
	return r.Run(append([]string{"list"}, opts...)...)
}

// Show runs the show command for id.
func (r *CLIRunner) Show(id int, opts ...string) (*CLIResult, error) {
	return r.Run(append([]string{"show", strconv.Itoa(id)}, opts...)...)
}

// Fav toggles the favorite flag of id.
func (r *CLIRunner) Fav(id int) (*CLIResult, error) {
	return r.Run("fav", strconv.Itoa(id))
}

// FavList lists favorites.
func (r *CLIRunner) FavList(opts ...string) (*CLIResult, error) {
	return r.Run(append([]string{"fav", "list"}, opts...)...)
}

// FavClear removes all favorites.
func (r *CLIRunner) FavClear() (*CLIResult, error) {
	return r.Run("fav", "clear")
}
