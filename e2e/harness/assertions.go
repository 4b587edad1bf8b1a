package harness

import (
	"strings"
	"testing"

	"github.com/devspace/rickterm/internal/tui/components"
)

// Assertions provides E2E-specific assertions.
type Assertions struct {
	t *testing.T
}

// NewAssertions creates an assertions helper.
func NewAssertions(t *testing.T) *Assertions {
	return &Assertions{t: t}
}

// OutputContains asserts the output contains all given strings.
func (a *Assertions) OutputContains(output string, expected ...string) {
	a.t.Helper()
	for _, exp := range expected {
		if !strings.Contains(output, exp) {
			a.t.Errorf("expected output to contain %q, got:\n%s", exp, truncate(output, 500))
		}
	}
}

// OutputNotContains asserts the output does not contain any of the given strings.
func (a *Assertions) OutputNotContains(output string, unexpected ...string) {
	a.t.Helper()
	for _, unexp := range unexpected {
		if strings.Contains(output, unexp) {
			a.t.Errorf("expected output NOT to contain %q, got:\n%s", unexp, truncate(output, 500))
		}
	}
}

// HelpVisible asserts the help overlay is visible.
func (a *Assertions) HelpVisible(output string) {
	a.t.Helper()
	indicators := []string{"Characters", "Press ? or Esc to close"}
	for _, ind := range indicators {
		if !strings.Contains(output, ind) {
			a.t.Errorf("help overlay not visible, missing %q in output:\n%s", ind, truncate(output, 500))
			return
		}
	}
}

// HelpNotVisible asserts the help overlay is not visible.
func (a *Assertions) HelpNotVisible(output string) {
	a.t.Helper()
	if strings.Contains(output, "Press ? or Esc to close") {
		a.t.Errorf("help overlay should not be visible")
	}
}

// NoError asserts the output doesn't show the error screen.
func (a *Assertions) NoError(output string) {
	a.t.Helper()
	indicators := []string{components.ErrorTitle, "panic:", "PANIC:"}
	for _, ind := range indicators {
		if strings.Contains(output, ind) {
			a.t.Errorf("unexpected error in output: found %q in:\n%s", ind, truncate(output, 500))
			return
		}
	}
}

// ErrorScreen asserts the error screen is shown with message.
func (a *Assertions) ErrorScreen(output, message string) {
	a.t.Helper()
	a.OutputContains(output, components.ErrorTitle, components.ErrorSubtitle, message)
}

// Loaded asserts the loading indicator is gone.
func (a *Assertions) Loaded(output string) {
	a.t.Helper()
	if strings.Contains(output, components.LoadingText) {
		a.t.Errorf("still loading:\n%s", truncate(output, 500))
	}
}

// truncate truncates a string to maxLen characters.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "... (truncated)"
}
