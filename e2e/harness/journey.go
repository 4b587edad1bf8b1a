package harness

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

// Journey represents a user journey test.
type Journey struct {
	t           *testing.T
	name        string
	harness     *E2EHarness
	session     *TUISession
	steps       []*Step
	currentStep int
}

// Step represents a single step in a journey.
type Step struct {
	name        string
	actions     []func(*TUISession)
	assertions  []func(*testing.T, *State)
	outputs     []func(*testing.T, string)
	waitFor     func(*State) bool
	waitTimeout time.Duration
}

// NewJourney creates a new journey test against the default fixture API.
func NewJourney(t *testing.T, name string) *Journey {
	return NewJourneyWith(t, name, Config{})
}

// NewJourneyWith creates a journey with a custom harness configuration.
func NewJourneyWith(t *testing.T, name string, cfg Config) *Journey {
	return &Journey{
		t:       t,
		name:    name,
		harness: New(t, cfg),
		steps:   make([]*Step, 0),
	}
}

// Harness returns the journey's harness.
func (j *Journey) Harness() *E2EHarness {
	return j.harness
}

// Step adds a new step to the journey.
func (j *Journey) Step(name string) *StepBuilder {
	step := &Step{
		name:        name,
		actions:     make([]func(*TUISession), 0),
		assertions:  make([]func(*testing.T, *State), 0),
		waitTimeout: 5 * time.Second,
	}
	j.steps = append(j.steps, step)
	return &StepBuilder{journey: j, step: step}
}

// Run executes the journey.
func (j *Journey) Run() {
	j.t.Helper()
	j.t.Run(j.name, func(t *testing.T) {
		j.session = j.harness.TUI().Start(t)
		defer j.session.Quit()

		if err := j.session.WaitForLoaded(); err != nil {
			t.Fatalf("initial load: %v", err)
		}

		for i, step := range j.steps {
			j.currentStep = i
			t.Logf("Step %d: %s", i+1, step.name)

			for _, action := range step.actions {
				action(j.session)
			}

			if step.waitFor != nil {
				if err := j.waitForCondition(step.waitFor, step.waitTimeout); err != nil {
					t.Fatalf("Step %d (%s): %v", i+1, step.name, err)
				}
			}

			state := j.session.CaptureState()
			for _, assertion := range step.assertions {
				assertion(t, state)
			}
			output := j.session.Output()
			for _, check := range step.outputs {
				check(t, output)
			}
		}
	})
}

func (j *Journey) waitForCondition(condition func(*State) bool, timeout time.Duration) error {
	ok := j.session.WaitFor(func() bool {
		return condition(j.session.CaptureState())
	}, timeout)
	if !ok {
		return fmt.Errorf("timeout waiting for condition after %v", timeout)
	}
	return nil
}

// StepBuilder provides a fluent API for building steps.
type StepBuilder struct {
	journey *Journey
	step    *Step
}

// SendKey adds a key press action.
func (b *StepBuilder) SendKey(key string) *StepBuilder {
	b.step.actions = append(b.step.actions, func(s *TUISession) {
		s.SendKey(key)
	})
	return b
}

// SendKeys adds multiple key press actions.
func (b *StepBuilder) SendKeys(keys ...string) *StepBuilder {
	b.step.actions = append(b.step.actions, func(s *TUISession) {
		s.SendKeys(keys...)
	})
	return b
}

// Type adds a typing action.
func (b *StepBuilder) Type(text string) *StepBuilder {
	b.step.actions = append(b.step.actions, func(s *TUISession) {
		s.Type(text)
	})
	return b
}

// Wait adds a pause that keeps processing messages.
func (b *StepBuilder) Wait(d time.Duration) *StepBuilder {
	b.step.actions = append(b.step.actions, func(s *TUISession) {
		s.Wait(d)
	})
	return b
}

// WaitFor adds a condition to wait for before assertions.
func (b *StepBuilder) WaitFor(condition func(*State) bool, timeout time.Duration) *StepBuilder {
	b.step.waitFor = condition
	b.step.waitTimeout = timeout
	return b
}

// WaitForGrid waits until the grid reaches status.
func (b *StepBuilder) WaitForGrid(status string) *StepBuilder {
	return b.WaitFor(func(s *State) bool { return s.Grid.Status == status }, 5*time.Second)
}

// WaitForDetail waits until the detail screen reaches status.
func (b *StepBuilder) WaitForDetail(status string) *StepBuilder {
	return b.WaitFor(func(s *State) bool { return s.Detail.Status == status }, 5*time.Second)
}

// ExpectMode asserts the current mode.
func (b *StepBuilder) ExpectMode(mode string) *StepBuilder {
	b.step.assertions = append(b.step.assertions, func(t *testing.T, s *State) {
		t.Helper()
		if s.App.Mode != mode {
			t.Errorf("Expected mode %q, got %q", mode, s.App.Mode)
		}
	})
	return b
}

// ExpectScreen asserts the visible screen.
func (b *StepBuilder) ExpectScreen(screen string) *StepBuilder {
	b.step.assertions = append(b.step.assertions, func(t *testing.T, s *State) {
		t.Helper()
		if s.App.Screen != screen {
			t.Errorf("Expected screen %q, got %q", screen, s.App.Screen)
		}
	})
	return b
}

// ExpectGridStatus asserts the list state status.
func (b *StepBuilder) ExpectGridStatus(status string) *StepBuilder {
	b.step.assertions = append(b.step.assertions, func(t *testing.T, s *State) {
		t.Helper()
		if s.Grid.Status != status {
			t.Errorf("Expected grid status %q, got %q (error %q)", status, s.Grid.Status, s.Grid.Error)
		}
	})
	return b
}

// ExpectCount asserts how many characters the grid holds.
func (b *StepBuilder) ExpectCount(n int) *StepBuilder {
	b.step.assertions = append(b.step.assertions, func(t *testing.T, s *State) {
		t.Helper()
		if s.Grid.Count != n {
			t.Errorf("Expected %d characters, got %d", n, s.Grid.Count)
		}
	})
	return b
}

// ExpectSelected asserts the name of the selected character.
func (b *StepBuilder) ExpectSelected(name string) *StepBuilder {
	b.step.assertions = append(b.step.assertions, func(t *testing.T, s *State) {
		t.Helper()
		if s.Grid.SelectedName != name {
			t.Errorf("Expected %q selected, got %q", name, s.Grid.SelectedName)
		}
	})
	return b
}

// ExpectFavorites asserts the favorite ids in the grid, in grid order.
func (b *StepBuilder) ExpectFavorites(ids ...int) *StepBuilder {
	b.step.assertions = append(b.step.assertions, func(t *testing.T, s *State) {
		t.Helper()
		if fmt.Sprint(s.Grid.FavoriteIDs) != fmt.Sprint(ids) {
			t.Errorf("Expected favorites %v, got %v", ids, s.Grid.FavoriteIDs)
		}
	})
	return b
}

// ExpectFavoritesOnly asserts whether the favorites-only view is active.
func (b *StepBuilder) ExpectFavoritesOnly(only bool) *StepBuilder {
	b.step.assertions = append(b.step.assertions, func(t *testing.T, s *State) {
		t.Helper()
		if s.Grid.FavoritesOnly != only {
			t.Errorf("Expected FavoritesOnly=%v, got %v", only, s.Grid.FavoritesOnly)
		}
	})
	return b
}

// ExpectDetail asserts the loaded detail character.
func (b *StepBuilder) ExpectDetail(name string) *StepBuilder {
	b.step.assertions = append(b.step.assertions, func(t *testing.T, s *State) {
		t.Helper()
		if s.Detail.Status != "loaded" || s.Detail.Name != name {
			t.Errorf("Expected detail of %q, got %q (%s %q)", name, s.Detail.Name, s.Detail.Status, s.Detail.Error)
		}
	})
	return b
}

// ExpectNotification asserts the status bar notification contains text.
func (b *StepBuilder) ExpectNotification(text string) *StepBuilder {
	b.step.assertions = append(b.step.assertions, func(t *testing.T, s *State) {
		t.Helper()
		if !strings.Contains(s.App.Notification, text) {
			t.Errorf("Expected notification containing %q, got %q", text, s.App.Notification)
		}
	})
	return b
}

// ExpectOutput asserts the rendered view contains every string.
func (b *StepBuilder) ExpectOutput(texts ...string) *StepBuilder {
	b.step.outputs = append(b.step.outputs, func(t *testing.T, output string) {
		t.Helper()
		NewAssertions(t).OutputContains(output, texts...)
	})
	return b
}

// ExpectNoOutput asserts the rendered view contains none of the strings.
func (b *StepBuilder) ExpectNoOutput(texts ...string) *StepBuilder {
	b.step.outputs = append(b.step.outputs, func(t *testing.T, output string) {
		t.Helper()
		NewAssertions(t).OutputNotContains(output, texts...)
	})
	return b
}

// ExpectState adds a custom state assertion.
func (b *StepBuilder) ExpectState(assertion func(*testing.T, *State)) *StepBuilder {
	b.step.assertions = append(b.step.assertions, assertion)
	return b
}

// Step starts a new step (returns to journey to continue chaining).
func (b *StepBuilder) Step(name string) *StepBuilder {
	return b.journey.Step(name)
}

// Run executes the journey (terminal operation).
func (b *StepBuilder) Run() {
	b.journey.Run()
}
