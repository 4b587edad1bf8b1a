package harness

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/devspace/rickterm/internal/app"
	"github.com/devspace/rickterm/internal/logger"
	"github.com/devspace/rickterm/internal/tui/views"
)

// TUIRunner provides TUI testing capabilities.
type TUIRunner struct {
	harness *E2EHarness
}

// TUISession drives a views.App the way tea.Program does: commands run on
// their own goroutines and their messages are fed back into Update on the
// test goroutine.
type TUISession struct {
	runner *TUIRunner
	t      *testing.T
	app    *app.App
	model  *views.App
	msgs   chan tea.Msg
	done   chan struct{}
	once   sync.Once

	mu     sync.Mutex
	copied []string

	quit bool
}

// Start starts a new TUI session with a 120x40 terminal.
func (r *TUIRunner) Start(t *testing.T) *TUISession {
	t.Helper()
	return r.StartWithSize(t, 120, 40)
}

// StartWithSize starts a TUI session with custom dimensions.
func (r *TUIRunner) StartWithSize(t *testing.T, width, height int) *TUISession {
	t.Helper()

	application, err := app.Open(r.harness.AppConfig(), app.WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("failed to open app: %v", err)
	}

	s := &TUISession{
		runner: r,
		t:      t,
		app:    application,
		msgs:   make(chan tea.Msg, 64),
		done:   make(chan struct{}),
	}
	s.model = views.NewApp(
		application.ListController(),
		application.DetailController(),
		views.WithImages(application.Gateway()),
		views.WithClipboard(s.writeClipboard),
	)
	t.Cleanup(s.Quit)

	s.update(tea.WindowSizeMsg{Width: width, Height: height})
	s.exec(s.model.Init())
	return s
}

func (s *TUISession) writeClipboard(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.copied = append(s.copied, text)
	return nil
}

// Clipboard returns everything copied during the session.
func (s *TUISession) Clipboard() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.copied...)
}

// exec runs cmd in the background and queues its message.
func (s *TUISession) exec(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() {
		msg := cmd()
		if msg == nil {
			return
		}
		select {
		case s.msgs <- msg:
		case <-s.done:
		}
	}()
}

// update feeds msg into the model, expanding batches and quit.
func (s *TUISession) update(msg tea.Msg) {
	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, cmd := range msg {
			s.exec(cmd)
		}
		return
	case tea.QuitMsg:
		s.quit = true
		return
	}

	updated, cmd := s.model.Update(msg)
	s.model = updated.(*views.App)
	s.exec(cmd)
}

// SendKey sends a key press and processes messages that are already queued.
func (s *TUISession) SendKey(key string) *TUISession {
	s.update(parseKeyMsg(key))
	s.drain()
	return s
}

// SendKeys sends multiple key presses.
func (s *TUISession) SendKeys(keys ...string) *TUISession {
	for _, key := range keys {
		s.SendKey(key)
	}
	return s
}

// Type sends a sequence of rune keys.
func (s *TUISession) Type(text string) *TUISession {
	for _, r := range text {
		s.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	s.drain()
	return s
}

func (s *TUISession) drain() {
	for {
		select {
		case msg := <-s.msgs:
			s.update(msg)
		default:
			return
		}
	}
}

// Wait processes messages for the specified duration.
func (s *TUISession) Wait(d time.Duration) *TUISession {
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case msg := <-s.msgs:
			s.update(msg)
		case <-timer.C:
			return s
		}
	}
}

// WaitFor processes messages until cond holds or the timeout passes.
func (s *TUISession) WaitFor(cond func() bool, timeout time.Duration) bool {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		s.drain()
		if cond() {
			return true
		}
		select {
		case msg := <-s.msgs:
			s.update(msg)
		case <-deadline.C:
			return cond()
		}
	}
}

// WaitForOutput waits for specific text in output.
func (s *TUISession) WaitForOutput(text string) error {
	timeout := s.runner.harness.timeout
	if s.WaitFor(func() bool { return strings.Contains(s.Output(), text) }, timeout) {
		return nil
	}
	return &TimeoutError{text: text, timeout: timeout}
}

// WaitForLoaded waits until the grid shows characters or an error.
func (s *TUISession) WaitForLoaded() error {
	timeout := s.runner.harness.timeout
	ok := s.WaitFor(func() bool {
		st := s.CaptureState().Grid.Status
		return st == "loaded" || st == "error"
	}, timeout)
	if !ok {
		return &TimeoutError{text: "loaded grid", timeout: timeout}
	}
	return nil
}

// Output returns the current TUI output.
func (s *TUISession) Output() string {
	return s.model.View()
}

// Quit stops the session and releases the app. Safe to call twice.
func (s *TUISession) Quit() {
	s.once.Do(func() {
		close(s.done)
		s.model.Close()
		s.app.Close()
	})
}

// Quitting reports whether the model asked the program to exit.
func (s *TUISession) Quitting() bool {
	return s.quit
}

// Model returns the underlying App view for direct assertions.
func (s *TUISession) Model() *views.App {
	return s.model
}

// App returns the application container behind the session.
func (s *TUISession) App() *app.App {
	return s.app
}

// ShowingHelp returns true if help overlay is visible.
func (s *TUISession) ShowingHelp() bool {
	return s.model.ShowingHelp()
}

// TimeoutError represents a timeout waiting for output.
type TimeoutError struct {
	text    string
	timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return "timeout after " + e.timeout.String() + " waiting for: " + e.text
}

// parseKeyMsg converts key string to tea.KeyMsg.
func parseKeyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc", "escape":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}
