package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/devspace/rickterm/internal/tui"
)

// Error screen copy.
const (
	ErrorTitle    = "Ohh No!"
	ErrorSubtitle = "Something went wrong!"
	ErrorFallback = "Go back and try again"
	LoadingText   = "Loading..."
)

// LoadingView is a spinner with a caption.
type LoadingView struct {
	spinner spinner.Model
}

// NewLoadingView creates a loading view.
func NewLoadingView() LoadingView {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(tui.ColorSuccess)
	return LoadingView{spinner: s}
}

// Tick starts the spinner animation.
func (v LoadingView) Tick() tea.Cmd {
	return v.spinner.Tick
}

// Update advances the spinner on its tick messages.
func (v LoadingView) Update(msg tea.Msg) (LoadingView, tea.Cmd) {
	var cmd tea.Cmd
	v.spinner, cmd = v.spinner.Update(msg)
	return v, cmd
}

// View renders the spinner centered in width x height.
func (v LoadingView) View(width, height int) string {
	return center(v.spinner.View()+" "+LoadingText, width, height)
}

// RenderError renders the error screen. An empty message shows the generic
// retry hint.
func RenderError(message string, width, height int) string {
	if message == "" {
		message = ErrorFallback
	}
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(tui.ColorError).
		Render(ErrorTitle)
	subtitle := lipgloss.NewStyle().
		Foreground(tui.ColorHighlight).
		Render(ErrorSubtitle)
	body := lipgloss.NewStyle().
		Foreground(tui.ColorText).
		Width(max(10, min(width-4, 60))).
		Align(lipgloss.Center).
		Render(message)

	content := lipgloss.JoinVertical(lipgloss.Center, title, "", subtitle, "", body)
	return center(content, width, height)
}

func center(content string, width, height int) string {
	if width <= 0 || height <= 0 {
		return content
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
