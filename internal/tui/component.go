package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Component is the interface for all TUI components.
type Component interface {
	// Init initializes the component.
	Init() tea.Cmd

	// Update handles messages and returns the updated component.
	Update(msg tea.Msg) (Component, tea.Cmd)

	// View renders the component.
	View() string

	// Title returns the component title.
	Title() string

	// Focused returns true if the component is focused.
	Focused() bool

	// Focus sets the component as focused.
	Focus()

	// Blur removes focus from the component.
	Blur()

	// SetSize sets the component dimensions.
	SetSize(width, height int)

	// Width returns the component width.
	Width() int

	// Height returns the component height.
	Height() int
}

// NavDirection represents a navigation direction.
type NavDirection int

const (
	NavUp NavDirection = iota
	NavDown
	NavLeft
	NavRight
	NavFirst
	NavLast
)

// Palette used across screens.
const (
	ColorAccent    = lipgloss.Color("62")
	ColorMuted     = lipgloss.Color("240")
	ColorHighlight = lipgloss.Color("229")
	ColorKey       = lipgloss.Color("214")
	ColorText      = lipgloss.Color("252")
	ColorSuccess   = lipgloss.Color("34")
	ColorError     = lipgloss.Color("160")
	ColorFavorite  = lipgloss.Color("220")
)

// Messages

// FocusMsg is sent when a component should gain focus.
type FocusMsg struct{}

// BlurMsg is sent when a component should lose focus.
type BlurMsg struct{}

// NavigateMsg is sent for navigation within a component.
type NavigateMsg struct {
	Direction NavDirection
	Count     int
}

// BaseComponent provides common functionality for components.
type BaseComponent struct {
	title   string
	focused bool
	width   int
	height  int
}

// NewBaseComponent creates a new base component.
func NewBaseComponent(title string) *BaseComponent {
	return &BaseComponent{
		title: title,
	}
}

// Init initializes the component.
func (c *BaseComponent) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (c *BaseComponent) Update(msg tea.Msg) (Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
	case FocusMsg:
		c.focused = true
	case BlurMsg:
		c.focused = false
	}
	return c, nil
}

// View renders the component.
func (c *BaseComponent) View() string {
	content := fmt.Sprintf("[ %s ]", c.title)
	return RenderBorder(content, c.width, c.height, c.focused)
}

// Title returns the component title.
func (c *BaseComponent) Title() string {
	return c.title
}

// SetTitle replaces the title.
func (c *BaseComponent) SetTitle(title string) {
	c.title = title
}

// Focused returns true if focused.
func (c *BaseComponent) Focused() bool {
	return c.focused
}

// Focus sets the component as focused.
func (c *BaseComponent) Focus() {
	c.focused = true
}

// Blur removes focus.
func (c *BaseComponent) Blur() {
	c.focused = false
}

// SetSize sets dimensions.
func (c *BaseComponent) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// Width returns the width.
func (c *BaseComponent) Width() int {
	return c.width
}

// Height returns the height.
func (c *BaseComponent) Height() int {
	return c.height
}

// Styles

// Styles groups the shared lipgloss styles.
type Styles struct {
	Focused   lipgloss.Style
	Unfocused lipgloss.Style
	Title     lipgloss.Style
	Border    lipgloss.Style
	Key       lipgloss.Style
	Desc      lipgloss.Style
	Favorite  lipgloss.Style
}

// DefaultStyles returns default styling.
func DefaultStyles() Styles {
	return Styles{
		Focused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent),
		Unfocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHighlight),
		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()),
		Key: lipgloss.NewStyle().
			Foreground(ColorKey).
			Bold(true),
		Desc: lipgloss.NewStyle().
			Foreground(ColorText),
		Favorite: lipgloss.NewStyle().
			Foreground(ColorFavorite).
			Bold(true),
	}
}

// RenderTitle renders a title bar.
func RenderTitle(title string, width int, focused bool) string {
	style := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Bold(true)

	if focused {
		style = style.Foreground(ColorHighlight).
			Background(ColorAccent)
	} else {
		style = style.Foreground(ColorText).
			Background(lipgloss.Color("238"))
	}

	return style.Render(Truncate(title, width))
}

// RenderBorder renders content with a border.
func RenderBorder(content string, width, height int, focused bool) string {
	style := lipgloss.NewStyle().
		Width(width).
		Height(height).
		BorderStyle(lipgloss.RoundedBorder())

	if focused {
		style = style.BorderForeground(ColorAccent)
	} else {
		style = style.BorderForeground(ColorMuted)
	}

	return style.Render(content)
}

// Truncate truncates a string to fit within a width, counting runes.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// PadRight pads a string to a given width, counting runes.
func PadRight(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:max(width, 0)])
	}
	return s + strings.Repeat(" ", width-len(r))
}
