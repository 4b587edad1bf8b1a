package components

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/devspace/rickterm/internal/core"
	"github.com/devspace/rickterm/internal/theme"
	"github.com/devspace/rickterm/internal/tui"
)

// CharacterGrid lays character cards out in rows that fill the width and
// scrolls vertically to keep the cursor visible.
type CharacterGrid struct {
	*tui.BaseComponent
	characters []core.Character
	artwork    map[string]artworkEntry
	cursor     int
	offset     int // first visible row
}

type artworkEntry struct {
	art theme.Artwork
	ok  bool
}

// NewCharacterGrid creates an empty grid.
func NewCharacterGrid() *CharacterGrid {
	return &CharacterGrid{
		BaseComponent: tui.NewBaseComponent("Characters"),
		artwork:       make(map[string]artworkEntry),
	}
}

// Update handles navigation and resize messages.
func (g *CharacterGrid) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tui.NavigateMsg:
		g.Move(msg.Direction, msg.Count)
		return g, nil
	case tea.WindowSizeMsg:
		g.SetSize(msg.Width, msg.Height)
		return g, nil
	}
	g.BaseComponent.Update(msg)
	return g, nil
}

// SetSize sets dimensions and keeps the cursor visible.
func (g *CharacterGrid) SetSize(width, height int) {
	g.BaseComponent.SetSize(width, height)
	g.scroll()
}

// SetCharacters replaces the cards. The cursor stays on the same character
// when it is still present.
func (g *CharacterGrid) SetCharacters(chars []core.Character) {
	selected, hadSelection := g.Selected()
	g.characters = slices.Clone(chars)

	g.cursor = 0
	if hadSelection {
		for i, c := range g.characters {
			if c.ID == selected.ID {
				g.cursor = i
				break
			}
		}
	}
	g.scroll()
}

// Characters returns the cards currently shown.
func (g *CharacterGrid) Characters() []core.Character {
	return g.characters
}

// Selected returns the character under the cursor.
func (g *CharacterGrid) Selected() (core.Character, bool) {
	if g.cursor < 0 || g.cursor >= len(g.characters) {
		return core.Character{}, false
	}
	return g.characters[g.cursor], true
}

// Cursor returns the index of the selected card.
func (g *CharacterGrid) Cursor() int {
	return g.cursor
}

// SetCursor moves the cursor to index i, clamped to the cards.
func (g *CharacterGrid) SetCursor(i int) {
	g.cursor = max(0, min(i, len(g.characters)-1))
	g.scroll()
}

// SetArtwork records the decoded avatar for url.
func (g *CharacterGrid) SetArtwork(url string, art theme.Artwork, ok bool) {
	g.artwork[url] = artworkEntry{art: art, ok: ok}
}

// HasArtwork reports whether an avatar result for url was recorded.
func (g *CharacterGrid) HasArtwork(url string) bool {
	_, found := g.artwork[url]
	return found
}

// Columns returns how many cards fit side by side.
func (g *CharacterGrid) Columns() int {
	return max(1, g.Width()/CardWidth)
}

// VisibleRows returns how many card rows fit vertically.
func (g *CharacterGrid) VisibleRows() int {
	return max(1, g.Height()/CardHeight)
}

// Move shifts the cursor count steps in a direction.
func (g *CharacterGrid) Move(dir tui.NavDirection, count int) {
	if len(g.characters) == 0 {
		return
	}
	if count < 1 {
		count = 1
	}
	cols := g.Columns()
	next := g.cursor
	switch dir {
	case tui.NavLeft:
		next -= count
	case tui.NavRight:
		next += count
	case tui.NavUp:
		next -= count * cols
	case tui.NavDown:
		next += count * cols
	case tui.NavFirst:
		next = 0
	case tui.NavLast:
		next = len(g.characters) - 1
	}
	g.SetCursor(next)
}

// Visible returns the characters on the rows currently shown.
func (g *CharacterGrid) Visible() []core.Character {
	cols := g.Columns()
	start := min(g.offset*cols, len(g.characters))
	end := min(start+g.VisibleRows()*cols, len(g.characters))
	return g.characters[start:end]
}

// OnLastRow reports whether the cursor sits in the final row of cards.
func (g *CharacterGrid) OnLastRow() bool {
	if len(g.characters) == 0 {
		return false
	}
	cols := g.Columns()
	return g.cursor/cols == (len(g.characters)-1)/cols
}

func (g *CharacterGrid) scroll() {
	row := g.cursor / g.Columns()
	visible := g.VisibleRows()
	if row < g.offset {
		g.offset = row
	}
	if row >= g.offset+visible {
		g.offset = row - visible + 1
	}
}

// View renders the visible rows of cards.
func (g *CharacterGrid) View() string {
	if len(g.characters) == 0 {
		return lipgloss.NewStyle().
			Width(g.Width()).
			Height(g.Height()).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(tui.ColorMuted).
			Render("No characters to show")
	}

	cols := g.Columns()
	rows := make([]string, 0, g.VisibleRows())
	for r := g.offset; r < g.offset+g.VisibleRows(); r++ {
		start := r * cols
		if start >= len(g.characters) {
			break
		}
		cards := make([]string, 0, cols)
		for i := start; i < start+cols; i++ {
			if i >= len(g.characters) {
				cards = append(cards, blankCard())
				continue
			}
			c := g.characters[i]
			entry := g.artwork[c.ImageURL]
			cards = append(cards, RenderCard(c, entry.art, entry.ok, i == g.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
