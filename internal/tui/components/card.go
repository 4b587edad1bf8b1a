package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/devspace/rickterm/internal/core"
	"github.com/devspace/rickterm/internal/theme"
	"github.com/devspace/rickterm/internal/tui"
)

// Card dimensions in terminal cells, border included.
const (
	CardWidth      = 22
	CardHeight     = 11
	cardInnerWidth = CardWidth - 2
	cardThumbRows  = 6
)

// FavoriteMark is drawn next to favorite characters.
const FavoriteMark = "★"

// RenderCard draws one character card. art is the decoded avatar when
// available; ok is false while it loads or when it failed to decode, and the
// card then falls back to a plain block in the swatch color.
func RenderCard(c core.Character, art theme.Artwork, ok, selected bool) string {
	swatch := art.Swatch
	if !ok {
		swatch = theme.NewSwatch(theme.Fallback, 0)
	}

	var thumb string
	if ok && art.Image != nil {
		thumb = theme.Thumbnail(art.Image, cardInnerWidth, cardThumbRows)
	} else {
		thumb = theme.Placeholder(swatch, cardInnerWidth, cardThumbRows)
	}

	text := lipgloss.NewStyle().
		Width(cardInnerWidth).
		Background(lipgloss.Color(swatch.Hex())).
		Foreground(lipgloss.Color(swatch.ForegroundHex()))

	name := c.Name
	if c.IsFavorite {
		name = tui.Truncate(name, cardInnerWidth-2) + " " + FavoriteMark
	} else {
		name = tui.Truncate(name, cardInnerWidth)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		thumb,
		text.Bold(true).Render(name),
		text.Render(tui.Truncate(c.Species, cardInnerWidth)),
		text.Faint(true).Render(core.FormatID(c.ID)),
	)

	border := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(tui.ColorMuted)
	if selected {
		border = border.
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color(theme.Blend(swatch.Hex(), "#ffffaf", 0.6)))
	}
	return border.Render(body)
}

// blankCard fills an empty slot in the last grid row.
func blankCard() string {
	line := strings.Repeat(" ", CardWidth)
	lines := make([]string, CardHeight)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
