package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/devspace/rickterm/internal/core"
	"github.com/devspace/rickterm/internal/theme"
	"github.com/devspace/rickterm/internal/tui"
)

// DetailHeading introduces the info rows.
const DetailHeading = "Character detail information"

const (
	detailThumbCols = 32
	detailThumbRows = 16
	labelWidth      = 10
)

// DetailPanel renders one loaded character.
type DetailPanel struct {
	*tui.BaseComponent
	character core.CharacterDetail
	favorite  bool
	art       theme.Artwork
	artOK     bool
}

// NewDetailPanel creates an empty detail panel.
func NewDetailPanel() *DetailPanel {
	return &DetailPanel{BaseComponent: tui.NewBaseComponent("Detail")}
}

// Update handles resize messages.
func (p *DetailPanel) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	p.BaseComponent.Update(msg)
	return p, nil
}

// SetCharacter sets the character shown. Artwork from a previous
// character is dropped.
func (p *DetailPanel) SetCharacter(c core.CharacterDetail) {
	if c.ImageURL != p.character.ImageURL {
		p.art, p.artOK = theme.Artwork{}, false
	}
	p.character = c
	p.SetTitle(c.Name)
}

// Character returns the character shown.
func (p *DetailPanel) Character() core.CharacterDetail {
	return p.character
}

// SetFavorite sets whether the favorite mark is shown.
func (p *DetailPanel) SetFavorite(fav bool) {
	p.favorite = fav
}

// Favorite reports whether the favorite mark is shown.
func (p *DetailPanel) Favorite() bool {
	return p.favorite
}

// SetArtwork sets the avatar when it belongs to the current character.
func (p *DetailPanel) SetArtwork(url string, art theme.Artwork, ok bool) {
	if url != p.character.ImageURL {
		return
	}
	p.art, p.artOK = art, ok
}

// View renders the header, avatar and info rows.
func (p *DetailPanel) View() string {
	c := p.character
	swatch := theme.NewSwatch(theme.Fallback, 0)
	if p.artOK {
		swatch = p.art.Swatch
	}

	header := c.Name
	if p.favorite {
		header += " " + FavoriteMark
	}
	nameStyle := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(lipgloss.Color(swatch.Hex())).
		Foreground(lipgloss.Color(swatch.ForegroundHex()))
	title := nameStyle.Render(tui.Truncate(header, max(1, p.Width()-2)))
	id := lipgloss.NewStyle().Foreground(tui.ColorMuted).Render(core.FormatID(c.ID))

	var thumb string
	if p.artOK && p.art.Image != nil {
		thumb = theme.Thumbnail(p.art.Image, detailThumbCols, detailThumbRows)
	} else {
		thumb = theme.Placeholder(swatch, detailThumbCols, detailThumbRows)
	}

	info := p.renderInfo()
	var body string
	if p.Width() > 0 && p.Width() < detailThumbCols+lipgloss.Width(info)+2 {
		body = lipgloss.JoinVertical(lipgloss.Left, thumb, "", info)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, thumb, "  ", info)
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, id, "", body)
}

func (p *DetailPanel) renderInfo() string {
	c := p.character
	heading := lipgloss.NewStyle().
		Bold(true).
		Underline(true).
		Foreground(tui.ColorHighlight).
		Render(DetailHeading)

	label := lipgloss.NewStyle().Foreground(tui.ColorKey).Width(labelWidth)
	value := lipgloss.NewStyle().Foreground(tui.ColorText)
	empty := lipgloss.NewStyle().Foreground(tui.ColorMuted).Italic(true)

	lines := []string{heading, ""}
	for _, row := range c.Rows() {
		v := value.Render(row.Value)
		if row.Value == core.EmptyValue {
			v = empty.Render(row.Value)
		}
		lines = append(lines, label.Render(row.Label)+v)
	}

	lines = append(lines, "")
	lines = append(lines, label.Render("Episodes:")+value.Render(fmt.Sprintf("%d", c.Episodes)))
	if !c.Created.IsZero() {
		lines = append(lines, label.Render("Created:")+value.Render(c.Created.Format("2006-01-02")))
	}
	return strings.Join(lines, "\n")
}
