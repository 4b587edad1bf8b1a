package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/devspace/rickterm/internal/tui"
	"github.com/devspace/rickterm/internal/tui/vim"
)

// HelpSection is a titled group of key bindings.
type HelpSection struct {
	Title string
	Mode  vim.Mode
}

// DefaultHelpSections lists the modes shown in the help overlay.
func DefaultHelpSections() []HelpSection {
	return []HelpSection{
		{Title: "Characters", Mode: vim.ModeNormal},
		{Title: "Detail", Mode: vim.ModeDetail},
		{Title: "Filter prompt", Mode: vim.ModeFilter},
	}
}

// HelpEntries folds the bindings of a mode into one line per action, e.g.
// "j/down  move down".
func HelpEntries(km *vim.KeyMap, mode vim.Mode) [][2]string {
	var (
		order []vim.Action
		keys  = make(map[vim.Action][]string)
		descs = make(map[vim.Action]string)
	)
	for _, kb := range km.GetBindings(mode) {
		a := kb.Action()
		if _, seen := keys[a]; !seen {
			order = append(order, a)
			descs[a] = kb.Description()
		}
		keys[a] = append(keys[a], kb.Key())
	}

	entries := make([][2]string, 0, len(order))
	for _, a := range order {
		entries = append(entries, [2]string{strings.Join(keys[a], "/"), descs[a]})
	}
	return entries
}

// RenderHelp renders the help overlay centered in width x height.
func RenderHelp(km *vim.KeyMap, width, height int) string {
	styles := tui.DefaultStyles()
	section := lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)

	var lines []string
	lines = append(lines, styles.Title.Render("rickterm help"), "")
	for _, s := range DefaultHelpSections() {
		lines = append(lines, section.Render(s.Title))
		for _, e := range HelpEntries(km, s.Mode) {
			lines = append(lines, "  "+styles.Key.Render(tui.PadRight(e[0], 14))+styles.Desc.Render(e[1]))
		}
		lines = append(lines, "")
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(tui.ColorMuted).Render("Press ? or Esc to close"))

	box := styles.Focused.Padding(1, 2).Render(strings.Join(lines, "\n"))
	return center(box, width, height)
}
