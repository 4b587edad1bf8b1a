package theme

import (
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const halfBlock = "▀"

// Thumbnail renders img as cols x rows terminal cells. Each cell shows two
// vertically stacked pixels: the upper half block takes the top pixel as
// foreground and the bottom pixel as background.
func Thumbnail(img image.Image, cols, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}
	small := Scale(img, cols, rows*2)

	var b strings.Builder
	for y := 0; y < rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < cols; x++ {
			top := straightHex(small, x, 2*y)
			bottom := straightHex(small, x, 2*y+1)
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render(halfBlock))
		}
	}
	return b.String()
}

// Placeholder renders a cols x rows block in the swatch color, used while
// an avatar is still loading or failed to decode.
func Placeholder(s Swatch, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	line := strings.Repeat(" ", cols)
	lines := make([]string, rows)
	for i := range lines {
		lines[i] = line
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(s.Hex())).
		Render(strings.Join(lines, "\n"))
}

func straightHex(img *image.RGBA, x, y int) string {
	px := img.RGBAAt(x, y)
	if px.A == 0 {
		return Fallback.Hex()
	}
	return straight(px).Clamped().Hex()
}

// Blend mixes two hex colors, t = 0 returns a and t = 1 returns b. Invalid
// input yields a unchanged.
func Blend(a, b string, t float64) string {
	ca, err := colorful.Hex(a)
	if err != nil {
		return a
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return a
	}
	return ca.BlendRgb(cb, t).Clamped().Hex()
}
