package theme

import (
	"image"
	"image/color"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
)

func solid(c color.Color, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestLuminance(t *testing.T) {
	assert.InDelta(t, 0.0, Luminance(colorful.Color{}), 1e-9)
	assert.InDelta(t, 1.0, Luminance(colorful.Color{R: 1, G: 1, B: 1}), 1e-9)
	assert.InDelta(t, 0.2126, Luminance(colorful.Color{R: 1}), 1e-9)
	assert.InDelta(t, 0.7152, Luminance(colorful.Color{G: 1}), 1e-9)
}

func TestIsLight_BoundaryInclusive(t *testing.T) {
	assert.True(t, IsLight(0.5))
	assert.True(t, IsLight(0.51))
	assert.False(t, IsLight(0.4999))
}

func TestReadable(t *testing.T) {
	tests := []struct {
		name string
		bg   colorful.Color
		want colorful.Color
	}{
		{"black", colorful.Color{}, OnDark},
		{"white", colorful.Color{R: 1, G: 1, B: 1}, OnLight},
		{"pure red is dark", colorful.Color{R: 1}, OnDark},
		{"pure green is light", colorful.Color{G: 1}, OnLight},
		{"yellow is light", colorful.Color{R: 1, G: 1}, OnLight},
		{"blue is dark", colorful.Color{B: 1}, OnDark},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Readable(tt.bg))
		})
	}
}

func TestAnalyze(t *testing.T) {
	t.Run("solid color is dominant", func(t *testing.T) {
		sw := Analyze(solid(color.RGBA{R: 200, G: 40, B: 40, A: 255}, 100, 100))
		r, g, b := sw.Dominant.RGB255()
		assert.InDelta(t, 200, int(r), 2)
		assert.InDelta(t, 40, int(g), 2)
		assert.InDelta(t, 40, int(b), 2)
		assert.Equal(t, OnDark, sw.Foreground)
		assert.Positive(t, sw.Population)
	})

	t.Run("majority color wins", func(t *testing.T) {
		img := solid(color.RGBA{R: 240, G: 220, B: 60, A: 255}, 100, 100)
		for y := 0; y < 100; y++ {
			for x := 0; x < 30; x++ {
				img.Set(x, y, color.RGBA{R: 30, G: 60, B: 160, A: 255})
			}
		}
		sw := Analyze(img)
		r, _, b := sw.Dominant.RGB255()
		assert.Greater(t, int(r), 200)
		assert.Less(t, int(b), 100)
		assert.Equal(t, OnLight, sw.Foreground)
	})

	t.Run("near white falls back to black", func(t *testing.T) {
		sw := Analyze(solid(color.White, 20, 20))
		assert.Equal(t, Fallback, sw.Dominant)
		assert.Zero(t, sw.Population)
		assert.Equal(t, OnDark, sw.Foreground)
	})

	t.Run("transparent pixels ignored", func(t *testing.T) {
		sw := Analyze(solid(color.RGBA{}, 20, 20))
		assert.Equal(t, Fallback, sw.Dominant)
	})

	t.Run("nil image", func(t *testing.T) {
		assert.Equal(t, Fallback, Analyze(nil).Dominant)
	})
}

func TestSwatch_Hex(t *testing.T) {
	sw := NewSwatch(colorful.Color{R: 1, G: 1, B: 1}, 1)
	assert.Equal(t, "#b3b3b3", sw.Hex())
	assert.Equal(t, "#0000ff", sw.ForegroundHex())
}

func TestScale(t *testing.T) {
	dst := Scale(solid(color.RGBA{R: 10, G: 20, B: 30, A: 255}, 300, 200), 16, 8)
	assert.Equal(t, image.Rect(0, 0, 16, 8), dst.Bounds())
	px := dst.RGBAAt(4, 4)
	assert.InDelta(t, 10, int(px.R), 1)
	assert.InDelta(t, 20, int(px.G), 1)
	assert.InDelta(t, 30, int(px.B), 1)
}
