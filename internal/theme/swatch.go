// Package theme derives colors from character avatars: a dominant
// background color and a readable foreground for text drawn on top of it.
package theme

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
)

// Threshold is the luminance at or above which a background counts as light.
const Threshold = 0.5

// TintAlpha is the opacity applied to the dominant color when rendered.
const TintAlpha = 0.70

// analysisSize is the edge length images are scaled to before quantizing.
const analysisSize = 64

var (
	// OnLight is the foreground used on light backgrounds (dark blue).
	OnLight = colorful.Color{R: 0, G: 0, B: 1}
	// OnDark is the foreground used on dark backgrounds (radioactive green).
	OnDark = colorful.Color{R: 0, G: 1, B: 0}
	// Fallback is the dominant color when no usable pixel remains.
	Fallback = colorful.Color{R: 0, G: 0, B: 0}
)

// Swatch is the dominant color of an image plus its readable foreground.
type Swatch struct {
	Dominant   colorful.Color
	Foreground colorful.Color
	Population int
}

// NewSwatch builds a swatch for a dominant color.
func NewSwatch(dominant colorful.Color, population int) Swatch {
	return Swatch{Dominant: dominant, Foreground: Readable(dominant), Population: population}
}

// Hex returns the dominant color at TintAlpha over a black terminal.
func (s Swatch) Hex() string {
	return Fallback.BlendRgb(s.Dominant, TintAlpha).Clamped().Hex()
}

// ForegroundHex returns the readable foreground color.
func (s Swatch) ForegroundHex() string {
	return s.Foreground.Hex()
}

// Luminance returns 0.2126 R + 0.7152 G + 0.0722 B over 0..1 channels.
func Luminance(c colorful.Color) float64 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

// IsLight reports whether lum counts as a light background. The boundary
// value itself is light.
func IsLight(lum float64) bool {
	return lum >= Threshold
}

// Readable returns OnLight for light backgrounds and OnDark otherwise.
func Readable(background colorful.Color) colorful.Color {
	if IsLight(Luminance(background)) {
		return OnLight
	}
	return OnDark
}

// Scale resizes img to w x h with bilinear sampling.
func Scale(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

type bucket struct {
	key     uint16
	count   int
	r, g, b float64
}

// Analyze computes the dominant color of img.
//
// Pixels are quantized to 5 bits per channel; the most populous bucket wins
// and its members are averaged. Mostly transparent pixels and near black or
// near white pixels are ignored. An image with no remaining pixel yields the
// Fallback color.
func Analyze(img image.Image) Swatch {
	if img == nil || img.Bounds().Empty() {
		return NewSwatch(Fallback, 0)
	}

	small := Scale(img, analysisSize, analysisSize)
	buckets := make(map[uint16]*bucket)

	for y := 0; y < analysisSize; y++ {
		for x := 0; x < analysisSize; x++ {
			px := small.RGBAAt(x, y)
			if px.A < 128 {
				continue
			}
			c := straight(px)
			if ignored(c) {
				continue
			}
			key := quantize(c)
			bk, ok := buckets[key]
			if !ok {
				bk = &bucket{key: key}
				buckets[key] = bk
			}
			bk.count++
			bk.r += c.R
			bk.g += c.G
			bk.b += c.B
		}
	}

	if len(buckets) == 0 {
		return NewSwatch(Fallback, 0)
	}

	ranked := make([]*bucket, 0, len(buckets))
	for _, bk := range buckets {
		ranked = append(ranked, bk)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].key < ranked[j].key
	})

	top := ranked[0]
	n := float64(top.count)
	return NewSwatch(colorful.Color{R: top.r / n, G: top.g / n, B: top.b / n}, top.count)
}

// straight converts a premultiplied pixel to a straight-alpha color.
func straight(px color.RGBA) colorful.Color {
	a := float64(px.A)
	return colorful.Color{
		R: math.Min(float64(px.R)/a, 1),
		G: math.Min(float64(px.G)/a, 1),
		B: math.Min(float64(px.B)/a, 1),
	}
}

func ignored(c colorful.Color) bool {
	_, _, l := c.Hsl()
	return l <= 0.05 || l >= 0.95
}

func quantize(c colorful.Color) uint16 {
	r, g, b := c.RGB255()
	return uint16(r>>3)<<10 | uint16(g>>3)<<5 | uint16(b>>3)
}
