package theme

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	data  map[string][]byte
	calls int
}

func (f *fakeFetcher) FetchImage(ctx context.Context, url string) ([]byte, error) {
	f.calls++
	data, ok := f.data[url]
	if !ok {
		return nil, errors.New("404 Not Found")
	}
	return data, nil
}

func encodePNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(c, 32, 32)))
	return buf.Bytes()
}

func TestFromURL(t *testing.T) {
	fetcher := &fakeFetcher{data: map[string][]byte{
		"https://example.com/green.png":  encodePNG(t, color.RGBA{R: 60, G: 200, B: 60, A: 255}),
		"https://example.com/broken.png": []byte("not an image"),
	}}
	ctx := context.Background()

	t.Run("decodes and analyzes", func(t *testing.T) {
		art, ok := FromURL(ctx, fetcher, "https://example.com/green.png", nil)
		require.True(t, ok)
		assert.Equal(t, "https://example.com/green.png", art.URL)
		assert.NotNil(t, art.Image)
		_, g, _ := art.Swatch.Dominant.RGB255()
		assert.InDelta(t, 200, int(g), 2)
	})

	t.Run("decode failure is silent", func(t *testing.T) {
		_, ok := FromURL(ctx, fetcher, "https://example.com/broken.png", nil)
		assert.False(t, ok)
	})

	t.Run("fetch failure is silent", func(t *testing.T) {
		_, ok := FromURL(ctx, fetcher, "https://example.com/missing.png", nil)
		assert.False(t, ok)
	})

	t.Run("empty URL skips fetch", func(t *testing.T) {
		before := fetcher.calls
		_, ok := FromURL(ctx, fetcher, "", nil)
		assert.False(t, ok)
		assert.Equal(t, before, fetcher.calls)
	})
}

func TestCache(t *testing.T) {
	c := NewCache()

	_, _, found := c.Get("https://example.com/1.jpeg")
	assert.False(t, found)

	c.Put("https://example.com/1.jpeg", Artwork{URL: "https://example.com/1.jpeg"}, true)
	c.Put("https://example.com/2.jpeg", Artwork{}, false)

	art, ok, found := c.Get("https://example.com/1.jpeg")
	assert.True(t, found)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/1.jpeg", art.URL)

	_, ok, found = c.Get("https://example.com/2.jpeg")
	assert.True(t, found)
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())
}
