package theme

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"sync"

	"github.com/devspace/rickterm/internal/logger"
)

// Fetcher downloads image bytes.
type Fetcher interface {
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// Artwork is a decoded avatar together with its swatch.
type Artwork struct {
	URL    string
	Image  image.Image
	Swatch Swatch
}

// Decode decodes a JPEG, PNG or GIF image.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// FromURL downloads and analyzes an image. Any failure is logged and
// reported as ok == false; callers render without color.
func FromURL(ctx context.Context, fetcher Fetcher, url string, log *logger.Logger) (Artwork, bool) {
	if url == "" {
		return Artwork{}, false
	}

	data, err := fetcher.FetchImage(ctx, url)
	if err != nil {
		log.With("url", url).Warn(err, "failed to fetch image")
		return Artwork{}, false
	}

	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		log.With("url", url).Warn(err, "failed to decode image")
		return Artwork{}, false
	}

	return Artwork{URL: url, Image: img, Swatch: Analyze(img)}, true
}

type cacheEntry struct {
	art Artwork
	ok  bool
}

// Cache memoizes artwork per URL, failures included.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewCache creates an empty artwork cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Get returns the cached artwork. found reports whether url was seen; ok
// reports whether it had usable colors.
func (c *Cache) Get(url string) (art Artwork, ok, found bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, found := c.entries[url]
	return e.art, e.ok, found
}

// Put stores the outcome of loading url.
func (c *Cache) Put(url string, art Artwork, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = cacheEntry{art: art, ok: ok}
}

// Len returns the number of cached URLs.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
