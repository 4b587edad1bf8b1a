package components

import (
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/stretchr/testify/assert"
)

func TestRenderError(t *testing.T) {
	t.Run("shows message", func(t *testing.T) {
		view := RenderError("the request failed: 500 Internal Server Error", 80, 20)
		assert.Contains(t, view, ErrorTitle)
		assert.Contains(t, view, ErrorSubtitle)
		assert.Contains(t, view, "500 Internal Server Error")
	})

	t.Run("falls back to retry hint", func(t *testing.T) {
		view := RenderError("", 80, 20)
		assert.Contains(t, view, ErrorFallback)
	})

	t.Run("works without a size", func(t *testing.T) {
		assert.Contains(t, RenderError("boom", 0, 0), "boom")
	})
}

func TestLoadingView(t *testing.T) {
	v := NewLoadingView()
	assert.NotNil(t, v.Tick())
	assert.Contains(t, v.View(40, 5), LoadingText)

	v, cmd := v.Update(spinner.TickMsg{})
	assert.Contains(t, v.View(40, 5), LoadingText)
	_ = cmd
}
