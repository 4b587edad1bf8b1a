package components

import (
	"image"
	"testing"
	"time"

	"github.com/devspace/rickterm/internal/core"
	"github.com/devspace/rickterm/internal/theme"
	"github.com/stretchr/testify/assert"
)

func rickDetail() core.CharacterDetail {
	return core.CharacterDetail{
		ID:       1,
		Name:     "Rick Sanchez",
		Status:   "Alive",
		Species:  "Human",
		Gender:   "Male",
		Origin:   "Earth (C-137)",
		Location: "Citadel of Ricks",
		ImageURL: "https://rickandmortyapi.com/api/character/avatar/1.jpeg",
		Episodes: 51,
		Created:  time.Date(2017, 11, 4, 18, 48, 46, 0, time.UTC),
	}
}

func TestDetailPanel_View(t *testing.T) {
	t.Run("renders header and rows", func(t *testing.T) {
		p := NewDetailPanel()
		p.SetSize(100, 30)
		p.SetCharacter(rickDetail())

		view := p.View()
		assert.Contains(t, view, "Rick Sanchez")
		assert.Contains(t, view, "#001")
		assert.Contains(t, view, DetailHeading)
		for _, label := range []string{"Status:", "Species:", "Type:", "Gender:", "Origin:", "Location:"} {
			assert.Contains(t, view, label)
		}
		assert.Contains(t, view, "Citadel of Ricks")
		assert.Contains(t, view, "51")
		assert.Contains(t, view, "2017-11-04")
		assert.Equal(t, "Rick Sanchez", p.Title())
	})

	t.Run("empty fields show placeholder", func(t *testing.T) {
		p := NewDetailPanel()
		p.SetSize(100, 30)
		p.SetCharacter(rickDetail())
		assert.Contains(t, p.View(), core.EmptyValue)
	})

	t.Run("truncates long names", func(t *testing.T) {
		p := NewDetailPanel()
		p.SetSize(12, 30)
		c := rickDetail()
		c.Name = "Abadango Cluster Princess"
		p.SetCharacter(c)
		assert.Contains(t, p.View(), "Abadang...")
	})

	t.Run("favorite mark", func(t *testing.T) {
		p := NewDetailPanel()
		p.SetSize(100, 30)
		p.SetCharacter(rickDetail())
		p.SetFavorite(true)
		assert.Contains(t, p.View(), FavoriteMark)
	})
}

func TestDetailPanel_Artwork(t *testing.T) {
	p := NewDetailPanel()
	p.SetCharacter(rickDetail())
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	p.SetArtwork("https://example.com/other.jpeg", theme.Artwork{Image: img}, true)
	assert.NotContains(t, p.View(), "▀")

	p.SetArtwork(rickDetail().ImageURL, theme.Artwork{Image: img, Swatch: theme.Analyze(img)}, true)
	assert.Contains(t, p.View(), "▀")

	other := rickDetail()
	other.ID = 2
	other.ImageURL = "https://rickandmortyapi.com/api/character/avatar/2.jpeg"
	p.SetCharacter(other)
	assert.NotContains(t, p.View(), "▀")
}
