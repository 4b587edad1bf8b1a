package favorites

import (
	"testing"
	"time"

	"github.com/devspace/rickterm/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	chars := []core.Character{
		{ID: 1, Name: "Rick Sanchez", IsFavorite: true},
		{ID: 2, Name: "Morty Smith"},
		{ID: 3, Name: "Summer Smith"},
	}

	merged := Merge(chars, map[int]bool{2: true})

	assert.False(t, merged[0].IsFavorite, "stale flag is overwritten")
	assert.True(t, merged[1].IsFavorite)
	assert.False(t, merged[2].IsFavorite)
	assert.True(t, chars[0].IsFavorite, "input is not modified")
	assert.Equal(t, []int{1, 2, 3}, []int{merged[0].ID, merged[1].ID, merged[2].ID})
}

func TestMerge_Empty(t *testing.T) {
	assert.Empty(t, Merge(nil, nil))
}

func TestRecord_Character(t *testing.T) {
	r := Record{CharacterID: 7, Name: "Abradolf Lincler", Species: "Human", ImageURL: "https://example.com/7.jpeg", FavoritedAt: time.Now()}
	c := r.Character()
	assert.Equal(t, 7, c.ID)
	assert.True(t, c.IsFavorite)
	assert.Equal(t, "Abradolf Lincler", c.Name)
}
