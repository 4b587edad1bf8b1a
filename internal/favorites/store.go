// Package favorites defines persistence for favorite characters.
// Favorite status is user preference metadata kept apart from API data.
package favorites

import (
	"context"
	"errors"
	"time"

	"github.com/devspace/rickterm/internal/core"
)

// Common errors.
var (
	ErrStoreClosed = errors.New("favorite store is closed")
	ErrNotFound    = errors.New("favorite not found")
)

// Record is a persisted favorite with a snapshot of the character summary.
type Record struct {
	CharacterID int       `json:"id"`
	Name        string    `json:"name"`
	Species     string    `json:"species"`
	ImageURL    string    `json:"image"`
	FavoritedAt time.Time `json:"favorited_at"`
}

// Character converts the record back to a favorite list entry.
func (r Record) Character() core.Character {
	return core.Character{
		ID:         r.CharacterID,
		Name:       r.Name,
		Species:    r.Species,
		ImageURL:   r.ImageURL,
		IsFavorite: true,
	}
}

// Store defines the interface for favorite persistence, keyed by character id.
type Store interface {
	// IsFavorite checks if a character is marked favorite.
	IsFavorite(ctx context.Context, id int) (bool, error)

	// Set writes the favorite flag for a character.
	Set(ctx context.Context, c core.Character, favorite bool) error

	// Toggle flips the favorite flag and returns the new state.
	Toggle(ctx context.Context, c core.Character) (bool, error)

	// Get returns the record for a favorite character or ErrNotFound.
	Get(ctx context.Context, id int) (Record, error)

	// List returns all favorites, most recent first.
	List(ctx context.Context) ([]Record, error)

	// IDs returns the set of favorite character ids.
	IDs(ctx context.Context) (map[int]bool, error)

	// Count returns the number of favorites.
	Count(ctx context.Context) (int64, error)

	// Clear removes all favorites.
	Clear(ctx context.Context) error

	// Close closes the store.
	Close() error
}

// Merge returns a copy of chars with IsFavorite taken from ids.
func Merge(chars []core.Character, ids map[int]bool) []core.Character {
	merged := make([]core.Character, len(chars))
	for i, c := range chars {
		merged[i] = c.WithFavorite(ids[c.ID])
	}
	return merged
}
