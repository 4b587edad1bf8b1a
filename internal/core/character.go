package core

import (
	"fmt"
	"time"
)

// Character is a character as shown in the grid.
// IsFavorite comes from the local favorite store, never from the API.
type Character struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	ImageURL   string `json:"image"`
	Species    string `json:"species"`
	IsFavorite bool   `json:"is_favorite"`
}

// WithFavorite returns a copy of the character with the favorite flag set.
func (c Character) WithFavorite(favorite bool) Character {
	c.IsFavorite = favorite
	return c
}

// CharacterDetail is the full record fetched for a single character.
type CharacterDetail struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Status   string    `json:"status"`
	Species  string    `json:"species"`
	Type     string    `json:"type"`
	Gender   string    `json:"gender"`
	Origin   string    `json:"origin"`
	Location string    `json:"location"`
	ImageURL string    `json:"image"`
	Episodes int       `json:"episodes"`
	Created  time.Time `json:"created"`
}

// Summary returns the list-context view of the detail record.
func (d CharacterDetail) Summary() Character {
	return Character{
		ID:       d.ID,
		Name:     d.Name,
		ImageURL: d.ImageURL,
		Species:  d.Species,
	}
}

// InfoRow is a labelled detail value.
type InfoRow struct {
	Label string
	Value string
}

// Rows returns the detail fields in display order.
func (d CharacterDetail) Rows() []InfoRow {
	return []InfoRow{
		{Label: "Status:", Value: DisplayValue(d.Status)},
		{Label: "Species:", Value: DisplayValue(d.Species)},
		{Label: "Type:", Value: DisplayValue(d.Type)},
		{Label: "Gender:", Value: DisplayValue(d.Gender)},
		{Label: "Origin:", Value: DisplayValue(d.Origin)},
		{Label: "Location:", Value: DisplayValue(d.Location)},
	}
}

// EmptyValue is shown in place of blank detail fields.
const EmptyValue = "[Empty]"

// DisplayValue returns s, or EmptyValue when s is blank.
func DisplayValue(s string) string {
	if s == "" {
		return EmptyValue
	}
	return s
}

// FormatID renders a character id zero padded to three digits.
func FormatID(id int) string {
	return fmt.Sprintf("#%03d", id)
}

// PageInfo describes the pagination envelope of a list response.
type PageInfo struct {
	Count int    `json:"count"`
	Pages int    `json:"pages"`
	Next  string `json:"next"`
	Prev  string `json:"prev"`
}

// HasNext reports whether another page is available.
func (p PageInfo) HasNext() bool {
	return p.Next != ""
}

// CharacterPage is one page of list results.
type CharacterPage struct {
	Info       PageInfo
	Characters []Character
}
