package state

import (
	"slices"

	"github.com/devspace/rickterm/internal/core"
)

// Status tags which variant of a UI state is active.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
	StatusLoaded
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// ListState is the state rendered by the character grid.
// Characters is only meaningful when Status is StatusLoaded.
type ListState struct {
	Status        Status
	Characters    []core.Character
	Err           string
	Filter        core.Filter
	Page          core.PageInfo
	FavoritesOnly bool
}

// ListLoading returns the loading variant.
func ListLoading() ListState {
	return ListState{Status: StatusLoading}
}

// ListError returns the error variant.
func ListError(msg string) ListState {
	return ListState{Status: StatusError, Err: msg}
}

// ListLoaded returns the loaded variant holding a copy of chars.
func ListLoaded(chars []core.Character) ListState {
	return ListState{Status: StatusLoaded, Characters: slices.Clone(chars)}
}

// Find returns the character with the given id.
func (s ListState) Find(id int) (core.Character, bool) {
	for _, c := range s.Characters {
		if c.ID == id {
			return c, true
		}
	}
	return core.Character{}, false
}

// DetailState is the state rendered by the detail screen.
type DetailState struct {
	Status    Status
	Character core.CharacterDetail
	Err       string
}

// DetailIdle returns the initial empty variant.
func DetailIdle() DetailState {
	return DetailState{Status: StatusIdle}
}

// DetailLoading returns the loading variant.
func DetailLoading() DetailState {
	return DetailState{Status: StatusLoading}
}

// DetailError returns the error variant.
func DetailError(msg string) DetailState {
	return DetailState{Status: StatusError, Err: msg}
}

// DetailLoaded returns the loaded variant.
func DetailLoaded(c core.CharacterDetail) DetailState {
	return DetailState{Status: StatusLoaded, Character: c}
}
