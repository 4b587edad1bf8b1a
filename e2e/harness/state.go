package harness

import (
	"context"
	"time"

	"github.com/devspace/rickterm/internal/favorites"
)

// State represents a snapshot of the entire TUI state for verification.
type State struct {
	App    *AppState
	Grid   *GridState
	Detail *DetailState
}

// AppState captures the root view state.
type AppState struct {
	Screen       string // "grid", "detail"
	Mode         string // "NORMAL", "FILTER", "DETAIL", "HELP"
	ShowingHelp  bool
	Notification string
	FilterValue  string
	Quitting     bool
}

// GridState captures the list state and grid cursor.
type GridState struct {
	Status        string // "idle", "loading", "error", "loaded"
	Error         string
	Count         int
	Total         int
	HasNext       bool
	FavoritesOnly bool
	Filter        string
	Cursor        int
	SelectedID    int
	SelectedName  string
	SelectedFav   bool
	FavoriteIDs   []int
}

// DetailState captures the detail screen state.
type DetailState struct {
	Status   string
	ID       int
	Name     string
	Favorite bool
	Error    string
}

// CaptureState captures the current state of the TUI session.
func (s *TUISession) CaptureState() *State {
	return &State{
		App:    s.captureAppState(),
		Grid:   s.captureGridState(),
		Detail: s.captureDetailState(),
	}
}

func (s *TUISession) captureAppState() *AppState {
	m := s.model
	return &AppState{
		Screen:       m.Screen().String(),
		Mode:         m.Mode().String(),
		ShowingHelp:  m.ShowingHelp(),
		Notification: m.Notification(),
		FilterValue:  m.FilterValue(),
		Quitting:     m.Quitting(),
	}
}

func (s *TUISession) captureGridState() *GridState {
	ls := s.model.ListState()
	grid := s.model.Grid()

	state := &GridState{
		Status:        ls.Status.String(),
		Error:         ls.Err,
		Count:         len(ls.Characters),
		Total:         ls.Page.Count,
		HasNext:       ls.Page.HasNext(),
		FavoritesOnly: ls.FavoritesOnly,
		Filter:        ls.Filter.String(),
		Cursor:        grid.Cursor(),
	}

	if c, ok := grid.Selected(); ok {
		state.SelectedID = c.ID
		state.SelectedName = c.Name
		state.SelectedFav = c.IsFavorite
	}
	for _, c := range ls.Characters {
		if c.IsFavorite {
			state.FavoriteIDs = append(state.FavoriteIDs, c.ID)
		}
	}

	return state
}

func (s *TUISession) captureDetailState() *DetailState {
	ds := s.model.DetailState()
	return &DetailState{
		Status:   ds.Status.String(),
		ID:       ds.Character.ID,
		Name:     ds.Character.Name,
		Favorite: s.model.Panel().Favorite(),
		Error:    ds.Err,
	}
}

// State returns the current state (alias for CaptureState).
func (s *TUISession) State() *State {
	return s.CaptureState()
}

// DBVerifier checks what reached the favorite store.
type DBVerifier struct {
	store favorites.Store
}

// NewDBVerifier creates a new database verifier.
func NewDBVerifier(store favorites.Store) *DBVerifier {
	return &DBVerifier{store: store}
}

// Verifier returns a DBVerifier over the session's favorite store.
func (s *TUISession) Verifier() *DBVerifier {
	return NewDBVerifier(s.app.Favorites())
}

// FavoriteCount returns the number of stored favorites.
func (d *DBVerifier) FavoriteCount() int {
	if d.store == nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	n, err := d.store.Count(ctx)
	if err != nil {
		return 0
	}
	return int(n)
}

// IsFavorite reports whether id is stored as a favorite.
func (d *DBVerifier) IsFavorite(id int) bool {
	if d.store == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	fav, err := d.store.IsFavorite(ctx, id)
	return err == nil && fav
}
