package state

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/devspace/rickterm/internal/core"
	"github.com/devspace/rickterm/internal/favorites"
	favsqlite "github.com/devspace/rickterm/internal/favorites/sqlite"
	"github.com/stretchr/testify/require"
)

var (
	rick   = core.Character{ID: 1, Name: "Rick Sanchez", Species: "Human", ImageURL: "https://rickandmortyapi.com/api/character/avatar/1.jpeg"}
	morty  = core.Character{ID: 2, Name: "Morty Smith", Species: "Human", ImageURL: "https://rickandmortyapi.com/api/character/avatar/2.jpeg"}
	summer = core.Character{ID: 3, Name: "Summer Smith", Species: "Human", ImageURL: "https://rickandmortyapi.com/api/character/avatar/3.jpeg"}
	beth   = core.Character{ID: 4, Name: "Beth Smith", Species: "Human", ImageURL: "https://rickandmortyapi.com/api/character/avatar/4.jpeg"}
	jerry  = core.Character{ID: 5, Name: "Jerry Smith", Species: "Human", ImageURL: "https://rickandmortyapi.com/api/character/avatar/5.jpeg"}
)

// fakeGateway serves canned pages keyed by filter.
type fakeGateway struct {
	mu          sync.Mutex
	pages       map[core.Filter]core.CharacterPage
	details     map[int]core.CharacterDetail
	err         error
	filters     []core.Filter
	detailCalls int
	block       chan struct{}
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		pages:   make(map[core.Filter]core.CharacterPage),
		details: make(map[int]core.CharacterDetail),
	}
}

func (g *fakeGateway) ListCharacters(ctx context.Context, filter core.Filter) (core.CharacterPage, error) {
	g.mu.Lock()
	g.filters = append(g.filters, filter)
	err := g.err
	page, ok := g.pages[filter]
	block := g.block
	g.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return core.CharacterPage{}, ctx.Err()
		}
	}
	if err != nil {
		return core.CharacterPage{}, err
	}
	if !ok {
		return core.CharacterPage{}, core.NewStatusError(404, "404 Not Found", "There is nothing here")
	}
	return page, nil
}

func (g *fakeGateway) GetCharacter(ctx context.Context, id int) (core.CharacterDetail, error) {
	g.mu.Lock()
	err := g.err
	d, ok := g.details[id]
	g.detailCalls++
	block := g.block
	g.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return core.CharacterDetail{}, ctx.Err()
		}
	}
	if err != nil {
		return core.CharacterDetail{}, err
	}
	if !ok {
		return core.CharacterDetail{}, core.NewStatusError(404, "404 Not Found", "Character not found")
	}
	return d, nil
}

func (g *fakeGateway) setErr(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

func (g *fakeGateway) detailRequests() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.detailCalls
}

func (g *fakeGateway) requested() []core.Filter {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]core.Filter(nil), g.filters...)
}

// failingStore wraps a real store and fails selected operations.
type failingStore struct {
	favorites.Store
	failIDs bool
	failSet bool
}

var errStore = errors.New("disk I/O error")

func (s *failingStore) IDs(ctx context.Context) (map[int]bool, error) {
	if s.failIDs {
		return nil, errStore
	}
	return s.Store.IDs(ctx)
}

func (s *failingStore) Set(ctx context.Context, c core.Character, fav bool) error {
	if s.failSet {
		return errStore
	}
	return s.Store.Set(ctx, c, fav)
}

func newFavoriteStore(t *testing.T) *favsqlite.Store {
	t.Helper()
	store, err := favsqlite.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func ids(chars []core.Character) []int {
	out := make([]int, len(chars))
	for i, c := range chars {
		out[i] = c.ID
	}
	return out
}
