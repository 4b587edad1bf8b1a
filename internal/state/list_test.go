package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devspace/rickterm/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newListFixture(t *testing.T, opts ...Option) (*ListController, *fakeGateway, *failingStore) {
	t.Helper()
	gw := newFakeGateway()
	gw.pages[core.Filter{}] = core.CharacterPage{
		Info:       core.PageInfo{Count: 5, Pages: 2, Next: "https://rickandmortyapi.com/api/character?page=2"},
		Characters: []core.Character{rick, morty, summer},
	}
	gw.pages[core.Filter{Page: 2}] = core.CharacterPage{
		Info:       core.PageInfo{Count: 5, Pages: 2, Prev: "https://rickandmortyapi.com/api/character?page=1"},
		Characters: []core.Character{beth, jerry},
	}
	gw.pages[core.Filter{Name: "smith", Species: "Human"}] = core.CharacterPage{
		Info:       core.PageInfo{Count: 2, Pages: 1},
		Characters: []core.Character{morty, summer},
	}
	store := &failingStore{Store: newFavoriteStore(t)}
	return NewListController(gw, store, opts...), gw, store
}

func TestListController_InitialState(t *testing.T) {
	c, _, _ := newListFixture(t)
	assert.Equal(t, StatusIdle, c.State().Status)
}

func TestListController_LoadAll(t *testing.T) {
	t.Run("publishes loaded with favorite flags from store", func(t *testing.T) {
		c, _, store := newListFixture(t)
		ctx := context.Background()
		require.NoError(t, store.Set(ctx, morty, true))

		require.NoError(t, c.LoadAll(ctx))

		s := c.State()
		assert.Equal(t, StatusLoaded, s.Status)
		assert.Equal(t, []int{1, 2, 3}, ids(s.Characters))
		assert.False(t, s.Characters[0].IsFavorite)
		assert.True(t, s.Characters[1].IsFavorite)
		assert.False(t, s.Characters[2].IsFavorite)
		assert.True(t, s.Page.HasNext())
		assert.Empty(t, s.Err)
	})

	t.Run("gateway failure publishes error, never loaded", func(t *testing.T) {
		c, gw, _ := newListFixture(t)
		gw.setErr(errors.New("connection refused"))

		err := c.LoadAll(context.Background())
		require.Error(t, err)

		s := c.State()
		assert.Equal(t, StatusError, s.Status)
		assert.Contains(t, s.Err, "connection refused")
		assert.Empty(t, s.Characters)
	})

	t.Run("store failure publishes error", func(t *testing.T) {
		c, _, store := newListFixture(t)
		store.failIDs = true

		err := c.LoadAll(context.Background())
		assert.ErrorIs(t, err, errStore)
		assert.Equal(t, StatusError, c.State().Status)
	})

	t.Run("publishes loading before result", func(t *testing.T) {
		c, gw, _ := newListFixture(t)
		gw.block = make(chan struct{})

		done := make(chan error, 1)
		go func() { done <- c.LoadAll(context.Background()) }()

		assert.Eventually(t, func() bool {
			return c.State().Status == StatusLoading
		}, time.Second, 5*time.Millisecond)

		close(gw.block)
		require.NoError(t, <-done)
		assert.Equal(t, StatusLoaded, c.State().Status)
	})
}

func TestListController_LoadFiltered(t *testing.T) {
	t.Run("sends server side filter", func(t *testing.T) {
		c, gw, _ := newListFixture(t)

		require.NoError(t, c.LoadFiltered(context.Background(), "smith", "Human"))

		s := c.State()
		assert.Equal(t, StatusLoaded, s.Status)
		assert.Equal(t, []int{2, 3}, ids(s.Characters))
		assert.Equal(t, core.Filter{Name: "smith", Species: "Human"}, s.Filter)
		assert.Equal(t, []core.Filter{{Name: "smith", Species: "Human"}}, gw.requested())
	})

	t.Run("no match is an error", func(t *testing.T) {
		c, _, _ := newListFixture(t)

		err := c.LoadFiltered(context.Background(), "nobody", "")
		assert.ErrorIs(t, err, core.ErrNotFound)

		s := c.State()
		assert.Equal(t, StatusError, s.Status)
		assert.Contains(t, s.Err, "There is nothing here")
	})

	t.Run("waits for filter delay", func(t *testing.T) {
		c, _, _ := newListFixture(t, WithFilterDelay(50*time.Millisecond))

		start := time.Now()
		require.NoError(t, c.LoadFiltered(context.Background(), "smith", "Human"))
		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
		assert.Equal(t, StatusLoaded, c.State().Status)
	})

	t.Run("cancelled during delay publishes error", func(t *testing.T) {
		c, _, _ := newListFixture(t, WithFilterDelay(time.Second))
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := c.LoadFiltered(ctx, "smith", "Human")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, StatusError, c.State().Status)
	})
}

func TestListController_ToggleFavorite(t *testing.T) {
	t.Run("replaces only the toggled entry", func(t *testing.T) {
		c, _, store := newListFixture(t)
		ctx := context.Background()
		require.NoError(t, c.LoadAll(ctx))
		before := c.State()

		updated, err := c.ToggleFavorite(ctx, before.Characters[1])
		require.NoError(t, err)
		assert.True(t, updated.IsFavorite)

		after := c.State()
		assert.Equal(t, StatusLoaded, after.Status)
		assert.Equal(t, []int{1, 2, 3}, ids(after.Characters))
		assert.Equal(t, before.Characters[0], after.Characters[0])
		assert.Equal(t, before.Characters[2], after.Characters[2])
		assert.True(t, after.Characters[1].IsFavorite)
		assert.False(t, before.Characters[1].IsFavorite, "published states are not mutated")

		fav, err := store.IsFavorite(ctx, morty.ID)
		require.NoError(t, err)
		assert.True(t, fav)
	})

	t.Run("toggling twice restores flag", func(t *testing.T) {
		c, _, _ := newListFixture(t)
		ctx := context.Background()
		require.NoError(t, c.LoadAll(ctx))

		on, err := c.ToggleFavorite(ctx, c.State().Characters[0])
		require.NoError(t, err)
		off, err := c.ToggleFavorite(ctx, on)
		require.NoError(t, err)

		assert.False(t, off.IsFavorite)
		assert.False(t, c.State().Characters[0].IsFavorite)
	})

	t.Run("store failure leaves state untouched", func(t *testing.T) {
		c, _, store := newListFixture(t)
		ctx := context.Background()
		require.NoError(t, c.LoadAll(ctx))
		before := c.State()
		store.failSet = true

		_, err := c.ToggleFavorite(ctx, before.Characters[0])
		assert.ErrorIs(t, err, errStore)
		assert.Equal(t, before, c.State())
	})

	t.Run("flag survives a reload", func(t *testing.T) {
		c, _, _ := newListFixture(t)
		ctx := context.Background()
		require.NoError(t, c.LoadAll(ctx))
		_, err := c.ToggleFavorite(ctx, c.State().Characters[2])
		require.NoError(t, err)

		require.NoError(t, c.Reload(ctx))
		assert.True(t, c.State().Characters[2].IsFavorite)
	})
}

func TestListController_ShowFavoritesOnly(t *testing.T) {
	t.Run("returns toggled set in load order", func(t *testing.T) {
		c, _, _ := newListFixture(t)
		ctx := context.Background()
		require.NoError(t, c.LoadAll(ctx))

		// Toggle out of order; the view keeps list order.
		_, err := c.ToggleFavorite(ctx, c.State().Characters[2])
		require.NoError(t, err)
		_, err = c.ToggleFavorite(ctx, c.State().Characters[0])
		require.NoError(t, err)

		c.ShowFavoritesOnly()

		s := c.State()
		assert.Equal(t, StatusLoaded, s.Status)
		assert.True(t, s.FavoritesOnly)
		assert.Equal(t, []int{1, 3}, ids(s.Characters))
	})

	t.Run("does not refetch", func(t *testing.T) {
		c, gw, _ := newListFixture(t)
		require.NoError(t, c.LoadAll(context.Background()))
		calls := len(gw.requested())

		c.ShowFavoritesOnly()
		c.ShowAll()

		assert.Len(t, gw.requested(), calls)
	})

	t.Run("show all restores full set", func(t *testing.T) {
		c, _, _ := newListFixture(t)
		ctx := context.Background()
		require.NoError(t, c.LoadAll(ctx))
		_, err := c.ToggleFavorite(ctx, c.State().Characters[1])
		require.NoError(t, err)

		c.ShowFavoritesOnly()
		require.Len(t, c.State().Characters, 1)

		c.ShowAll()
		s := c.State()
		assert.False(t, s.FavoritesOnly)
		assert.Equal(t, []int{1, 2, 3}, ids(s.Characters))
		assert.True(t, s.Characters[1].IsFavorite)
	})

	t.Run("unfavoriting in favorites view keeps entry in place", func(t *testing.T) {
		c, _, _ := newListFixture(t)
		ctx := context.Background()
		require.NoError(t, c.LoadAll(ctx))
		_, err := c.ToggleFavorite(ctx, c.State().Characters[0])
		require.NoError(t, err)
		c.ShowFavoritesOnly()

		_, err = c.ToggleFavorite(ctx, c.State().Characters[0])
		require.NoError(t, err)

		s := c.State()
		require.Len(t, s.Characters, 1)
		assert.False(t, s.Characters[0].IsFavorite)

		c.ShowFavoritesOnly()
		assert.Empty(t, c.State().Characters)
	})

	t.Run("no-op before first load", func(t *testing.T) {
		c, _, _ := newListFixture(t)
		c.ShowFavoritesOnly()
		assert.Equal(t, StatusIdle, c.State().Status)
	})
}

func TestListController_LoadMore(t *testing.T) {
	t.Run("appends next page", func(t *testing.T) {
		c, gw, _ := newListFixture(t)
		ctx := context.Background()
		require.NoError(t, c.LoadAll(ctx))

		require.NoError(t, c.LoadMore(ctx))

		s := c.State()
		assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(s.Characters))
		assert.False(t, s.Page.HasNext())
		assert.Equal(t, core.Filter{Page: 2}, gw.requested()[1])
	})

	t.Run("no-op on last page", func(t *testing.T) {
		c, gw, _ := newListFixture(t)
		ctx := context.Background()
		require.NoError(t, c.LoadAll(ctx))
		require.NoError(t, c.LoadMore(ctx))
		calls := len(gw.requested())

		require.NoError(t, c.LoadMore(ctx))
		assert.Len(t, gw.requested(), calls)
	})

	t.Run("no-op before first load", func(t *testing.T) {
		c, gw, _ := newListFixture(t)
		require.NoError(t, c.LoadMore(context.Background()))
		assert.Empty(t, gw.requested())
	})
}

func TestListController_Subscribe(t *testing.T) {
	c, _, _ := newListFixture(t)
	updates, cancel := c.Subscribe()
	defer cancel()

	require.NoError(t, c.LoadAll(context.Background()))

	var last ListState
	timeout := time.After(time.Second)
	for last.Status != StatusLoaded {
		select {
		case last = <-updates:
		case <-timeout:
			t.Fatal("no loaded state received")
		}
	}
	assert.Len(t, last.Characters, 3)
}
