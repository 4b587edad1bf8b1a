package state

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/devspace/rickterm/internal/core"
	"github.com/devspace/rickterm/internal/favorites"
	"github.com/devspace/rickterm/internal/logger"
)

// Gateway is the remote source of characters.
type Gateway interface {
	ListCharacters(ctx context.Context, filter core.Filter) (core.CharacterPage, error)
	GetCharacter(ctx context.Context, id int) (core.CharacterDetail, error)
}

// Option configures a controller.
type Option func(*options)

type options struct {
	log         *logger.Logger
	filterDelay time.Duration
	debounce    time.Duration
}

func defaultOptions() options {
	return options{debounce: 200 * time.Millisecond}
}

// WithLogger sets the controller logger.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithFilterDelay holds filtered results back for d before publishing.
func WithFilterDelay(d time.Duration) Option {
	return func(o *options) { o.filterDelay = d }
}

// WithDebounce sets how long DetailController.Clear waits before resetting.
func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}

// ListController owns the grid state. It fetches pages from the gateway,
// merges favorite flags from the store and publishes the result.
type ListController struct {
	gateway Gateway
	store   favorites.Store
	opts    options
	state   *Observable[ListState]

	mu            sync.Mutex
	generation    uint64
	hasLoaded     bool
	loaded        []core.Character
	filter        core.Filter
	page          core.PageInfo
	pageNum       int
	favoritesOnly bool
}

// NewListController creates a list controller in the idle state.
func NewListController(gateway Gateway, store favorites.Store, opts ...Option) *ListController {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &ListController{
		gateway: gateway,
		store:   store,
		opts:    o,
		state:   NewObservable(ListState{}),
	}
}

// State returns the current list state.
func (c *ListController) State() ListState {
	return c.state.Value()
}

// Subscribe returns a channel of published list states.
func (c *ListController) Subscribe() (<-chan ListState, func()) {
	return c.state.Subscribe()
}

// LoadAll fetches the unfiltered collection.
func (c *ListController) LoadAll(ctx context.Context) error {
	return c.load(ctx, core.Filter{}, 0)
}

// LoadFiltered fetches the collection filtered server side by name and species.
func (c *ListController) LoadFiltered(ctx context.Context, name, species string) error {
	return c.load(ctx, core.Filter{Name: name, Species: species}, c.opts.filterDelay)
}

// Reload repeats the last load with the same filter.
func (c *ListController) Reload(ctx context.Context) error {
	c.mu.Lock()
	filter := c.filter
	c.mu.Unlock()
	return c.load(ctx, filter, 0)
}

func (c *ListController) load(ctx context.Context, filter core.Filter, delay time.Duration) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	log := c.opts.log.With("filter", filter.String())
	loading := ListLoading()
	loading.Filter = filter
	c.state.Set(loading)

	page, err := c.fetch(ctx, filter)
	if err != nil {
		log.Warn(err, "character list failed")
		c.publishError(gen, filter, err)
		return err
	}

	if delay > 0 {
		if err := sleep(ctx, delay); err != nil {
			c.publishError(gen, filter, err)
			return err
		}
	}

	c.mu.Lock()
	if gen != c.generation {
		// A newer load owns the state now.
		c.mu.Unlock()
		return nil
	}
	c.hasLoaded = true
	c.loaded = page.Characters
	c.filter = filter
	c.page = page.Info
	c.pageNum = 1
	c.favoritesOnly = false
	next := c.snapshotLocked()
	c.mu.Unlock()

	c.state.Set(next)
	log.With("count", len(page.Characters)).Debug("character list loaded")
	return nil
}

// fetch requests one page and merges favorite flags onto it.
func (c *ListController) fetch(ctx context.Context, filter core.Filter) (core.CharacterPage, error) {
	page, err := c.gateway.ListCharacters(ctx, filter)
	if err != nil {
		return core.CharacterPage{}, err
	}
	ids, err := c.store.IDs(ctx)
	if err != nil {
		return core.CharacterPage{}, err
	}
	page.Characters = favorites.Merge(page.Characters, ids)
	return page, nil
}

// publishError publishes the error variant unless a newer load started.
func (c *ListController) publishError(gen uint64, filter core.Filter, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return
	}
	s := ListError(err.Error())
	s.Filter = filter
	c.state.Set(s)
}

// LoadMore appends the next page of the current listing. It is a no-op
// when nothing is loaded or the last page was reached.
func (c *ListController) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if !c.hasLoaded || !c.page.HasNext() {
		c.mu.Unlock()
		return nil
	}
	gen := c.generation
	base := c.filter
	filter := base.WithPage(c.pageNum + 1)
	c.mu.Unlock()

	page, err := c.fetch(ctx, filter)
	if err != nil {
		c.opts.log.With("page", filter.Page).Warn(err, "next page failed")
		c.publishError(gen, base, err)
		return err
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return nil
	}
	c.loaded = append(slices.Clone(c.loaded), page.Characters...)
	c.page = page.Info
	c.pageNum = filter.Page
	next := c.snapshotLocked()
	c.mu.Unlock()

	c.state.Set(next)
	return nil
}

// ToggleFavorite flips the favorite flag of ch in the store and replaces
// that one entry in the published list. Store errors leave the state alone.
func (c *ListController) ToggleFavorite(ctx context.Context, ch core.Character) (core.Character, error) {
	if err := c.store.Set(ctx, ch, !ch.IsFavorite); err != nil {
		c.opts.log.With("character_id", ch.ID).Error(err, "failed to write favorite")
		return ch, err
	}

	fav, err := c.store.IsFavorite(ctx, ch.ID)
	if err != nil {
		c.opts.log.With("character_id", ch.ID).Error(err, "failed to read favorite")
		return ch, err
	}
	updated := ch.WithFavorite(fav)

	c.mu.Lock()
	c.loaded = replace(c.loaded, updated)
	c.mu.Unlock()

	c.state.Update(func(s ListState) ListState {
		if s.Status != StatusLoaded {
			return s
		}
		s.Characters = replace(s.Characters, updated)
		return s
	})
	return updated, nil
}

// ShowFavoritesOnly republishes the favorite entries of the last loaded
// set, in load order. Nothing is refetched.
func (c *ListController) ShowFavoritesOnly() {
	c.setFavoritesOnly(true)
}

// ShowAll republishes the full last loaded set.
func (c *ListController) ShowAll() {
	c.setFavoritesOnly(false)
}

func (c *ListController) setFavoritesOnly(only bool) {
	c.mu.Lock()
	if !c.hasLoaded {
		c.mu.Unlock()
		return
	}
	c.favoritesOnly = only
	next := c.snapshotLocked()
	c.mu.Unlock()

	c.state.Set(next)
}

// snapshotLocked builds the loaded state for the current view. c.mu must be held.
func (c *ListController) snapshotLocked() ListState {
	chars := c.loaded
	if c.favoritesOnly {
		chars = make([]core.Character, 0, len(c.loaded))
		for _, ch := range c.loaded {
			if ch.IsFavorite {
				chars = append(chars, ch)
			}
		}
	}
	s := ListLoaded(chars)
	s.Filter = c.filter
	s.Page = c.page
	s.FavoritesOnly = c.favoritesOnly
	return s
}

// replace returns a copy of chars with the entry matching updated.ID swapped.
func replace(chars []core.Character, updated core.Character) []core.Character {
	out := slices.Clone(chars)
	for i := range out {
		if out[i].ID == updated.ID {
			out[i] = updated
		}
	}
	return out
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
