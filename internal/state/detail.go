package state

import (
	"context"
	"sync"
)

// DetailController owns the detail screen state for one character at a time.
type DetailController struct {
	gateway Gateway
	opts    options
	state   *Observable[DetailState]

	mu         sync.Mutex
	generation uint64
}

// NewDetailController creates a detail controller in the idle state.
func NewDetailController(gateway Gateway, opts ...Option) *DetailController {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &DetailController{
		gateway: gateway,
		opts:    o,
		state:   NewObservable(DetailIdle()),
	}
}

// State returns the current detail state.
func (c *DetailController) State() DetailState {
	return c.state.Value()
}

// Subscribe returns a channel of published detail states.
func (c *DetailController) Subscribe() (<-chan DetailState, func()) {
	return c.state.Subscribe()
}

// LoadDetail publishes loading, fetches the character and publishes the
// outcome. A result is dropped if a newer LoadDetail or Clear superseded it.
func (c *DetailController) LoadDetail(ctx context.Context, id int) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	c.state.Set(DetailLoading())

	detail, err := c.gateway.GetCharacter(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.opts.log.With("character_id", id).Warn(err, "character detail failed")
		if gen == c.generation {
			c.state.Set(DetailError(err.Error()))
		}
		return err
	}

	if gen == c.generation {
		c.state.Set(DetailLoaded(detail))
	}
	return nil
}

// Clear resets to the idle state after the debounce delay, so re-entering
// the screen never flashes stale content. A LoadDetail started during the
// delay wins and the reset is skipped.
func (c *DetailController) Clear(ctx context.Context) error {
	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()

	if err := sleep(ctx, c.opts.debounce); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return nil
	}
	c.generation++
	c.state.Set(DetailIdle())
	return nil
}
