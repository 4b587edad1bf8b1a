package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/devspace/rickterm/internal/cache"
	cachesqlite "github.com/devspace/rickterm/internal/cache/sqlite"
	"github.com/devspace/rickterm/internal/config"
	"github.com/devspace/rickterm/internal/favorites"
	favsqlite "github.com/devspace/rickterm/internal/favorites/sqlite"
	"github.com/devspace/rickterm/internal/logger"
	httpclient "github.com/devspace/rickterm/internal/protocol/http"
	"github.com/devspace/rickterm/internal/state"
	"github.com/devspace/rickterm/internal/theme"

	_ "modernc.org/sqlite"
)

// File names inside the data directory.
const (
	DatabaseFile = "rickterm.db"
	LogFile      = "rickterm.log"
)

// Gateway is the remote character source, including avatar downloads.
type Gateway interface {
	state.Gateway
	theme.Fetcher
}

// App is the main application container with dependency injection.
type App struct {
	config    config.Config
	gateway   Gateway
	favorites favorites.Store
	cache     cache.Store
	log       *logger.Logger
	db        *sql.DB
}

// Option is a function that configures the App.
type Option func(*App)

// WithConfig sets the application configuration.
func WithConfig(cfg config.Config) Option {
	return func(a *App) {
		a.config = cfg
	}
}

// WithGateway replaces the HTTP gateway.
func WithGateway(g Gateway) Option {
	return func(a *App) {
		a.gateway = g
	}
}

// WithFavorites replaces the SQLite favorite store.
func WithFavorites(store favorites.Store) Option {
	return func(a *App) {
		a.favorites = store
	}
}

// WithCache replaces the SQLite response cache.
func WithCache(store cache.Store) Option {
	return func(a *App) {
		a.cache = store
	}
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(a *App) {
		a.log = log
	}
}

// New creates an App from options only. Nothing is opened; missing
// collaborators stay nil.
func New(opts ...Option) *App {
	app := &App{
		config: config.Default(),
		log:    logger.Nop(),
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// Open creates an App for cfg. The favorite store and response cache share
// one SQLite file in the data directory unless replaced by options.
func Open(cfg config.Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := New(append([]Option{WithConfig(cfg)}, opts...)...)

	needDB := app.favorites == nil || (app.cache == nil && !cfg.NoCache)
	if needDB {
		db, err := openDatabase(cfg)
		if err != nil {
			return nil, err
		}
		app.db = db
	}

	if app.favorites == nil {
		store, err := favsqlite.NewWithDB(app.db)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.favorites = store
	}

	if app.cache == nil && !cfg.NoCache {
		store, err := cachesqlite.NewWithDB(app.db)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.cache = store
		if n, err := store.Prune(context.Background()); err != nil {
			app.log.Warn(err, "cache prune failed")
		} else if n > 0 {
			app.log.With("entries", n).Debug("pruned expired cache entries")
		}
	}

	if app.gateway == nil {
		clientOpts := []httpclient.Option{
			httpclient.WithBaseURL(cfg.BaseURL),
			httpclient.WithTimeout(cfg.Timeout),
			httpclient.WithUserAgent(cfg.UserAgent),
			httpclient.WithLogger(app.log),
		}
		if app.cache != nil {
			clientOpts = append(clientOpts, httpclient.WithCache(app.cache, cfg.CacheTTL))
		}
		app.gateway = httpclient.NewClient(clientOpts...)
	}

	return app, nil
}

func openDatabase(cfg config.Config) (*sql.DB, error) {
	dir, err := cfg.ResolvedDataDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	path := filepath.Join(dir, DatabaseFile)
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	return db, nil
}

// Config returns the application configuration.
func (a *App) Config() config.Config {
	return a.config
}

// Gateway returns the remote character source.
func (a *App) Gateway() Gateway {
	return a.gateway
}

// Favorites returns the favorite store.
func (a *App) Favorites() favorites.Store {
	return a.favorites
}

// Cache returns the response cache, nil when caching is off.
func (a *App) Cache() cache.Store {
	return a.cache
}

// Logger returns the application logger.
func (a *App) Logger() *logger.Logger {
	return a.log
}

// ListController creates a list controller bound to the gateway and store.
func (a *App) ListController() *state.ListController {
	return state.NewListController(a.gateway, a.favorites,
		state.WithLogger(a.log),
		state.WithFilterDelay(a.config.FilterDelay),
	)
}

// DetailController creates a detail controller bound to the gateway.
func (a *App) DetailController() *state.DetailController {
	return state.NewDetailController(a.gateway,
		state.WithLogger(a.log),
		state.WithDebounce(a.config.DetailDebounce),
	)
}

// Close releases the stores and the shared database.
func (a *App) Close() error {
	var errs []error
	if a.favorites != nil {
		errs = append(errs, a.favorites.Close())
	}
	if a.cache != nil {
		errs = append(errs, a.cache.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
		a.db = nil
	}
	return errors.Join(errs...)
}
