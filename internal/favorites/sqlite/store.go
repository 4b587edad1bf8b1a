package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/devspace/rickterm/internal/core"
	"github.com/devspace/rickterm/internal/favorites"
	_ "modernc.org/sqlite"
)

// Store implements favorites.Store using SQLite.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	ownsDB bool
	closed bool
}

// New creates a new SQLite-based favorite store at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open favorites database: %w", err)
	}

	store := &Store{db: db, ownsDB: true}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize favorites database: %w", err)
	}

	return store, nil
}

// NewWithDB creates a store using an existing database connection.
// The response cache shares the same file this way; Close leaves db open.
func NewWithDB(db *sql.DB) (*Store, error) {
	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize favorites tables: %w", err)
	}
	return store, nil
}

// NewInMemory creates a new in-memory SQLite store (useful for testing).
func NewInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	// Every pooled connection would get its own empty :memory: database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db, ownsDB: true}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

func (s *Store) initialize() error {
	schema := `
		CREATE TABLE IF NOT EXISTS favorites (
			character_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			species TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			favorited_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_favorited_at ON favorites(favorited_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// IsFavorite checks if a character is marked favorite.
func (s *Store) IsFavorite(ctx context.Context, id int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, favorites.ErrStoreClosed
	}

	return s.isFavorite(ctx, id)
}

func (s *Store) isFavorite(ctx context.Context, id int) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM favorites WHERE character_id = ?",
		id,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite status: %w", err)
	}
	return count > 0, nil
}

// Set writes the favorite flag for a character. Setting is idempotent and
// refreshes the stored snapshot; unsetting an absent id is a no-op.
func (s *Store) Set(ctx context.Context, c core.Character, favorite bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return favorites.ErrStoreClosed
	}

	if favorite {
		return s.insert(ctx, c)
	}
	return s.delete(ctx, c.ID)
}

func (s *Store) insert(ctx context.Context, c core.Character) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO favorites (character_id, name, species, image_url, favorited_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(character_id) DO UPDATE SET
			name = excluded.name,
			species = excluded.species,
			image_url = excluded.image_url
	`, c.ID, c.Name, c.Species, c.ImageURL, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to favorite character %d: %w", c.ID, err)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, id int) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM favorites WHERE character_id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to unfavorite character %d: %w", id, err)
	}
	return nil
}

// Toggle flips the favorite flag and returns the new state.
func (s *Store) Toggle(ctx context.Context, c core.Character) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, favorites.ErrStoreClosed
	}

	current, err := s.isFavorite(ctx, c.ID)
	if err != nil {
		return false, err
	}

	if current {
		return false, s.delete(ctx, c.ID)
	}
	return true, s.insert(ctx, c)
}

// Get returns the record for a favorite character.
func (s *Store) Get(ctx context.Context, id int) (favorites.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return favorites.Record{}, favorites.ErrStoreClosed
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT character_id, name, species, image_url, favorited_at
		FROM favorites WHERE character_id = ?
	`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return favorites.Record{}, favorites.ErrNotFound
	}
	if err != nil {
		return favorites.Record{}, fmt.Errorf("failed to get favorite: %w", err)
	}
	return rec, nil
}

// List returns all favorites, most recent first.
func (s *Store) List(ctx context.Context) ([]favorites.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, favorites.ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT character_id, name, species, image_url, favorited_at
		FROM favorites ORDER BY favorited_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	var records []favorites.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// IDs returns the set of favorite character ids.
func (s *Store) IDs(ctx context.Context) (map[int]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, favorites.ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx, "SELECT character_id FROM favorites")
	if err != nil {
		return nil, fmt.Errorf("failed to list favorite ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite id: %w", err)
		}
		ids[id] = true
	}

	return ids, rows.Err()
}

// Count returns the number of favorites.
func (s *Store) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, favorites.ErrStoreClosed
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM favorites").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return count, nil
}

// Clear removes all favorites.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return favorites.ErrStoreClosed
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM favorites"); err != nil {
		return fmt.Errorf("failed to clear favorites: %w", err)
	}
	return nil
}

// Close closes the store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (favorites.Record, error) {
	var rec favorites.Record
	var favoritedAt int64
	if err := row.Scan(&rec.CharacterID, &rec.Name, &rec.Species, &rec.ImageURL, &favoritedAt); err != nil {
		return favorites.Record{}, err
	}
	rec.FavoritedAt = time.Unix(0, favoritedAt)
	return rec, nil
}

var _ favorites.Store = (*Store)(nil)
