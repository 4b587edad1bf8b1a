package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/devspace/rickterm/internal/cache"
	_ "modernc.org/sqlite"
)

// Store implements cache.Store using SQLite.
type Store struct {
	mu        sync.RWMutex
	db        *sql.DB
	ownsDB    bool
	closed    bool
	now       func() time.Time
	statsMu   sync.Mutex
	hitCount  int64
	missCount int64
}

// New creates a new SQLite-based cache store at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	store := &Store{db: db, ownsDB: true, now: time.Now}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	return store, nil
}

// NewWithDB creates a store using an existing database connection.
func NewWithDB(db *sql.DB) (*Store, error) {
	store := &Store{db: db, now: time.Now}
	if err := store.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize cache tables: %w", err)
	}
	return store, nil
}

// NewInMemory creates a new in-memory cache store (useful for testing).
func NewInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db, ownsDB: true, now: time.Now}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
		CREATE TABLE IF NOT EXISTS response_cache (
			hash TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			body BLOB NOT NULL,
			size INTEGER NOT NULL,
			expires_at INTEGER NOT NULL,
			access_count INTEGER DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_cache_expires ON response_cache(expires_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Get returns a non-expired body for key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, cache.ErrStoreClosed
	}

	hash := hashKey(key)
	var body []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT body FROM response_cache WHERE hash = ? AND expires_at > ?
	`, hash, s.now().UnixNano()).Scan(&body)

	if errors.Is(err, sql.ErrNoRows) {
		s.record(false)
		return nil, cache.ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached response: %w", err)
	}

	// Access stats are best effort.
	s.db.ExecContext(ctx, `
		UPDATE response_cache SET access_count = access_count + 1 WHERE hash = ?
	`, hash)

	s.record(true)
	return body, nil
}

func (s *Store) record(hit bool) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	if hit {
		s.hitCount++
	} else {
		s.missCount++
	}
}

// Put stores body under key for ttl. A non-positive ttl is ignored.
func (s *Store) Put(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return cache.ErrStoreClosed
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO response_cache (hash, url, body, size, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO UPDATE SET
			body = excluded.body,
			size = excluded.size,
			expires_at = excluded.expires_at
	`, hashKey(key), key, body, len(body), s.now().Add(ttl).UnixNano())
	if err != nil {
		return fmt.Errorf("failed to cache response: %w", err)
	}
	return nil
}

// Prune removes expired entries.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, cache.ErrStoreClosed
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM response_cache WHERE expires_at <= ?
	`, s.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to prune cache: %w", err)
	}
	return result.RowsAffected()
}

// Stats returns statistics about the response cache.
func (s *Store) Stats(ctx context.Context) (cache.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return cache.Stats{}, cache.ErrStoreClosed
	}

	var stats cache.Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(size), 0) FROM response_cache
	`).Scan(&stats.TotalEntries, &stats.TotalSize)
	if err != nil {
		return stats, fmt.Errorf("failed to get cache stats: %w", err)
	}

	s.statsMu.Lock()
	stats.HitCount = s.hitCount
	stats.MissCount = s.missCount
	s.statsMu.Unlock()

	if stats.HitCount+stats.MissCount > 0 {
		stats.HitRate = float64(stats.HitCount) / float64(stats.HitCount+stats.MissCount)
	}
	return stats, nil
}

// Clear removes all cached responses.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return cache.ErrStoreClosed
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM response_cache"); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	s.statsMu.Lock()
	s.hitCount = 0
	s.missCount = 0
	s.statsMu.Unlock()
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

var _ cache.Store = (*Store)(nil)
