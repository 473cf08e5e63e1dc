// Package sqlite contains SQLite implementations of secondary ports.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/backoffice/internal/clock"
)

// CacheStore implements secondary.Cache with SQLite.
type CacheStore struct {
	db    *sql.DB
	clock clock.Clock
}

// NewCacheStore creates a new SQLite cache store.
func NewCacheStore(db *sql.DB, clk clock.Clock) *CacheStore {
	return &CacheStore{db: db, clock: clk}
}

// Get returns a live entry.
func (s *CacheStore) Get(ctx context.Context, segment, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM cache_entries WHERE segment = ? AND key = ? AND (expires_at IS NULL OR expires_at > ?)",
		segment, key, s.now(),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cache entry %s/%s: %w", segment, key, err)
	}
	return value, true, nil
}

// Set stores an entry, replacing any existing one.
func (s *CacheStore) Set(ctx context.Context, segment, key string, value []byte, ttl time.Duration) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cache_entries (segment, key, value, expires_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(segment, key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at, created_at = CURRENT_TIMESTAMP`,
		segment, key, value, s.expiry(ttl),
	)
	if err != nil {
		return fmt.Errorf("failed to set cache entry %s/%s: %w", segment, key, err)
	}
	return nil
}

// SetIfAbsent stores an entry only when no live entry exists. The insert and
// the expiry check run as one statement.
func (s *CacheStore) SetIfAbsent(ctx context.Context, segment, key string, value []byte, ttl time.Duration) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO cache_entries (segment, key, value, expires_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(segment, key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at, created_at = CURRENT_TIMESTAMP
		WHERE cache_entries.expires_at IS NOT NULL AND cache_entries.expires_at <= ?`,
		segment, key, value, s.expiry(ttl), s.now(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to set cache entry %s/%s: %w", segment, key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n == 1, nil
}

// Delete removes an entry.
func (s *CacheStore) Delete(ctx context.Context, segment, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE segment = ? AND key = ?", segment, key)
	if err != nil {
		return fmt.Errorf("failed to delete cache entry %s/%s: %w", segment, key, err)
	}
	return nil
}

// PurgeExpired removes expired entries and returns how many went.
func (s *CacheStore) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE expires_at IS NOT NULL AND expires_at <= ?", s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	return res.RowsAffected()
}

// CountBySegment returns the number of live entries per segment.
func (s *CacheStore) CountBySegment(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT segment, COUNT(*) FROM cache_entries WHERE expires_at IS NULL OR expires_at > ? GROUP BY segment",
		s.now(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count cache entries: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var segment string
		var n int
		if err := rows.Scan(&segment, &n); err != nil {
			return nil, fmt.Errorf("failed to scan cache count: %w", err)
		}
		counts[segment] = n
	}
	return counts, rows.Err()
}

func (s *CacheStore) now() int64 {
	return s.clock.Now().UnixNano()
}

func (s *CacheStore) expiry(ttl time.Duration) sql.NullInt64 {
	if ttl <= 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: s.clock.Now().Add(ttl).UnixNano(), Valid: true}
}
