// Package cache keeps recent upstream responses in SQLite so pages can be
// served from disk while fresh, and from stale copies when an upstream fails.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/techdigest-vietnam/techdigest/internal/db"
)

// ErrNotFound is returned by Get when no entry exists for the key.
var ErrNotFound = errors.New("cache entry not found")

// Entry is one cached upstream response.
type Entry struct {
	ID          string
	Key         string
	Source      string
	ContentType string
	Body        []byte
	FetchedAt   time.Time
	Hits        int
}

// Age returns how long ago the entry was fetched relative to now.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt)
}

// Store provides CRUD operations for cached responses.
type Store struct {
	db  *db.DB
	ttl time.Duration
	now func() time.Time
}

// NewStore creates a Store. Entries younger than ttl are fresh.
func NewStore(d *db.DB, ttl time.Duration) *Store {
	return &Store{db: d, ttl: ttl, now: time.Now}
}

// TTL returns the freshness window.
func (s *Store) TTL() time.Duration { return s.ttl }

// Get returns the entry for key and whether it is still fresh.
func (s *Store) Get(ctx context.Context, key string) (*Entry, bool, error) {
	var e Entry
	var fetched int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, cache_key, source, content_type, body, fetched_at, hits
		 FROM response_cache WHERE cache_key = ?`, key,
	).Scan(&e.ID, &e.Key, &e.Source, &e.ContentType, &e.Body, &fetched, &e.Hits)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, ErrNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}
	e.FetchedAt = time.Unix(0, fetched)

	if _, err := s.db.ExecContext(ctx, `UPDATE response_cache SET hits = hits + 1 WHERE id = ?`, e.ID); err != nil {
		return nil, false, fmt.Errorf("updating cache hits: %w", err)
	}
	e.Hits++

	return &e, s.ttl > 0 && e.Age(s.now()) < s.ttl, nil
}

// Put stores body under key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key, source, contentType string, body []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO response_cache (id, cache_key, source, content_type, body, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET
		   source = excluded.source,
		   content_type = excluded.content_type,
		   body = excluded.body,
		   fetched_at = excluded.fetched_at`,
		uuid.New().String(), key, source, contentType, body, s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Purge deletes entries fetched more than olderThan ago and returns how many
// were removed.
func (s *Store) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan).UnixNano()
	res, err := s.db.ExecContext(ctx, `DELETE FROM response_cache WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging cache: %w", err)
	}
	return res.RowsAffected()
}

// SourceStats summarises cached entries for one upstream source.
type SourceStats struct {
	Source  string    `json:"source"`
	Entries int       `json:"entries"`
	Hits    int       `json:"hits"`
	Newest  time.Time `json:"newest"`
}

// Stats returns per-source counts, ordered by source name.
func (s *Store) Stats(ctx context.Context) ([]SourceStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, COUNT(*), COALESCE(SUM(hits), 0), MAX(fetched_at)
		 FROM response_cache GROUP BY source ORDER BY source`)
	if err != nil {
		return nil, fmt.Errorf("querying cache stats: %w", err)
	}
	defer rows.Close()

	var out []SourceStats
	for rows.Next() {
		var st SourceStats
		var newest int64
		if err := rows.Scan(&st.Source, &st.Entries, &st.Hits, &newest); err != nil {
			return nil, fmt.Errorf("scanning cache stats: %w", err)
		}
		st.Newest = time.Unix(0, newest)
		out = append(out, st)
	}
	return out, rows.Err()
}
