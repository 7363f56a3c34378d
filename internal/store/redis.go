package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oddsdeck/oddsdeck/pkg/models"
)

// ResultStore caches whole result sets per logical query in Redis so a
// restarted process can serve the last good snapshot before its first fetch
// completes.
type ResultStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewResultStore creates a store with the given TTL for cached sets.
func NewResultStore(rdb *redis.Client, ttl time.Duration) *ResultStore {
	return &ResultStore{rdb: rdb, ttl: ttl}
}

func resultKey(query string) string {
	return "oddsdeck:results:" + query
}

// Get returns the cached result set for a query, with found=false on miss
// or expiry.
func (s *ResultStore) Get(ctx context.Context, query string) ([]models.Event, bool, error) {
	data, err := s.rdb.Get(ctx, resultKey(query)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %q: %w", query, err)
	}

	var events []models.Event
	if err := json.Unmarshal(data, &events); err != nil {
		// Corrupt entries behave like a miss; the next Set overwrites.
		return nil, false, nil
	}
	return events, true, nil
}

// Set stores a result set under the query key.
func (s *ResultStore) Set(ctx context.Context, query string, events []models.Event) error {
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("marshal result set: %w", err)
	}
	if err := s.rdb.Set(ctx, resultKey(query), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", query, err)
	}
	return nil
}

// Ping reports connectivity, for health checks.
func (s *ResultStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
