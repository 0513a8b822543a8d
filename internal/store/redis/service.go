// Package redis mirrors the duplicate index and the recent-submissions log
// into Redis so several instances serving the same catalog agree on them.
// The catalog file stays the source of truth.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/pnptools/internal/domain"
)

// Store handles Redis operations for duplicates and submissions.
type Store struct {
	client     *redis.Client
	normalizer *domain.Normalizer
	recent     int
}

// NewStore creates a store. recentLimit bounds the submissions log; a
// non-positive value keeps 100 entries.
func NewStore(client *redis.Client, n *domain.Normalizer, recentLimit int) *Store {
	if recentLimit <= 0 {
		recentLimit = 100
	}
	return &Store{client: client, normalizer: n, recent: recentLimit}
}

// Ping reports whether Redis answers.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
