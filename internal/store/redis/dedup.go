package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/pnptools/internal/domain"
	"github.com/MrSnakeDoc/pnptools/internal/submission"
)

// SyncDuplicates replaces both duplicate hashes with the keys of records.
// The first record wins when several share a key.
func (s *Store) SyncDuplicates(ctx context.Context, records []domain.Resource) error {
	links := make(map[string]any, len(records))
	pairs := make(map[string]any, len(records))
	for _, r := range records {
		if link := submission.NormalizeLink(r.Link); link != "" {
			if _, ok := links[link]; !ok {
				links[link] = r.Title
			}
		}
		if pair := submission.PairKey(r.Title, r.Category, s.normalizer); pair != "" {
			if _, ok := pairs[pair]; !ok {
				pairs[pair] = r.Title
			}
		}
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, KeyDedupLinks, KeyDedupPairs)
	if len(links) > 0 {
		pipe.HSet(ctx, KeyDedupLinks, links)
	}
	if len(pairs) > 0 {
		pipe.HSet(ctx, KeyDedupPairs, pairs)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to sync duplicate keys: %w", err)
	}
	return nil
}

// RememberResource adds r's keys without overwriting existing entries.
func (s *Store) RememberResource(ctx context.Context, r domain.Resource) error {
	pipe := s.client.Pipeline()
	if link := submission.NormalizeLink(r.Link); link != "" {
		pipe.HSetNX(ctx, KeyDedupLinks, link, r.Title)
	}
	if pair := submission.PairKey(r.Title, r.Category, s.normalizer); pair != "" {
		pipe.HSetNX(ctx, KeyDedupPairs, pair, r.Title)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remember resource: %w", err)
	}
	return nil
}

// FindDuplicate checks p against the shared keys. A nil result with a nil
// error means no duplicate.
func (s *Store) FindDuplicate(ctx context.Context, p submission.Payload) (*submission.DuplicateError, error) {
	if link := submission.NormalizeLink(p.Link); link != "" {
		existing, err := s.client.HGet(ctx, KeyDedupLinks, link).Result()
		switch {
		case err == nil:
			return &submission.DuplicateError{Reason: submission.ReasonSameLink, Existing: existing}, nil
		case !errors.Is(err, redis.Nil):
			return nil, fmt.Errorf("failed to look up link: %w", err)
		}
	}

	if pair := submission.PairKey(p.Title, p.Category, s.normalizer); pair != "" {
		existing, err := s.client.HGet(ctx, KeyDedupPairs, pair).Result()
		switch {
		case err == nil:
			return &submission.DuplicateError{Reason: submission.ReasonSameTitleAndCategory, Existing: existing}, nil
		case !errors.Is(err, redis.Nil):
			return nil, fmt.Errorf("failed to look up title and category: %w", err)
		}
	}
	return nil, nil
}
