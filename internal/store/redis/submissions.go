package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/pnptools/internal/submission"
)

// DefaultSubmissionTTL is how long a stored submission record lives.
const DefaultSubmissionTTL = 30 * 24 * time.Hour

// Push stores rec and puts its ID at the head of the recent list.
func (s *Store) Push(ctx context.Context, rec submission.Record) error {
	if rec.ID == "" {
		return fmt.Errorf("submission record has no ID")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, SubmissionKey(rec.ID), data, DefaultSubmissionTTL)
	pipe.LPush(ctx, KeyRecentSubmissions, rec.ID)
	pipe.LTrim(ctx, KeyRecentSubmissions, 0, int64(s.recent-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save submission: %w", err)
	}
	return nil
}

// Recent returns up to n records, newest first. Expired records are
// skipped.
func (s *Store) Recent(ctx context.Context, n int) ([]submission.Record, error) {
	if n <= 0 || n > s.recent {
		n = s.recent
	}

	ids, err := s.client.LRange(ctx, KeyRecentSubmissions, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	if len(ids) == 0 {
		return []submission.Record{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, SubmissionKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get submissions: %w", err)
	}

	out := make([]submission.Record, 0, len(ids))
	for _, cmd := range cmds {
		data, err := cmd.Bytes()
		if err != nil {
			continue
		}
		var rec submission.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
