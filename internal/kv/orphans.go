package kv

import (
	"context"
	"fmt"
)

// orphanSetKey holds blob keys whose cleanup failed and must be retried.
const orphanSetKey = "blobs:orphaned"

// RecordOrphan queues a blob key for later deletion. Recording the same key twice is a no-op.
func (s *Store) RecordOrphan(ctx context.Context, key string) error {
	if err := s.client.SAdd(ctx, orphanSetKey, key).Err(); err != nil {
		return fmt.Errorf("record orphan %s: %w", key, err)
	}
	return nil
}

// PopOrphans removes and returns up to n queued blob keys.
func (s *Store) PopOrphans(ctx context.Context, n int64) ([]string, error) {
	keys, err := s.client.SPopN(ctx, orphanSetKey, n).Result()
	if err != nil {
		return nil, fmt.Errorf("pop orphans: %w", err)
	}
	return keys, nil
}

// CountOrphans returns how many blob keys are queued.
func (s *Store) CountOrphans(ctx context.Context) (int64, error) {
	n, err := s.client.SCard(ctx, orphanSetKey).Result()
	if err != nil {
		return 0, fmt.Errorf("count orphans: %w", err)
	}
	return n, nil
}
