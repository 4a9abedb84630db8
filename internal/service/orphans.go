package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/0xHy0kR1/LF-backend/internal/metrics"
)

const (
	// DefaultSweepBatchSize is the number of orphaned keys handled per sweep.
	DefaultSweepBatchSize = 100
	// DefaultSweepInterval is the time between sweeps.
	DefaultSweepInterval = 5 * time.Minute
)

// OrphanSweeper retries deletion of blobs whose cleanup failed during an item
// update, delete or rolled-back create.
type OrphanSweeper struct {
	queue     OrphanQueue
	blobs     BlobStore
	logger    *slog.Logger
	metrics   metrics.Recorder
	batchSize int64
	interval  time.Duration
	started   bool
}

// NewOrphanSweeper creates a sweeper. A non-positive interval uses DefaultSweepInterval.
func NewOrphanSweeper(queue OrphanQueue, blobs BlobStore, interval time.Duration, logger *slog.Logger, recorder metrics.Recorder) *OrphanSweeper {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &OrphanSweeper{
		queue:     queue,
		blobs:     blobs,
		logger:    logger.With("component", "service.orphan_sweeper"),
		metrics:   recorder,
		batchSize: DefaultSweepBatchSize,
		interval:  interval,
	}
}

// Run sweeps on every tick. Blocks until context is cancelled.
func (s *OrphanSweeper) Run(ctx context.Context) error {
	if s.started {
		return errors.New("sweeper already started")
	}
	s.started = true

	s.logger.Info("orphan sweeper started", "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("orphan sweeper stopping")
			return nil
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				s.logger.Error("sweep error", "error", err)
			}
		}
	}
}

// Sweep deletes one batch of queued blobs and returns how many were removed.
// Keys that still fail are queued again.
func (s *OrphanSweeper) Sweep(ctx context.Context) (int, error) {
	keys, err := s.queue.PopOrphans(ctx, s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("pop orphans: %w", err)
	}

	deleted := 0
	for _, key := range keys {
		if err := s.blobs.Delete(ctx, key); err != nil {
			s.metrics.IncOrphanSwept("failed")
			s.logger.Warn("orphan delete failed", "blob_key", key, "error", err)
			if qerr := s.queue.RecordOrphan(context.WithoutCancel(ctx), key); qerr != nil {
				s.logger.Error("orphan requeue failed", "blob_key", key, "error", qerr)
			}
			continue
		}
		deleted++
		s.metrics.IncOrphanSwept("deleted")
	}

	if len(keys) > 0 {
		s.logger.Info("orphans swept", "deleted", deleted, "failed", len(keys)-deleted)
	}

	if depth, err := s.queue.CountOrphans(ctx); err != nil {
		s.logger.Warn("orphan count failed", "error", err)
	} else {
		s.metrics.SetOrphanQueueDepth(depth)
	}
	return deleted, nil
}
