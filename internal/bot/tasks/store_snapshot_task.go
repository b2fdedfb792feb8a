package tasks

import (
	"context"
	"fmt"
	"time"
)

// NewStoreSnapshotTask creates the task that flushes the store to disk, so a
// crash loses at most one schedule interval of todo items and registrations.
func NewStoreSnapshotTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "store_snapshot")

	return func(ctx context.Context) error {
		startTime := time.Now()

		if err := deps.Store.Save(); err != nil {
			log.ErrorContext(ctx, "Store snapshot failed", "error", err, "duration", time.Since(startTime))
			return fmt.Errorf("store snapshot failed: %w", err)
		}

		log.DebugContext(ctx, "Store snapshot written", "duration", time.Since(startTime))
		return nil
	}
}
