package tasks

import (
	"context"
	"fmt"
	"time"
)

// NewMorningBroadcastTask creates the daily task that sends the weather
// greeting to every known chat. When the weather cannot be fetched the cycle
// is skipped and the error returned; nothing is broadcast.
func NewMorningBroadcastTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "morning_broadcast")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Sending morning greeting...")
		startTime := time.Now()

		weather, err := deps.Weather.Weather(ctx)
		if err != nil {
			log.ErrorContext(ctx, "Failed to fetch weather, skipping this cycle", "error", err)
			return fmt.Errorf("morning broadcast skipped: %w", err)
		}

		res := deps.Notifier.Broadcast(ctx, fmt.Sprintf(deps.Config.Messages.MorningFmt, weather))

		log.InfoContext(ctx, "Morning greeting sent",
			"sent", res.Sent,
			"failed", res.Failed,
			"duration", time.Since(startTime))
		return nil
	}
}
