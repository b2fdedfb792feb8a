package tasks

import (
	"context"

	"github.com/edgard/morningbot/internal/config"
)

// ScheduledTaskFunc is the signature of every scheduled task.
// The context is canceled when the scheduler shuts down.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns the cron tasks keyed by the name used under
// scheduler.tasks in the configuration. The morning broadcast is not listed
// here because it runs on its own daily schedule.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := map[string]ScheduledTaskFunc{
		config.SnapshotTaskName: NewStoreSnapshotTask(deps),
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
