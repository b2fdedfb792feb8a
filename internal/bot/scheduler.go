package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"github.com/edgard/morningbot/internal/bot/tasks"
	"github.com/edgard/morningbot/internal/config"
)

// MorningTaskName names the daily broadcast job.
const MorningTaskName = "morning_broadcast"

// ClockTime is a wall-clock time of day.
type ClockTime struct {
	Hour, Minute, Second int
}

// ParseClockTime parses an HH:MM:SS string.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse(time.TimeOnly, s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
}

// NextRun returns the next morning run: the calendar day after now, at the
// given time of day, in now's location. It is always the following day, even
// when today's run time has not passed yet.
func NextRun(now time.Time, at ClockTime) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, at.Hour, at.Minute, at.Second, 0, now.Location())
}

// Scheduler runs the daily morning broadcast and the configured cron tasks on gocron.
type Scheduler struct {
	scheduler gocron.Scheduler
	clock     clockwork.Clock
	location  *time.Location
	logger    *slog.Logger
	cfg       *config.SchedulerConfig
	taskMap   map[string]tasks.ScheduledTaskFunc
	morning   tasks.ScheduledTaskFunc
	nextRun   func(now time.Time) time.Time

	mu      sync.Mutex // protects running and cancel
	running bool
	cancel  context.CancelFunc
}

// NewScheduler creates a scheduler. clock drives both gocron and the
// morning run computation; pass clockwork.NewRealClock() in production.
func NewScheduler(
	logger *slog.Logger,
	cfg *config.SchedulerConfig,
	taskMap map[string]tasks.ScheduledTaskFunc,
	morning tasks.ScheduledTaskFunc,
	clock clockwork.Clock,
) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "scheduler")

	at, err := ParseClockTime(cfg.MorningTime)
	if err != nil {
		return nil, err
	}

	location := time.Local
	if cfg.Location != "" {
		location, err = time.LoadLocation(cfg.Location)
		if err != nil {
			return nil, fmt.Errorf("failed to load scheduler location: %w", err)
		}
	}

	s, err := gocron.NewScheduler(
		gocron.WithClock(clock),
		gocron.WithLocation(location),
		gocron.WithLogger(log.With("library", "gocron")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		clock:     clock,
		location:  location,
		logger:    log,
		cfg:       cfg,
		taskMap:   taskMap,
		morning:   morning,
		nextRun:   func(now time.Time) time.Time { return NextRun(now, at) },
	}, nil
}

// Start registers the morning job and every enabled cron task, then starts ticking.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	// Jobs get a context that Stop cancels before shutting gocron down.
	ctx, cancel := context.WithCancel(context.Background())

	if s.morning != nil {
		if err := s.scheduleMorning(ctx); err != nil {
			cancel()
			return err
		}
	}

	scheduledCount := 0
	for taskName, taskConfig := range s.cfg.Tasks {
		if !taskConfig.Enabled {
			s.logger.Debug("Skipping disabled task", "task_name", taskName)
			continue
		}

		taskFunc, exists := s.taskMap[taskName]
		if !exists {
			s.logger.Warn("Scheduled task configured but not found in registry, skipping", "task_name", taskName)
			continue
		}

		_, err := s.scheduler.NewJob(
			gocron.CronJob(taskConfig.Schedule, true),
			gocron.NewTask(s.runTask, ctx, taskName, taskFunc),
			gocron.WithName(taskName),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			s.logger.Error("Failed to schedule task", "task_name", taskName, "schedule", taskConfig.Schedule, "error", err)
			continue
		}

		s.logger.Info("Scheduled task", "task_name", taskName, "schedule", taskConfig.Schedule)
		scheduledCount++
	}

	s.scheduler.Start()
	s.running = true
	s.cancel = cancel
	s.logger.Info("Scheduler started", "cron_tasks_scheduled", scheduledCount)

	return nil
}

// Stop shuts gocron down, waiting for running jobs to complete.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		s.logger.Info("Scheduler is not running, nothing to stop.")
		return nil
	}

	s.cancel()
	err := s.scheduler.Shutdown()
	if err != nil {
		s.logger.Error("Error during scheduler shutdown", "error", err)
	} else {
		s.logger.Info("Scheduler stopped gracefully.")
	}

	s.running = false
	return err
}

// scheduleMorning registers a one-time job for the next morning run.
// The job re-registers itself once it has run.
func (s *Scheduler) scheduleMorning(ctx context.Context) error {
	now := s.clock.Now().In(s.location)
	next := s.nextRun(now)

	start := gocron.OneTimeJobStartDateTime(next)
	if !next.After(now) {
		start = gocron.OneTimeJobStartImmediately()
	}

	_, err := s.scheduler.NewJob(
		gocron.OneTimeJob(start),
		gocron.NewTask(s.runMorning, ctx),
		gocron.WithName(MorningTaskName),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule morning broadcast: %w", err)
	}

	s.logger.Info("Morning broadcast scheduled", "next_run", next, "in", next.Sub(now).Round(time.Second))
	return nil
}

func (s *Scheduler) runMorning(ctx context.Context) {
	s.runTask(ctx, MorningTaskName, s.morning)

	if ctx.Err() != nil {
		return
	}
	if err := s.scheduleMorning(ctx); err != nil {
		s.logger.Error("Failed to reschedule morning broadcast", "error", err)
	}
}

// runTask wraps a task with logging. Task errors are logged, never propagated.
func (s *Scheduler) runTask(ctx context.Context, name string, task tasks.ScheduledTaskFunc) {
	s.logger.Info("Running scheduled task", "task_name", name)
	startTime := time.Now()

	if err := task(ctx); err != nil {
		s.logger.Error("Scheduled task failed", "task_name", name, "error", err)
	}

	s.logger.Info("Finished scheduled task", "task_name", name, "duration", time.Since(startTime))
}
