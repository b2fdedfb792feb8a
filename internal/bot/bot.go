// Package bot implements the bot lifecycle: the scheduler and the
// orchestrator that runs it alongside the Telegram listener.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tgbot "github.com/go-telegram/bot"
	"golang.org/x/sync/errgroup"

	"github.com/edgard/morningbot/internal/bot/tasks"
	"github.com/edgard/morningbot/internal/config"
)

// announceTimeout bounds the shutdown announcement, which runs after the
// parent context is already cancelled.
const announceTimeout = 10 * time.Second

// ErrSaveStore is returned by Run when the final store flush fails.
var ErrSaveStore = errors.New("failed to save store")

// Listener receives updates until its context is cancelled.
type Listener interface {
	Start(ctx context.Context)
}

var _ Listener = (*tgbot.Bot)(nil)

// Bot represents the main bot application and manages its components' lifecycle.
type Bot struct {
	logger    *slog.Logger
	cfg       *config.Config
	store     tasks.Snapshotter
	notifier  tasks.Broadcaster
	listener  Listener
	scheduler *Scheduler
}

// NewBot creates a new instance of the bot from its already constructed components.
func NewBot(
	logger *slog.Logger,
	cfg *config.Config,
	store tasks.Snapshotter,
	notifier tasks.Broadcaster,
	listener Listener,
	scheduler *Scheduler,
) *Bot {
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		cfg:       cfg,
		store:     store,
		notifier:  notifier,
		listener:  listener,
		scheduler: scheduler,
	}
}

// Run announces startup, then runs the Telegram listener and the scheduler
// until ctx is cancelled or one of them fails. On the way out it announces
// shutdown and flushes the store; a flush failure is returned wrapped in
// ErrSaveStore.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	res := b.notifier.Broadcast(ctx, b.cfg.Messages.Started)
	b.logger.Info("Startup announcement sent", "sent", res.Sent, "failed", res.Failed)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting Telegram bot listener...")

		b.listener.Start(gCtx)
		b.logger.Info("Telegram bot listener stopped.")

		if gCtx.Err() == nil {
			b.logger.Warn("Telegram bot listener stopped unexpectedly without context cancellation.")
			return fmt.Errorf("telegram listener stopped unexpectedly")
		}
		return nil
	})

	g.Go(func() error {
		b.logger.Info("Starting scheduler...")
		if err := b.scheduler.Start(); err != nil {
			b.logger.Error("Failed to start scheduler", "error", err)
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler...")

		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	b.logger.Info("Bot orchestrator running. Waiting for shutdown signal or error...")
	runErr := g.Wait()
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", runErr)
	}

	b.shutdown(ctx)

	if err := b.store.Save(); err != nil {
		b.logger.Error("Failed to save store", "error", err)
		return fmt.Errorf("%w: %w", ErrSaveStore, err)
	}
	b.logger.Info("Store saved")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}

// shutdown tells every known chat the bot is going away.
func (b *Bot) shutdown(ctx context.Context) {
	announceCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), announceTimeout)
	defer cancel()

	res := b.notifier.Broadcast(announceCtx, b.cfg.Messages.ShuttingDown)
	b.logger.Info("Shutdown announcement sent", "sent", res.Sent, "failed", res.Failed)
}
