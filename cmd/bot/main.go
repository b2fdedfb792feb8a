// Package main contains the entrypoint for the morning bot.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/jonboulle/clockwork"

	"github.com/edgard/morningbot/internal/bot"
	"github.com/edgard/morningbot/internal/bot/handlers"
	"github.com/edgard/morningbot/internal/bot/tasks"
	"github.com/edgard/morningbot/internal/config"
	"github.com/edgard/morningbot/internal/content"
	"github.com/edgard/morningbot/internal/logger"
	"github.com/edgard/morningbot/internal/notify"
	"github.com/edgard/morningbot/internal/resilience"
	"github.com/edgard/morningbot/internal/store"
	"github.com/edgard/morningbot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires config, store, content clients, the Telegram bot and the
// scheduler, runs them until ctx is cancelled, and returns the exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	st := store.New(cfg.Store.TodoPath, cfg.Store.UsersPath, log)
	st.Load()

	contentClient := content.NewClient(content.Endpoints{
		CatURL:        cfg.Content.CatURL,
		DictionaryURL: cfg.Content.DictionaryURL,
		FactsURL:      cfg.Content.FactsURL,
		WeatherURL:    cfg.Content.WeatherURL,
	}, cfg.Content.Timeout, log, content.WithGuard(resilience.NewGuard(resilience.Policy{
		MaxAttempts: cfg.Content.RetryAttempts,
		MaxFailures: cfg.Content.BreakerFailures,
		OpenTimeout: cfg.Content.BreakerTimeout,
		Retryable:   content.Retryable,
	}, log)))

	hDeps := handlers.HandlerDeps{
		Logger:  log,
		Config:  cfg,
		Store:   st,
		Content: contentClient,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewDefaultHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}
	if err := telegram.SetCommands(ctx, tg, handlers.Commands); err != nil {
		log.Warn("Failed to publish command menu", "error", err)
	}

	notifier := notify.New(tg, st, cfg.Scheduler.BroadcastConcurrency, log)

	tDeps := tasks.TaskDeps{
		Logger:   log,
		Config:   cfg,
		Store:    st,
		Weather:  contentClient,
		Notifier: notifier,
	}
	sched, err := bot.NewScheduler(
		log,
		&cfg.Scheduler,
		tasks.RegisterAllTasks(tDeps),
		tasks.NewMorningBroadcastTask(tDeps),
		clockwork.NewRealClock(),
	)
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, cfg, st, notifier, tg, sched)

	log.Info("Starting bot...")
	if err := app.Run(ctx); err != nil {
		log.Error("Bot stopped due to error", "error", err)
		// Allow logs to flush before exiting on error
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}
