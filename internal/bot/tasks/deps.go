// Package tasks implements the bot's scheduled tasks and their registry.
package tasks

import (
	"context"
	"log/slog"

	"github.com/edgard/morningbot/internal/config"
	"github.com/edgard/morningbot/internal/notify"
)

// WeatherFetcher fetches the current weather report.
type WeatherFetcher interface {
	Weather(ctx context.Context) (string, error)
}

// Broadcaster sends a message to every known chat.
type Broadcaster interface {
	Broadcast(ctx context.Context, text string) notify.Result
}

// Snapshotter persists the store to disk.
type Snapshotter interface {
	Save() error
}

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Store    Snapshotter
	Weather  WeatherFetcher
	Notifier Broadcaster
}
