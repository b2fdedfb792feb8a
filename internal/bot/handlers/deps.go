package handlers

import (
	"context"
	"log/slog"

	"github.com/edgard/morningbot/internal/config"
	"github.com/edgard/morningbot/internal/store"
)

// ContentClient fetches content for the fun commands.
type ContentClient interface {
	CatImageURL(ctx context.Context) (string, error)
	Define(ctx context.Context, word string) ([]string, error)
	UselessFact(ctx context.Context) (string, error)
	Weather(ctx context.Context) (string, error)
}

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger  *slog.Logger
	Config  *config.Config
	Store   *store.Store
	Content ContentClient
}
