package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/morningbot/internal/content"
)

// NewRawHandler returns a handler for the /raw command.
func NewRawHandler(deps HandlerDeps) bot.HandlerFunc {
	return rawHandler{deps}.Handle
}

type rawHandler struct {
	deps HandlerDeps
}

func (h rawHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "raw")
	if !validMessage(ctx, log, update) {
		return
	}
	chatID := update.Message.Chat.ID

	fileURL := commandArgument(update.Message.Text)
	if fileURL == "" {
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.RawUsage, false)
		return
	}
	sendText(ctx, b, log, chatID, content.RawURL(fileURL), false)
}
