package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewUselessHandler returns a handler for the /useless command.
func NewUselessHandler(deps HandlerDeps) bot.HandlerFunc {
	return uselessHandler{deps}.Handle
}

type uselessHandler struct {
	deps HandlerDeps
}

func (h uselessHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "useless")
	if !validMessage(ctx, log, update) {
		return
	}
	chatID := update.Message.Chat.ID

	fact, err := h.deps.Content.UselessFact(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to fetch useless fact", "error", err, "chat_id", chatID)
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.UselessFailed, false)
		return
	}
	sendText(ctx, b, log, chatID, fact, false)
}
