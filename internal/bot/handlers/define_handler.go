package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewDefineHandler returns a handler for the /define command.
func NewDefineHandler(deps HandlerDeps) bot.HandlerFunc {
	return defineHandler{deps}.Handle
}

type defineHandler struct {
	deps HandlerDeps
}

func (h defineHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "define")
	if !validMessage(ctx, log, update) {
		return
	}
	chatID := update.Message.Chat.ID

	word := commandArgument(update.Message.Text)
	if word == "" {
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.DefineUsage, false)
		return
	}

	definitions, err := h.deps.Content.Define(ctx, word)
	if err != nil {
		log.WarnContext(ctx, "Failed to define word", "error", err, "word", word, "chat_id", chatID)
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.DefineFailed, false)
		return
	}

	sendText(ctx, b, log, chatID, strings.Join(definitions, "\n"), false)
}
