package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewCatHandler returns a handler for the /cat command.
func NewCatHandler(deps HandlerDeps) bot.HandlerFunc {
	return catHandler{deps}.Handle
}

type catHandler struct {
	deps HandlerDeps
}

func (h catHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "cat")
	if !validMessage(ctx, log, update) {
		return
	}
	chatID := update.Message.Chat.ID

	imageURL, err := h.deps.Content.CatImageURL(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to fetch cat image", "error", err, "chat_id", chatID)
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.CatFailed, false)
		return
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: chatID,
		Photo:  &models.InputFileString{Data: imageURL},
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send cat image", "error", err, "chat_id", chatID, "url", imageURL)
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.CatFailed, false)
	}
}
