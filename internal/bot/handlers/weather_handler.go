package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewWeatherHandler returns a handler for the /weather command.
func NewWeatherHandler(deps HandlerDeps) bot.HandlerFunc {
	return weatherHandler{deps}.Handle
}

type weatherHandler struct {
	deps HandlerDeps
}

func (h weatherHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "weather")
	if !validMessage(ctx, log, update) {
		return
	}
	chatID := update.Message.Chat.ID

	weather, err := h.deps.Content.Weather(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to fetch weather", "error", err, "chat_id", chatID)
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.WeatherFailed, false)
		return
	}
	sendText(ctx, b, log, chatID, weather, false)
}
