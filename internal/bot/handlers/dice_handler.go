package handlers

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewDiceHandler returns a handler for the /dice command.
func NewDiceHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "dice")
		if !validMessage(ctx, log, update) {
			return
		}
		chatID := update.Message.Chat.ID

		if _, err := b.SendDice(ctx, &bot.SendDiceParams{ChatID: chatID}); err != nil {
			log.ErrorContext(ctx, "Failed to send dice", "error", err, "chat_id", chatID)
		}
	}
}

// NewCoinHandler returns a handler for the /coin command.
func NewCoinHandler(deps HandlerDeps) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		log := deps.Logger.With("handler", "coin")
		if !validMessage(ctx, log, update) {
			return
		}

		side := "Heads"
		if rand.IntN(2) == 1 {
			side = "Tails"
		}
		sendText(ctx, b, log, update.Message.Chat.ID, fmt.Sprintf(deps.Config.Messages.CoinFmt, side), false)
	}
}
