// Package handlers contains Telegram bot command handlers, the chat
// registration middleware, and their registration logic.
package handlers

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// RegisterChat creates a middleware that records every chat issuing a command.
// The first command from a chat adds it to the known chats and sends a one-time
// greeting before the command itself is handled.
func RegisterChat(deps HandlerDeps) tgbot.Middleware {
	log := deps.Logger.With("middleware", "RegisterChat")

	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if update.Message == nil {
				next(ctx, b, update)
				return
			}

			chatID := update.Message.Chat.ID
			if deps.Store.Register(chatID) {
				log.InfoContext(ctx, "Registered new chat", "chat_id", chatID)
				greeting := fmt.Sprintf(deps.Config.Messages.GreetingFmt, displayName(update.Message.From))
				sendText(ctx, b, log, chatID, greeting, false)
			}

			next(ctx, b, update)
		}
	}
}

// Recover creates a middleware that turns a handler panic into a logged error
// and a generic reply, keeping the update loop alive.
func Recover(deps HandlerDeps) tgbot.Middleware {
	log := deps.Logger.With("middleware", "Recover")

	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				log.ErrorContext(ctx, "Handler panicked", "panic", r, "update_id", update.ID)
				if update.Message != nil {
					sendText(ctx, b, log, update.Message.Chat.ID, deps.Config.Messages.GeneralError, false)
				}
			}()

			next(ctx, b, update)
		}
	}
}
