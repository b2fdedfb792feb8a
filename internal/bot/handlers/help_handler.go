package handlers

import (
	"context"
	"fmt"
	"html"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewHelpHandler returns a handler for the /help and /start commands.
func NewHelpHandler(deps HandlerDeps) bot.HandlerFunc {
	return helpHandler{deps}.Handle
}

// helpHandler processes the /help command using injected dependencies.
type helpHandler struct {
	deps HandlerDeps
}

func (h helpHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "help")
	if !validMessage(ctx, log, update) {
		return
	}

	firstName := "there"
	if from := update.Message.From; from != nil && from.FirstName != "" {
		firstName = from.FirstName
	}

	log.InfoContext(ctx, "Handling /help command", "chat_id", update.Message.Chat.ID)

	text := fmt.Sprintf(h.deps.Config.Messages.HelpFmt, html.EscapeString(firstName), html.EscapeString(Descriptions()))
	sendText(ctx, b, log, update.Message.Chat.ID, text, true)
}
