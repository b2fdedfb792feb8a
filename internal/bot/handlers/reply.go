package handlers

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// commandArgument returns the text following the leading /command (or /command@botname).
func commandArgument(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	idx := strings.IndexFunc(text, unicode.IsSpace)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(text[idx:])
}

// displayName picks the best available name for a greeting.
func displayName(user *models.User) string {
	switch {
	case user == nil:
		return "there"
	case user.Username != "":
		return user.Username
	case user.FirstName != "":
		return user.FirstName
	default:
		return "there"
	}
}

// sendText replies in the chat and logs delivery failures. HTML parse mode is
// used when html is true.
func sendText(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string, html bool) {
	params := &bot.SendMessageParams{ChatID: chatID, Text: text}
	if html {
		params.ParseMode = models.ParseModeHTML
	}
	if _, err := b.SendMessage(ctx, params); err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
	}
}

// validMessage reports whether update carries a message to respond to.
func validMessage(ctx context.Context, log *slog.Logger, update *models.Update) bool {
	if update.Message == nil {
		log.WarnContext(ctx, "Handler received update without message", "update_id", update.ID)
		return false
	}
	return true
}
