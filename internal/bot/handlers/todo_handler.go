package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewTodoHandler returns a handler for the /todo command.
func NewTodoHandler(deps HandlerDeps) bot.HandlerFunc {
	return todoHandler{deps}.Handle
}

type todoHandler struct {
	deps HandlerDeps
}

func (h todoHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "todo")
	if !validMessage(ctx, log, update) {
		return
	}
	chatID := update.Message.Chat.ID

	task := commandArgument(update.Message.Text)
	if task == "" {
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.TodoUsage, false)
		return
	}

	log.InfoContext(ctx, "Adding task to todo list", "chat_id", chatID, "task", task)
	h.deps.Store.AddTask(chatID, task)

	sendText(ctx, b, log, chatID, fmt.Sprintf(h.deps.Config.Messages.TodoAddedFmt, html.EscapeString(task)), true)
}

// NewListHandler returns a handler for the /list command.
func NewListHandler(deps HandlerDeps) bot.HandlerFunc {
	return listHandler{deps}.Handle
}

type listHandler struct {
	deps HandlerDeps
}

func (h listHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "list")
	if !validMessage(ctx, log, update) {
		return
	}
	chatID := update.Message.Chat.ID

	tasks := h.deps.Store.Tasks(chatID)
	sendText(ctx, b, log, chatID, renderTodoList(h.deps.Config.Messages.ListHeader, tasks), true)
}

// renderTodoList renders tasks as a 1-indexed list under header.
func renderTodoList(header string, tasks []string) string {
	var sb strings.Builder
	sb.WriteString(header)
	for i, task := range tasks {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, html.EscapeString(task))
	}
	return sb.String()
}
