package handlers

import (
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Command describes a bot command for /help and the Telegram command menu.
type Command struct {
	Name        string
	Argument    string
	Description string
}

// Commands lists the supported commands in display order.
var Commands = []Command{
	{Name: "help", Description: "display this text."},
	{Name: "cat", Description: "get a random cat image"},
	{Name: "define", Argument: "word", Description: "get definition of the word"},
	{Name: "useless", Description: "get useless facts"},
	{Name: "raw", Argument: "url", Description: "get raw source of github file"},
	{Name: "weather", Description: "returns current weather status"},
	{Name: "dice", Description: "roll a dice"},
	{Name: "coin", Description: "toss a coin"},
	{Name: "todo", Argument: "task", Description: "add to todo list"},
	{Name: "list", Description: "show contents of todo list"},
}

// Descriptions renders the command list shown by /help.
func Descriptions() string {
	var sb strings.Builder
	sb.WriteString("These commands are supported:\n")
	for _, cmd := range Commands {
		if cmd.Argument != "" {
			fmt.Fprintf(&sb, "/%s %s - %s\n", cmd.Name, cmd.Argument, cmd.Description)
		} else {
			fmt.Fprintf(&sb, "/%s - %s\n", cmd.Name, cmd.Description)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RegisteredHandler represents a command handler with its middleware.
// When Match is set it decides routing and HandlerType, Pattern and
// MatchType are ignored.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
	Match       tgbot.MatchFunc
}

// MatchCommand returns a match func for /name at the start of a message.
// The /name@username form matches only when username is this bot's, as
// Telegram clients address commands in group chats.
func MatchCommand(name string, deps HandlerDeps) tgbot.MatchFunc {
	return func(update *models.Update) bool {
		if update.Message == nil {
			return false
		}
		command, target, ok := leadingCommand(update.Message)
		if !ok || command != name {
			return false
		}
		if target == "" {
			return true
		}
		botInfo := deps.Config.Telegram.BotInfo
		return botInfo != nil && strings.EqualFold(target, botInfo.Username)
	}
}

// leadingCommand splits the bot_command entity at offset 0 into the command
// name and the optional @username it is addressed to.
func leadingCommand(msg *models.Message) (command, target string, ok bool) {
	for _, e := range msg.Entities {
		if e.Type != models.MessageEntityTypeBotCommand || e.Offset != 0 {
			continue
		}
		// Offsets are UTF-16 units; a command is ASCII so they equal byte offsets.
		if e.Length < 2 || e.Length > len(msg.Text) {
			return "", "", false
		}
		command, target, _ = strings.Cut(msg.Text[1:e.Length], "@")
		return command, target, true
	}
	return "", "", false
}

// RegisterAllCommands returns every command handler keyed by its slash command.
// All of them run behind panic recovery and the chat registration middleware.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlerFuncs := map[string]tgbot.HandlerFunc{
		"start":   NewHelpHandler(deps),
		"help":    NewHelpHandler(deps),
		"cat":     NewCatHandler(deps),
		"define":  NewDefineHandler(deps),
		"useless": NewUselessHandler(deps),
		"raw":     NewRawHandler(deps),
		"weather": NewWeatherHandler(deps),
		"dice":    NewDiceHandler(deps),
		"coin":    NewCoinHandler(deps),
		"todo":    NewTodoHandler(deps),
		"list":    NewListHandler(deps),
	}

	middleware := []tgbot.Middleware{Recover(deps), RegisterChat(deps)}

	handlers := make(map[string]RegisteredHandler, len(handlerFuncs))
	for name, handler := range handlerFuncs {
		handlers["/"+name] = RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     name,
			Handler:     handler,
			Middleware:  middleware,
			MatchType:   tgbot.MatchTypeCommandStartOnly,
			Match:       MatchCommand(name, deps),
		}
	}
	return handlers
}
