// Package notify delivers one message to every chat known to the bot.
package notify

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/sync/errgroup"
)

// Sender sends a single Telegram message. *bot.Bot satisfies it.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Recipients lists the chats a broadcast goes to.
type Recipients interface {
	ChatIDs() []int64
}

// Result summarizes one broadcast.
type Result struct {
	Total  int
	Sent   int
	Failed int
}

// Notifier fans a message out to all recipients.
type Notifier struct {
	sender      Sender
	recipients  Recipients
	concurrency int
	logger      *slog.Logger
}

// New creates a Notifier sending at most concurrency messages at a time.
func New(sender Sender, recipients Recipients, concurrency int, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Notifier{
		sender:      sender,
		recipients:  recipients,
		concurrency: concurrency,
		logger:      logger.With("component", "notifier"),
	}
}

// Broadcast sends text to every known chat. The recipient list is a snapshot
// taken before any message is sent. A failed delivery is logged and counted;
// it never stops delivery to the remaining chats.
func (n *Notifier) Broadcast(ctx context.Context, text string) Result {
	chatIDs := n.recipients.ChatIDs()
	if len(chatIDs) == 0 {
		n.logger.InfoContext(ctx, "No known chats, skipping broadcast")
		return Result{}
	}

	startTime := time.Now()
	var sent, failed atomic.Int64

	var g errgroup.Group
	g.SetLimit(n.concurrency)
	for _, chatID := range chatIDs {
		g.Go(func() error {
			_, err := n.sender.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   text,
			})
			if err != nil {
				failed.Add(1)
				n.logger.WarnContext(ctx, "Failed to deliver broadcast", "chat_id", chatID, "error", err)
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	res := Result{Total: len(chatIDs), Sent: int(sent.Load()), Failed: int(failed.Load())}
	n.logger.InfoContext(ctx, "Broadcast finished",
		"total", res.Total,
		"sent", res.Sent,
		"failed", res.Failed,
		"duration", time.Since(startTime))
	return res
}
