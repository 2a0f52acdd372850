// Package notification delivers registration confirmations to a Telegram
// chat. Without a bot token it only logs what it would have sent.
package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts registration confirmations to a Telegram chat.
type TelegramNotifier struct {
	bot    sender
	chatID int64
	log    *slog.Logger
}

// NewTelegramNotifier connects to the bot API. An empty token yields a
// notifier that sends nothing.
func NewTelegramNotifier(token string, chatID int64, log *slog.Logger) (*TelegramNotifier, error) {
	if token == "" {
		log.Warn("telegram bot token is empty, notifications disabled")
		return &TelegramNotifier{chatID: chatID, log: log}, nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramNotifier{bot: bot, chatID: chatID, log: log}, nil
}

// NotifyRegistrationConfirmed sends the confirmation for reg. Failures are
// logged, never returned.
func (n *TelegramNotifier) NotifyRegistrationConfirmed(ctx context.Context, reg model.Registration, event model.Event) {
	text := fmt.Sprintf(
		"*Registration confirmed*\n\n"+"Event: %s\n"+"Date: %s, %s\n"+"Location: %s\n"+"Attendee: %s\n"+"Tickets: %d",
		escape(event.Title), event.Date, escape(event.Time), escape(event.Location),
		escape(reg.UserEmail), reg.TicketCount,
	)
	n.send(ctx, text)
}

func (n *TelegramNotifier) send(ctx context.Context, text string) {
	if n.bot == nil {
		n.log.Debug("notification skipped (bot disabled)", slog.String("text", text))
		return
	}

	if n.chatID == 0 {
		n.log.Debug("notification skipped (no chat_id)", slog.String("text", text))
		return
	}

	if err := ctx.Err(); err != nil {
		n.log.Debug("notification skipped (context cancelled)",
			slog.Int64("chat_id", n.chatID),
		)
		return
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.bot.Send(msg); err != nil {
		n.log.Error("failed to send telegram notification",
			slog.Int64("chat_id", n.chatID),
			slog.String("error", err.Error()),
		)
	}
}

// escape keeps user-supplied text from being parsed as Markdown entities.
func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}
