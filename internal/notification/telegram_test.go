package notification

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func testEvent() model.Event {
	return model.Event{
		ID:       "1",
		Title:    "Tech Conference 2024",
		Date:     model.MustDate("2024-06-15"),
		Time:     "09:00 AM - 05:00 PM",
		Location: "Convention Center, San Francisco",
		Price:    decimal.NewFromInt(299),
		Capacity: 500,
	}
}

func testRegistration() model.Registration {
	return model.Registration{
		ID:          "r1",
		EventID:     "1",
		EventTitle:  "Tech Conference 2024",
		UserEmail:   "user@example.com",
		TicketCount: 3,
		CreatedAt:   time.Now(),
	}
}

func TestTelegramNotifier_SendsConfirmation(t *testing.T) {
	bot := &fakeSender{}
	n := &TelegramNotifier{bot: bot, chatID: 42, log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	n.NotifyRegistrationConfirmed(context.Background(), testRegistration(), testEvent())

	require.Len(t, bot.sent, 1)
	msg := bot.sent[0]
	assert.EqualValues(t, 42, msg.ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdown, msg.ParseMode)
	assert.Contains(t, msg.Text, "Tech Conference 2024")
	assert.Contains(t, msg.Text, "2024-06-15")
	assert.Contains(t, msg.Text, "user@example.com")
	assert.Contains(t, msg.Text, "Tickets: 3")
}

func TestTelegramNotifier_EscapesMarkdown(t *testing.T) {
	bot := &fakeSender{}
	n := &TelegramNotifier{bot: bot, chatID: 42, log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	reg := testRegistration()
	reg.UserEmail = "john_doe@example.com"
	event := testEvent()
	event.Title = "Go *Live* [2024]"

	n.NotifyRegistrationConfirmed(context.Background(), reg, event)

	require.Len(t, bot.sent, 1)
	text := bot.sent[0].Text
	assert.Contains(t, text, `john\_doe@example.com`)
	assert.Contains(t, text, `Go \*Live\* \[2024]`)
	assert.True(t, strings.HasPrefix(text, "*Registration confirmed*"))
}

func TestTelegramNotifier_DisabledWithoutToken(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	n, err := NewTelegramNotifier("", 42, log)
	require.NoError(t, err)

	n.NotifyRegistrationConfirmed(context.Background(), testRegistration(), testEvent())

	assert.Contains(t, buf.String(), "notifications disabled")
	assert.Contains(t, buf.String(), "bot disabled")
}

func TestTelegramNotifier_SkipsWithoutChatID(t *testing.T) {
	bot := &fakeSender{}
	n := &TelegramNotifier{bot: bot, log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	n.NotifyRegistrationConfirmed(context.Background(), testRegistration(), testEvent())

	assert.Empty(t, bot.sent)
}

func TestTelegramNotifier_SkipsCancelledContext(t *testing.T) {
	bot := &fakeSender{}
	n := &TelegramNotifier{bot: bot, chatID: 42, log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n.NotifyRegistrationConfirmed(ctx, testRegistration(), testEvent())

	assert.Empty(t, bot.sent)
}

func TestTelegramNotifier_LogsSendFailure(t *testing.T) {
	var buf bytes.Buffer
	bot := &fakeSender{err: errors.New("telegram down")}
	n := &TelegramNotifier{bot: bot, chatID: 42, log: slog.New(slog.NewTextHandler(&buf, nil))}

	n.NotifyRegistrationConfirmed(context.Background(), testRegistration(), testEvent())

	assert.Len(t, bot.sent, 1)
	assert.Contains(t, buf.String(), "telegram down")
}
