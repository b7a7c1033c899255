package services

import (
	"context"
	"fmt"
	"sync/atomic"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Notifier delivers back-office alerts.
type Notifier interface {
	Notify(ctx context.Context, text string)
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string) {}

// TelegramNotifier sends alerts to the admin chat. The chat can be preset
// or registered at runtime by sending /start to the bot.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID atomic.Int64
	log    *zap.Logger
}

func NewTelegramNotifier(token string, chatID int64, log *zap.Logger) (*TelegramNotifier, error) {
	return NewTelegramNotifierWithEndpoint(token, tgbotapi.APIEndpoint, chatID, log)
}

// NewTelegramNotifierWithEndpoint targets a non-default Bot API server.
func NewTelegramNotifierWithEndpoint(token, endpoint string, chatID int64, log *zap.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	n := &TelegramNotifier{bot: bot, log: log.Named("telegram")}
	n.chatID.Store(chatID)
	n.log.Info("bot authorized", zap.String("account", bot.Self.UserName))
	return n, nil
}

func (n *TelegramNotifier) ChatID() int64 { return n.chatID.Load() }

// Listen registers the admin chat on /start until ctx is done.
func (n *TelegramNotifier) Listen(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := n.bot.GetUpdatesChan(u)
	defer n.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			n.handleUpdate(update)
		}
	}
}

func (n *TelegramNotifier) handleUpdate(update tgbotapi.Update) {
	if update.Message == nil || !update.Message.IsCommand() {
		return
	}
	if update.Message.Command() != "start" {
		return
	}
	chatID := update.Message.Chat.ID
	n.chatID.Store(chatID)
	n.log.Info("admin chat registered", zap.Int64("chat_id", chatID))
	n.send(fmt.Sprintf("Bonjour ! Ce chat (%d) recevra désormais les alertes Lotto Happy.", chatID))
}

func (n *TelegramNotifier) Notify(_ context.Context, text string) {
	if n.chatID.Load() == 0 {
		n.log.Warn("admin chat unknown, dropping notification")
		return
	}
	n.send(text)
}

func (n *TelegramNotifier) send(text string) {
	msg := tgbotapi.NewMessage(n.chatID.Load(), text)
	if _, err := n.bot.Send(msg); err != nil {
		n.log.Error("send notification", zap.Error(err))
	}
}
