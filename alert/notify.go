// Copyright (c) 2025 BVK Chaitanya

package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/bvk/xtrade/pushover"
	"github.com/go-telegram/bot"
)

// Notifier delivers a short alert message to one notification service.
type Notifier interface {
	ServiceName() string
	SendMessage(ctx context.Context, at time.Time, msg string) error
}

// Secrets holds the notification service credentials. The secrets file is
// JSON with one optional section per service.
type Secrets struct {
	Pushover *pushover.Keys   `json:"pushover"`
	Telegram *TelegramSecrets `json:"telegram"`
}

func SecretsFromFile(fpath string) (*Secrets, error) {
	data, err := os.ReadFile(fpath)
	if err != nil {
		return nil, err
	}
	s := new(Secrets)
	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (v *Secrets) Check() error {
	if v.Telegram != nil {
		if err := v.Telegram.Check(); err != nil {
			return err
		}
	}
	if v.Pushover != nil {
		if err := v.Pushover.Check(); err != nil {
			return err
		}
	}
	return nil
}

// Notifiers creates one notifier per configured service.
func (v *Secrets) Notifiers() (ns []Notifier, status error) {
	if v == nil {
		return nil, nil
	}
	if v.Telegram != nil {
		n, err := NewTelegramNotifier(v.Telegram)
		if err != nil {
			return nil, err
		}
		ns = append(ns, n)
	}
	if v.Pushover != nil {
		c, err := pushover.New(v.Pushover)
		if err != nil {
			return nil, err
		}
		ns = append(ns, &pushoverNotifier{c})
	}
	return ns, nil
}

// Notify fans an alert message out to the matching notifiers. Delivery
// failures are logged and do not fail the webhook request.
func Notify(ctx context.Context, ns []Notifier, services map[string]bool, at time.Time, msg string) {
	for _, n := range ns {
		if !services[n.ServiceName()] {
			continue
		}
		if err := n.SendMessage(ctx, at, msg); err != nil {
			slog.Error("could not deliver alert notification (ignored)", "service", n.ServiceName(), "err", err)
		}
	}
}

type TelegramSecrets struct {
	BotToken string `json:"token"`
	ChatID   int64  `json:"chat_id"`
}

func (v *TelegramSecrets) Check() error {
	if len(v.BotToken) == 0 {
		return fmt.Errorf("bot token cannot be empty")
	}
	if v.ChatID == 0 {
		return fmt.Errorf("chat id cannot be zero")
	}
	return nil
}

type telegramNotifier struct {
	bot    *bot.Bot
	chatID int64
}

func NewTelegramNotifier(secrets *TelegramSecrets) (Notifier, error) {
	if err := secrets.Check(); err != nil {
		return nil, err
	}
	b, err := bot.New(secrets.BotToken)
	if err != nil {
		return nil, err
	}
	return &telegramNotifier{bot: b, chatID: secrets.ChatID}, nil
}

func (n *telegramNotifier) ServiceName() string { return ServiceTelegram }

func (n *telegramNotifier) SendMessage(ctx context.Context, at time.Time, msg string) error {
	m := &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   at.Format("2006-01-02 15:04:05 MST") + " " + msg,
	}
	if _, err := n.bot.SendMessage(ctx, m); err != nil {
		return fmt.Errorf("could not send telegram message: %w", err)
	}
	return nil
}

type pushoverNotifier struct {
	client *pushover.Client
}

func (n *pushoverNotifier) ServiceName() string { return ServicePushover }

func (n *pushoverNotifier) SendMessage(ctx context.Context, at time.Time, msg string) error {
	return n.client.SendMessage(ctx, at, msg)
}
