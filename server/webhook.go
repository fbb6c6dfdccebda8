// Copyright (c) 2025 BVK Chaitanya

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/bvk/xtrade/alert"
	"github.com/bvk/xtrade/api"
)

// serveWebhook accepts a TradingView alert, matches it to a bot and fans it
// out to the bot's notification listeners.
func (s *Server) serveWebhook(w http.ResponseWriter, r *http.Request) {
	if !s.webhookLimiter.Allow() {
		http.Error(w, "too many webhook requests", http.StatusTooManyRequests)
		return
	}

	at := time.Now()

	a := new(alert.TradingViewAlert)
	if err := json.NewDecoder(r.Body).Decode(a); err != nil {
		writeError(w, fmt.Errorf("could not decode webhook payload: %v: %w", err, os.ErrInvalid))
		return
	}
	if err := a.Check(); err != nil {
		writeError(w, fmt.Errorf("%v: %w", err, os.ErrInvalid))
		return
	}

	secret := r.URL.Query().Get("secret")
	if len(secret) == 0 {
		secret = r.Header.Get("X-Webhook-Secret")
	}

	if err := s.readLock(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	bot, err := s.store.GetBot(&api.BotGetRequest{BotID: a.TargetBotID()})
	if err != nil {
		s.mutex.RUnlock()
		writeError(w, err)
		return
	}
	s.mutex.RUnlock()

	if !webhookAuthorized(bot, secret) {
		http.Error(w, "webhook secret mismatch", http.StatusForbidden)
		return
	}

	s.publish(api.EventAlert, bot, nil, a.Fields())

	// Notify every service the bot has a listener for. TradingView listeners
	// only carry the outgoing alert template, so they are not notified back.
	// Deliveries run in the background; the webhook response does not wait
	// for the notification services.
	services := make(map[string]bool)
	for _, l := range bot.Listeners {
		if l.Service != alert.ServiceTradingView {
			services[l.Service] = true
		}
	}
	msg := a.Summary()
	s.cg.Go(func(ctx context.Context) {
		alert.Notify(ctx, s.notifiers, services, at, msg)
	})

	slog.Info("processed webhook alert", "bot", bot.ID, "summary", a.Summary())
	writeJSON(w, map[string]string{"status": "ok"})
}

// webhookAuthorized reports if the presented secret matches the bot's
// webhook secret or one of its listeners' secrets.
func webhookAuthorized(bot *api.BotView, secret string) bool {
	if len(bot.WebhookSecret) != 0 && bot.WebhookSecret == secret {
		return true
	}
	for _, l := range bot.Listeners {
		if len(l.Secret) != 0 && l.Secret == secret {
			return true
		}
	}
	return false
}
