// Copyright (c) 2025 BVK Chaitanya

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/bvk/xtrade/alert"
	"github.com/bvk/xtrade/api"
	"golang.org/x/time/rate"
)

func newWebhookMux(s *Server) *http.ServeMux {
	mux := http.NewServeMux()
	for pattern, h := range s.WebhookHandlerMap() {
		mux.Handle(pattern, h)
	}
	return mux
}

func postWebhook(t *testing.T, mux *http.ServeMux, target string, a *alert.TradingViewAlert) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(a); err != nil {
		t.Fatal(err)
	}
	r := httptest.NewRequest("POST", target, &buf)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func TestWebhook(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)
	mux := newWebhookMux(s)

	bot, err := s.doAddBot(ctx, &api.BotAddRequest{
		Name:          "dca",
		Exchange:      "coinbase",
		WebhookSecret: "bot-secret",
	})
	if err != nil {
		t.Fatal(err)
	}
	l, err := s.doAddListener(ctx, &api.ListenerAddRequest{BotID: bot.ID, Service: "Telegram"})
	if err != nil {
		t.Fatal(err)
	}

	a := &alert.TradingViewAlert{
		BotID:  "1",
		Ticker: "BTCUSD",
		Action: "buy",
	}

	// The bot's webhook secret authorizes through the query parameter.
	w := postWebhook(t, mux, "/webhook?secret=bot-secret", a)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body)
	}

	// A listener secret authorizes through the header.
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(a); err != nil {
		t.Fatal(err)
	}
	r := httptest.NewRequest("POST", "/webhook", &buf)
	r.Header.Set("X-Webhook-Secret", l.Secret)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body)
	}

	// Wrong or missing secrets are rejected.
	w = postWebhook(t, mux, "/webhook?secret=wrong", a)
	if w.Code != http.StatusForbidden {
		t.Fatalf("want 403, got %d: %s", w.Code, w.Body)
	}
	w = postWebhook(t, mux, "/webhook", a)
	if w.Code != http.StatusForbidden {
		t.Fatalf("want 403, got %d: %s", w.Code, w.Body)
	}
}

func TestWebhookValidation(t *testing.T) {
	s := newTestServer(t)
	mux := newWebhookMux(s)

	// Malformed payloads map to 400.
	r := httptest.NewRequest("POST", "/webhook", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d: %s", w.Code, w.Body)
	}

	rec := postWebhook(t, mux, "/webhook", &alert.TradingViewAlert{BotID: "1", Ticker: "BTCUSD", Action: "hold"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d: %s", rec.Code, rec.Body)
	}

	// Alerts addressed to missing bots map to 404.
	rec = postWebhook(t, mux, "/webhook", &alert.TradingViewAlert{BotID: "99", Ticker: "BTCUSD", Action: "buy"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d: %s", rec.Code, rec.Body)
	}
}

func TestWebhookRateLimit(t *testing.T) {
	opts := &Options{
		StatePath:    filepath.Join(t.TempDir(), "state.json"),
		WebhookRate:  rate.Every(time.Hour),
		WebhookBurst: 1,
	}
	s, err := New(opts, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	mux := newWebhookMux(s)

	a := &alert.TradingViewAlert{BotID: "99", Ticker: "BTCUSD", Action: "buy"}
	if w := postWebhook(t, mux, "/webhook", a); w.Code == http.StatusTooManyRequests {
		t.Fatalf("first webhook was rate limited")
	}
	if w := postWebhook(t, mux, "/webhook", a); w.Code != http.StatusTooManyRequests {
		t.Fatalf("want 429, got %d: %s", w.Code, w.Body)
	}
}
