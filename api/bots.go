// Copyright (c) 2025 BVK Chaitanya

// Package api defines the request, response and view types for all bot and
// listener operations. The same types are used by the REST handlers, the IPC
// endpoint and the command-line clients, so that every access mode speaks the
// same contract.
package api

import (
	"fmt"
	"strings"
)

const (
	BotsPath      = "/bots"
	ListenersPath = "/listeners"
)

// BotView is the serializable projection of a bot. Internal id-assignment
// counters are never part of a view.
type BotView struct {
	ID uint64 `json:"id"`

	Name     string `json:"name"`
	Exchange string `json:"exchange"`

	TradingFee float64 `json:"trading_fee"`

	WebhookSecret string `json:"webhook_secret,omitempty"`

	Listeners []*ListenerView `json:"listeners,omitempty"`
}

type BotAddRequest struct {
	Name     string `json:"name"`
	Exchange string `json:"exchange"`

	TradingFee float64 `json:"trading_fee"`

	WebhookSecret string `json:"webhook_secret,omitempty"`
}

func (r *BotAddRequest) Check() error {
	if len(strings.TrimSpace(r.Name)) == 0 {
		return fmt.Errorf("bot name cannot be empty")
	}
	if len(strings.TrimSpace(r.Exchange)) == 0 {
		return fmt.Errorf("exchange name cannot be empty")
	}
	if r.TradingFee < 0 {
		return fmt.Errorf("trading fee cannot be negative")
	}
	return nil
}

type BotGetRequest struct {
	BotID uint64 `json:"bot_id"`
}

// BotListRequest filters are substring matches; zero values select all bots.
type BotListRequest struct {
	Name     string `json:"name,omitempty"`
	Exchange string `json:"exchange,omitempty"`
}

type BotListResponse struct {
	Bots []*BotView `json:"bots"`
}

// BotUpdateRequest carries partial updates. Nil fields are left unchanged;
// non-nil fields must satisfy the same constraints as BotAddRequest.
type BotUpdateRequest struct {
	BotID uint64 `json:"bot_id"`

	Name     *string `json:"name,omitempty"`
	Exchange *string `json:"exchange,omitempty"`

	TradingFee *float64 `json:"trading_fee,omitempty"`

	WebhookSecret *string `json:"webhook_secret,omitempty"`
}

func (r *BotUpdateRequest) Check() error {
	if r.Name == nil && r.Exchange == nil && r.TradingFee == nil && r.WebhookSecret == nil {
		return fmt.Errorf("update request has no fields to update")
	}
	if r.Name != nil && len(strings.TrimSpace(*r.Name)) == 0 {
		return fmt.Errorf("bot name cannot be empty")
	}
	if r.Exchange != nil && len(strings.TrimSpace(*r.Exchange)) == 0 {
		return fmt.Errorf("exchange name cannot be empty")
	}
	if r.TradingFee != nil && *r.TradingFee < 0 {
		return fmt.Errorf("trading fee cannot be negative")
	}
	return nil
}

type BotDeleteRequest struct {
	BotID uint64 `json:"bot_id"`
}
