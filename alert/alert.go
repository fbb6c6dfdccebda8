// Copyright (c) 2025 BVK Chaitanya

package alert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TradingViewAlert is the payload posted by TradingView webhook alerts.
// Order and position sizes arrive as decimal strings (possibly with a
// trailing percent sign) and are validated without losing precision.
type TradingViewAlert struct {
	BotID string `json:"bot_id"`

	Ticker string `json:"ticker"`
	Action string `json:"action"`

	OrderSize    string `json:"order_size"`
	PositionSize string `json:"position_size"`

	Schema    string `json:"schema"`
	Timestamp string `json:"timestamp"`
}

func (v *TradingViewAlert) Check() error {
	if len(v.BotID) == 0 {
		return fmt.Errorf("bot_id cannot be empty")
	}
	if _, err := strconv.ParseUint(v.BotID, 10, 64); err != nil {
		return fmt.Errorf("bot_id %q is not a valid bot id: %v", v.BotID, err)
	}
	if len(v.Ticker) == 0 {
		return fmt.Errorf("ticker cannot be empty")
	}
	action := strings.ToLower(v.Action)
	if action != "buy" && action != "sell" {
		return fmt.Errorf("action must be buy or sell, got %q", v.Action)
	}
	if len(v.OrderSize) != 0 {
		if _, err := parseSize(v.OrderSize); err != nil {
			return fmt.Errorf("invalid order size %q: %v", v.OrderSize, err)
		}
	}
	if len(v.PositionSize) != 0 {
		if _, err := parseSize(v.PositionSize); err != nil {
			return fmt.Errorf("invalid position size %q: %v", v.PositionSize, err)
		}
	}
	return nil
}

// TargetBotID returns the bot id the alert addresses. Check must have
// succeeded.
func (v *TradingViewAlert) TargetBotID() uint64 {
	id, _ := strconv.ParseUint(v.BotID, 10, 64)
	return id
}

// Summary returns a short human-readable description for notifications.
func (v *TradingViewAlert) Summary() string {
	return fmt.Sprintf("%s %s (order %s, position %s)",
		strings.ToUpper(v.Ticker), strings.ToLower(v.Action), v.OrderSize, v.PositionSize)
}

// Fields returns the alert as a flat map for event publication.
func (v *TradingViewAlert) Fields() map[string]string {
	return map[string]string{
		"bot_id":        v.BotID,
		"ticker":        v.Ticker,
		"action":        strings.ToLower(v.Action),
		"order_size":    v.OrderSize,
		"position_size": v.PositionSize,
		"schema":        v.Schema,
		"timestamp":     v.Timestamp,
	}
}

func parseSize(s string) (decimal.Decimal, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("size cannot be negative")
	}
	return d, nil
}
