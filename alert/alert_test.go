// Copyright (c) 2025 BVK Chaitanya

package alert

import (
	"strings"
	"testing"
)

func validAlert() *TradingViewAlert {
	return &TradingViewAlert{
		BotID:        "12",
		Ticker:       "BTCUSD",
		Action:       "buy",
		OrderSize:    "100%",
		PositionSize: "0.5",
		Schema:       "2",
		Timestamp:    "2025-06-01T12:00:00Z",
	}
}

func TestAlertCheck(t *testing.T) {
	if err := validAlert().Check(); err != nil {
		t.Fatal(err)
	}

	a := validAlert()
	a.BotID = ""
	if err := a.Check(); err == nil {
		t.Fatalf("empty bot_id was not detected")
	}

	a = validAlert()
	a.BotID = "abc"
	if err := a.Check(); err == nil {
		t.Fatalf("non-numeric bot_id was not detected")
	}

	a = validAlert()
	a.Ticker = ""
	if err := a.Check(); err == nil {
		t.Fatalf("empty ticker was not detected")
	}

	a = validAlert()
	a.Action = "hold"
	if err := a.Check(); err == nil {
		t.Fatalf("unknown action was not detected")
	}

	// Action matching is case-insensitive.
	a = validAlert()
	a.Action = "SELL"
	if err := a.Check(); err != nil {
		t.Fatal(err)
	}

	a = validAlert()
	a.OrderSize = "lots"
	if err := a.Check(); err == nil {
		t.Fatalf("unparseable order size was not detected")
	}

	a = validAlert()
	a.PositionSize = "-1"
	if err := a.Check(); err == nil {
		t.Fatalf("negative position size was not detected")
	}

	// Sizes are optional.
	a = validAlert()
	a.OrderSize, a.PositionSize = "", ""
	if err := a.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestTargetBotID(t *testing.T) {
	a := validAlert()
	if id := a.TargetBotID(); id != 12 {
		t.Fatalf("want bot id 12, got %d", id)
	}
}

func TestParseSize(t *testing.T) {
	for _, s := range []string{"100%", "0.5", " 25 ", "0", "33.333%"} {
		if _, err := parseSize(s); err != nil {
			t.Fatalf("size %q: %v", s, err)
		}
	}
	for _, s := range []string{"", "abc", "-5", "-5%"} {
		if _, err := parseSize(s); err == nil {
			t.Fatalf("size %q was accepted", s)
		}
	}
}

func TestFields(t *testing.T) {
	fields := validAlert().Fields()
	if fields["bot_id"] != "12" || fields["ticker"] != "BTCUSD" {
		t.Fatalf("wrong alert fields: %v", fields)
	}
	if fields["action"] != "buy" {
		t.Fatalf("action was not normalized: %q", fields["action"])
	}
}

func TestTemplate(t *testing.T) {
	for _, service := range []string{ServiceTradingView, ServiceTelegram, ServicePushover, ServiceDiscord, ServiceSlack} {
		if len(Template(service)) == 0 {
			t.Fatalf("service %q has no template", service)
		}
	}
	if len(Template("unknown-service")) == 0 {
		t.Fatalf("unknown services must get the generic template")
	}
}

func TestRender(t *testing.T) {
	msg := Render(Template(ServiceTradingView), "7")
	if !strings.Contains(msg, `"bot_id": "7"`) {
		t.Fatalf("target was not substituted: %q", msg)
	}
	if strings.Contains(msg, "{{target}}") {
		t.Fatalf("target placeholder survived rendering: %q", msg)
	}
	// Other placeholders are left for the alerting service to fill in.
	if !strings.Contains(msg, "{{ticker}}") {
		t.Fatalf("non-target placeholders must be preserved: %q", msg)
	}
}
