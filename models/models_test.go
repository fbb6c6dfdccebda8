// Copyright (c) 2025 BVK Chaitanya

package models

import (
	"testing"

	"github.com/bvk/xtrade/config"
)

func testState() *AppState {
	return &AppState{
		Bots: map[string]*Bot{
			"1": {
				ID:             1,
				Name:           "dca",
				Exchange:       "coinbase",
				NextListenerID: 3,
				Listeners: map[string]*Listener{
					"1": {ID: 1, BotID: 1, Service: "Telegram"},
					"2": {ID: 2, BotID: 1, Service: "Pushover"},
				},
			},
			"3": {
				ID:             3,
				Name:           "grid",
				Exchange:       "coinex",
				NextListenerID: 1,
				Listeners:      map[string]*Listener{},
			},
		},
		NextBotID: 4,
	}
}

func TestNormalizeDerivesCounters(t *testing.T) {
	// A state file written before the counters existed has them at zero.
	state := testState()
	state.NextBotID = 0
	for _, b := range state.Bots {
		b.NextListenerID = 0
	}

	state.Normalize()
	if state.NextBotID != 4 {
		t.Fatalf("want next bot id 4, got %d", state.NextBotID)
	}
	if next := state.Bots["1"].NextListenerID; next != 3 {
		t.Fatalf("want next listener id 3, got %d", next)
	}
	if next := state.Bots["3"].NextListenerID; next != 1 {
		t.Fatalf("want next listener id 1 for listener-less bot, got %d", next)
	}
}

func TestNormalizeEmptyState(t *testing.T) {
	state := new(AppState)
	state.Normalize()
	if state.Bots == nil {
		t.Fatalf("bots map was not allocated")
	}
	if state.NextBotID != 1 {
		t.Fatalf("want next bot id 1, got %d", state.NextBotID)
	}
}

func TestCheck(t *testing.T) {
	if err := testState().Check(); err != nil {
		t.Fatal(err)
	}

	state := testState()
	state.Bots["2"] = state.Bots["1"]
	delete(state.Bots, "1")
	if err := state.Check(); err == nil {
		t.Fatalf("key/id mismatch was not detected")
	}

	state = testState()
	state.Bots["1"].Listeners["1"].BotID = 3
	if err := state.Check(); err == nil {
		t.Fatalf("broken listener back-reference was not detected")
	}

	state = testState()
	state.NextBotID = 2
	if err := state.Check(); err == nil {
		t.Fatalf("stale bot id counter was not detected")
	}

	state = testState()
	state.Bots["1"].Name = "  "
	if err := state.Check(); err == nil {
		t.Fatalf("blank bot name was not detected")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	state := testState()
	clone := state.Clone()
	if !clone.Equal(state) {
		t.Fatalf("clone differs from the original")
	}

	clone.Bots["1"].Name = "changed"
	clone.Bots["1"].Listeners["1"].Service = "Discord"
	if state.Bots["1"].Name != "dca" {
		t.Fatalf("clone shares bot storage with the original")
	}
	if state.Bots["1"].Listeners["1"].Service != "Telegram" {
		t.Fatalf("clone shares listener storage with the original")
	}
}

func TestEqual(t *testing.T) {
	a, b := testState(), testState()
	if !a.Equal(b) {
		t.Fatalf("identical states compare unequal")
	}

	b.Bots["1"].TradingFee = 1
	if a.Equal(b) {
		t.Fatalf("bot field difference was not detected")
	}

	b = testState()
	b.Bots["1"].Listeners["2"].Secret = "other"
	if a.Equal(b) {
		t.Fatalf("listener field difference was not detected")
	}

	b = testState()
	delete(b.Bots, "3")
	if a.Equal(b) {
		t.Fatalf("missing bot was not detected")
	}

	// Id-assignment counters are part of the persisted state and must be
	// compared too.
	b = testState()
	b.Bots["1"].NextListenerID = 99
	if a.Equal(b) {
		t.Fatalf("listener counter difference was not detected")
	}

	b = testState()
	b.Bots["1"].WebhookSecret = "other"
	if a.Equal(b) {
		t.Fatalf("webhook secret difference was not detected")
	}
}

func TestEqualConfigSnapshot(t *testing.T) {
	a, b := testState(), testState()
	a.Config = config.Default()
	if a.Equal(b) {
		t.Fatalf("missing config snapshot was not detected")
	}

	b.Config = config.Default()
	if !a.Equal(b) {
		t.Fatalf("identical config snapshots compare unequal")
	}

	b.Config = config.Default()
	b.Config.APIServer.Port = 9999
	if a.Equal(b) {
		t.Fatalf("config snapshot difference was not detected")
	}
}

func TestSortedOrder(t *testing.T) {
	state := testState()

	bots := SortedBots(state)
	if len(bots) != 2 || bots[0].ID != 1 || bots[1].ID != 3 {
		t.Fatalf("bots are not sorted by id: %v", bots)
	}

	ls := SortedListeners(state.Bots["1"])
	if len(ls) != 2 || ls[0].ID != 1 || ls[1].ID != 2 {
		t.Fatalf("listeners are not sorted by id: %v", ls)
	}
}

func TestBotViewHidesCounters(t *testing.T) {
	bot := testState().Bots["1"]
	view := bot.View()
	if view.ID != bot.ID || view.Name != bot.Name {
		t.Fatalf("view does not match the bot: %+v", view)
	}
	if len(view.Listeners) != 2 || view.Listeners[0].ID != 1 {
		t.Fatalf("view listeners are wrong: %v", view.Listeners)
	}
}
