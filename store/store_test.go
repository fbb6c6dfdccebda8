// Copyright (c) 2025 BVK Chaitanya

package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bvk/xtrade/api"
	"github.com/bvk/xtrade/statefile"
)

func addBot(t *testing.T, s *Store, name, exchange string) *api.BotView {
	t.Helper()
	v, err := s.AddBot(&api.BotAddRequest{Name: name, Exchange: exchange, TradingFee: 0.1})
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestAddBotAssignsMonotonicIDs(t *testing.T) {
	s := New(nil)

	for i, name := range []string{"dca", "grid", "scalper"} {
		v := addBot(t, s, name, "coinbase")
		if want := uint64(i + 1); v.ID != want {
			t.Fatalf("bot id: want %d, got %d", want, v.ID)
		}
	}
}

func TestBotIDsAreNeverReused(t *testing.T) {
	s := New(nil)
	addBot(t, s, "one", "coinbase")
	two := addBot(t, s, "two", "coinex")

	if _, err := s.DeleteBot(&api.BotDeleteRequest{BotID: two.ID}); err != nil {
		t.Fatal(err)
	}
	three := addBot(t, s, "three", "coinex")
	if three.ID != 3 {
		t.Fatalf("deleted id must not be reused: want 3, got %d", three.ID)
	}
}

func TestAddBotValidation(t *testing.T) {
	s := New(nil)

	if _, err := s.AddBot(&api.BotAddRequest{Name: "  ", Exchange: "coinbase"}); !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("blank name: want os.ErrInvalid, got %v", err)
	}
	if _, err := s.AddBot(&api.BotAddRequest{Name: "x", Exchange: ""}); !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("empty exchange: want os.ErrInvalid, got %v", err)
	}
	if _, err := s.AddBot(&api.BotAddRequest{Name: "x", Exchange: "coinbase", TradingFee: -1}); !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("negative fee: want os.ErrInvalid, got %v", err)
	}
	if s.Dirty() {
		t.Fatalf("failed adds must not dirty the store")
	}
}

func TestGetBotNotFound(t *testing.T) {
	s := New(nil)
	if _, err := s.GetBot(&api.BotGetRequest{BotID: 42}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("want os.ErrNotExist, got %v", err)
	}
}

func TestListBots(t *testing.T) {
	s := New(nil)
	addBot(t, s, "btc-dca", "coinbase")
	addBot(t, s, "eth-grid", "coinex")
	addBot(t, s, "btc-grid", "coinex")

	resp, err := s.ListBots(&api.BotListRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Bots) != 3 {
		t.Fatalf("want 3 bots, got %d", len(resp.Bots))
	}
	for i := 1; i < len(resp.Bots); i++ {
		if resp.Bots[i-1].ID >= resp.Bots[i].ID {
			t.Fatalf("bots are not in ascending id order: %d before %d", resp.Bots[i-1].ID, resp.Bots[i].ID)
		}
	}

	resp, err = s.ListBots(&api.BotListRequest{Name: "btc"})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Bots) != 2 {
		t.Fatalf("name filter: want 2 bots, got %d", len(resp.Bots))
	}

	resp, err = s.ListBots(&api.BotListRequest{Name: "btc", Exchange: "coinex"})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Bots) != 1 || resp.Bots[0].Name != "btc-grid" {
		t.Fatalf("combined filter: want only btc-grid, got %v", resp.Bots)
	}
}

func TestUpdateBot(t *testing.T) {
	s := New(nil)
	v := addBot(t, s, "dca", "coinbase")

	name := "dca-v2"
	updated, err := s.UpdateBot(&api.BotUpdateRequest{BotID: v.ID, Name: &name})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "dca-v2" || updated.Exchange != "coinbase" {
		t.Fatalf("partial update went wrong: %+v", updated)
	}

	// An invalid update must leave the bot untouched.
	blank := " "
	if _, err := s.UpdateBot(&api.BotUpdateRequest{BotID: v.ID, Name: &blank}); !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("want os.ErrInvalid, got %v", err)
	}
	got, err := s.GetBot(&api.BotGetRequest{BotID: v.ID})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "dca-v2" {
		t.Fatalf("failed update modified the bot: %+v", got)
	}

	if _, err := s.UpdateBot(&api.BotUpdateRequest{BotID: v.ID}); !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("update with no fields: want os.ErrInvalid, got %v", err)
	}
}

func TestDeleteBot(t *testing.T) {
	s := New(nil)
	v := addBot(t, s, "dca", "coinbase")

	removed, err := s.DeleteBot(&api.BotDeleteRequest{BotID: v.ID})
	if err != nil {
		t.Fatal(err)
	}
	if removed.ID != v.ID {
		t.Fatalf("delete returned wrong bot: %+v", removed)
	}
	if _, err := s.GetBot(&api.BotGetRequest{BotID: v.ID}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("want os.ErrNotExist after delete, got %v", err)
	}
	if _, err := s.DeleteBot(&api.BotDeleteRequest{BotID: v.ID}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("double delete: want os.ErrNotExist, got %v", err)
	}
}

func TestListenerLifecycle(t *testing.T) {
	s := New(nil)
	b := addBot(t, s, "dca", "coinbase")

	l1, err := s.AddListener(&api.ListenerAddRequest{BotID: b.ID, Service: "Telegram"})
	if err != nil {
		t.Fatal(err)
	}
	if l1.ID != 1 || l1.BotID != b.ID {
		t.Fatalf("unexpected listener ids: %+v", l1)
	}
	if len(l1.Secret) == 0 {
		t.Fatalf("listener secret was not generated")
	}
	if len(l1.Msg) == 0 {
		t.Fatalf("listener message template was not defaulted")
	}

	tv, err := s.AddListener(&api.ListenerAddRequest{BotID: b.ID, Service: "TradingView"})
	if err != nil {
		t.Fatal(err)
	}
	if tv.ID != 2 {
		t.Fatalf("listener id: want 2, got %d", tv.ID)
	}
	// TradingView default template carries the target bot id.
	if !strings.Contains(tv.Msg, `"bot_id": "1"`) {
		t.Fatalf("tradingview template target was not substituted: %q", tv.Msg)
	}

	if _, err := s.DeleteListener(&api.ListenerDeleteRequest{BotID: b.ID, ListenerID: l1.ID}); err != nil {
		t.Fatal(err)
	}
	l3, err := s.AddListener(&api.ListenerAddRequest{BotID: b.ID, Service: "Pushover"})
	if err != nil {
		t.Fatal(err)
	}
	if l3.ID != 3 {
		t.Fatalf("deleted listener id must not be reused: want 3, got %d", l3.ID)
	}

	// Listener counters are per bot.
	b2 := addBot(t, s, "grid", "coinex")
	l, err := s.AddListener(&api.ListenerAddRequest{BotID: b2.ID, Service: "Telegram"})
	if err != nil {
		t.Fatal(err)
	}
	if l.ID != 1 {
		t.Fatalf("second bot's first listener: want id 1, got %d", l.ID)
	}
}

func TestListenerErrors(t *testing.T) {
	s := New(nil)
	b := addBot(t, s, "dca", "coinbase")

	if _, err := s.AddListener(&api.ListenerAddRequest{BotID: 99, Service: "Telegram"}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing bot: want os.ErrNotExist, got %v", err)
	}
	if _, err := s.AddListener(&api.ListenerAddRequest{BotID: b.ID, Service: " "}); !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("blank service: want os.ErrInvalid, got %v", err)
	}
	if _, err := s.GetListener(&api.ListenerGetRequest{BotID: b.ID, ListenerID: 5}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing listener: want os.ErrNotExist, got %v", err)
	}
}

func TestDeleteListenersFiltered(t *testing.T) {
	s := New(nil)
	b := addBot(t, s, "dca", "coinbase")
	for _, service := range []string{"Telegram", "Telegram", "Pushover"} {
		if _, err := s.AddListener(&api.ListenerAddRequest{BotID: b.ID, Service: service}); err != nil {
			t.Fatal(err)
		}
	}

	resp, err := s.DeleteListeners(&api.ListenerDeleteAllRequest{BotID: b.ID, Service: "Telegram"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.NumRemoved != 2 {
		t.Fatalf("want 2 removed, got %d", resp.NumRemoved)
	}

	left, err := s.ListListeners(&api.ListenerListRequest{BotID: b.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(left.Listeners) != 1 || left.Listeners[0].Service != "Pushover" {
		t.Fatalf("want only the Pushover listener, got %v", left.Listeners)
	}

	resp, err = s.DeleteListeners(&api.ListenerDeleteAllRequest{BotID: b.ID})
	if err != nil {
		t.Fatal(err)
	}
	if resp.NumRemoved != 1 {
		t.Fatalf("want 1 removed, got %d", resp.NumRemoved)
	}
}

func TestCommitPersists(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "state.json")

	s := New(nil)
	addBot(t, s, "dca", "coinbase")
	if _, err := s.AddListener(&api.ListenerAddRequest{BotID: 1, Service: "Telegram"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Commit(fpath); err != nil {
		t.Fatal(err)
	}
	if s.Dirty() {
		t.Fatalf("store is still dirty after commit")
	}

	state, err := statefile.Load(fpath)
	if err != nil {
		t.Fatal(err)
	}
	if !state.Equal(s.State()) {
		t.Fatalf("reloaded state differs from committed state")
	}
	if state.NextBotID != 2 {
		t.Fatalf("bot id counter was not persisted: %d", state.NextBotID)
	}
}

func TestCommitFailureRollsBack(t *testing.T) {
	s := New(nil)
	addBot(t, s, "dca", "coinbase")

	// Saving into a missing directory must fail and roll the mutation back.
	fpath := filepath.Join(t.TempDir(), "no-such-dir", "state.json")
	err := s.Commit(fpath)
	if !errors.Is(err, statefile.ErrPersistence) {
		t.Fatalf("want ErrPersistence, got %v", err)
	}
	if s.NumBots() != 0 {
		t.Fatalf("mutation was not rolled back: %d bots", s.NumBots())
	}
	if s.Dirty() {
		t.Fatalf("store is still dirty after rollback")
	}

	// The counter rollback makes the next add reuse the same id, keeping ids
	// dense when nothing was ever committed.
	v := addBot(t, s, "dca", "coinbase")
	if v.ID != 1 {
		t.Fatalf("want id 1 after rollback, got %d", v.ID)
	}
}
