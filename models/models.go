// Copyright (c) 2025 BVK Chaitanya

// Package models defines the persisted value types for the application state
// file. These types map one-to-one to the JSON state file layout; all
// validation and mutation logic lives in the store package.
package models

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/bvk/xtrade/api"
	"github.com/bvk/xtrade/config"
)

// Listener is a filtered trigger attached to a bot. A listener cannot outlive
// its bot; BotID is a back-reference and never an ownership edge.
type Listener struct {
	ID    uint64 `json:"id"`
	BotID uint64 `json:"bot_id"`

	Service string `json:"service"`
	Secret  string `json:"secret,omitempty"`
	Msg     string `json:"msg,omitempty"`
}

// Bot is a trading venue profile. Bots are configuration records; they do not
// represent running processes.
type Bot struct {
	ID uint64 `json:"id"`

	Name     string `json:"name"`
	Exchange string `json:"exchange"`

	TradingFee float64 `json:"trading_fee"`

	WebhookSecret string `json:"webhook_secret,omitempty"`

	// NextListenerID is the id-assignment counter for this bot's listeners.
	// Listener ids are unique within the bot and are never reused.
	NextListenerID uint64 `json:"next_listener_id"`

	Listeners map[string]*Listener `json:"listeners,omitempty"`
}

// AppState is the root object of the state file. Bots are keyed by their
// decimal id string.
type AppState struct {
	Bots map[string]*Bot `json:"bots"`

	Config *config.Config `json:"config,omitempty"`

	// NextBotID is the bot id-assignment counter. Bot ids are never reused,
	// even after deletion, so the counter is persisted with the state.
	NextBotID uint64 `json:"next_bot_id"`
}

// Key returns the state-file map key for an entity id.
func Key(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func (v *Listener) Clone() *Listener {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func (v *Listener) View() *api.ListenerView {
	return &api.ListenerView{
		ID:      v.ID,
		BotID:   v.BotID,
		Service: v.Service,
		Secret:  v.Secret,
		Msg:     v.Msg,
	}
}

func (v *Bot) Clone() *Bot {
	if v == nil {
		return nil
	}
	c := *v
	c.Listeners = make(map[string]*Listener, len(v.Listeners))
	for k, l := range v.Listeners {
		c.Listeners[k] = l.Clone()
	}
	return &c
}

// View returns the serializable projection of the bot with listeners sorted
// by ascending id. Id-assignment counters are not part of the view.
func (v *Bot) View() *api.BotView {
	view := &api.BotView{
		ID:            v.ID,
		Name:          v.Name,
		Exchange:      v.Exchange,
		TradingFee:    v.TradingFee,
		WebhookSecret: v.WebhookSecret,
	}
	for _, l := range SortedListeners(v) {
		view.Listeners = append(view.Listeners, l.View())
	}
	return view
}

func (v *AppState) Clone() *AppState {
	if v == nil {
		return nil
	}
	c := &AppState{
		Bots:      make(map[string]*Bot, len(v.Bots)),
		Config:    v.Config,
		NextBotID: v.NextBotID,
	}
	for k, b := range v.Bots {
		c.Bots[k] = b.Clone()
	}
	return c
}

// Normalize prepares a freshly decoded state for use. Nil maps are allocated
// and missing id counters (state files written before counters existed) are
// derived as one past the largest live id.
func (v *AppState) Normalize() {
	if v.Bots == nil {
		v.Bots = make(map[string]*Bot)
	}
	for _, b := range v.Bots {
		if b.Listeners == nil {
			b.Listeners = make(map[string]*Listener)
		}
		if b.NextListenerID == 0 {
			for _, l := range b.Listeners {
				if l.ID >= b.NextListenerID {
					b.NextListenerID = l.ID + 1
				}
			}
			if b.NextListenerID == 0 {
				b.NextListenerID = 1
			}
		}
	}
	if v.NextBotID == 0 {
		for _, b := range v.Bots {
			if b.ID >= v.NextBotID {
				v.NextBotID = b.ID + 1
			}
		}
		if v.NextBotID == 0 {
			v.NextBotID = 1
		}
	}
}

// Check verifies the state invariants: map keys match entity ids, listener
// back-references point to their owning bot, counters are ahead of every
// live id and field constraints hold.
func (v *AppState) Check() error {
	for key, b := range v.Bots {
		if key != Key(b.ID) {
			return fmt.Errorf("bot map key %q does not match bot id %d", key, b.ID)
		}
		if b.ID >= v.NextBotID {
			return fmt.Errorf("bot id %d is not below the next-bot-id counter %d", b.ID, v.NextBotID)
		}
		if len(strings.TrimSpace(b.Name)) == 0 {
			return fmt.Errorf("bot %d has an empty name", b.ID)
		}
		if len(strings.TrimSpace(b.Exchange)) == 0 {
			return fmt.Errorf("bot %d has an empty exchange", b.ID)
		}
		if b.TradingFee < 0 {
			return fmt.Errorf("bot %d has a negative trading fee", b.ID)
		}
		for lkey, l := range b.Listeners {
			if lkey != Key(l.ID) {
				return fmt.Errorf("bot %d: listener map key %q does not match listener id %d", b.ID, lkey, l.ID)
			}
			if l.BotID != b.ID {
				return fmt.Errorf("bot %d: listener %d back-references bot %d", b.ID, l.ID, l.BotID)
			}
			if l.ID >= b.NextListenerID {
				return fmt.Errorf("bot %d: listener id %d is not below the next-listener-id counter %d", b.ID, l.ID, b.NextListenerID)
			}
			if len(strings.TrimSpace(l.Service)) == 0 {
				return fmt.Errorf("bot %d: listener %d has an empty service", b.ID, l.ID)
			}
		}
	}
	return nil
}

// Equal reports whether two states hold the same bots, listeners and config
// snapshot.
func (v *AppState) Equal(o *AppState) bool {
	if len(v.Bots) != len(o.Bots) {
		return false
	}
	if (v.Config == nil) != (o.Config == nil) {
		return false
	}
	if v.Config != nil && *v.Config != *o.Config {
		return false
	}
	for key, b := range v.Bots {
		ob, ok := o.Bots[key]
		if !ok {
			return false
		}
		if b.ID != ob.ID || b.Name != ob.Name || b.Exchange != ob.Exchange {
			return false
		}
		if b.TradingFee != ob.TradingFee || b.WebhookSecret != ob.WebhookSecret {
			return false
		}
		if b.NextListenerID != ob.NextListenerID {
			return false
		}
		if !maps.EqualFunc(b.Listeners, ob.Listeners, func(a, b *Listener) bool { return *a == *b }) {
			return false
		}
	}
	return true
}

// SortedBots returns the bots in ascending id order.
func SortedBots(v *AppState) []*Bot {
	bots := make([]*Bot, 0, len(v.Bots))
	for _, b := range v.Bots {
		bots = append(bots, b)
	}
	slices.SortFunc(bots, func(a, b *Bot) int { return cmp.Compare(a.ID, b.ID) })
	return bots
}

// SortedListeners returns a bot's listeners in ascending id order.
func SortedListeners(b *Bot) []*Listener {
	ls := make([]*Listener, 0, len(b.Listeners))
	for _, l := range b.Listeners {
		ls = append(ls, l)
	}
	slices.SortFunc(ls, func(a, b *Listener) int { return cmp.Compare(a.ID, b.ID) })
	return ls
}
