// Copyright (c) 2025 BVK Chaitanya

package store

import (
	"fmt"
	"os"
	"strings"

	"github.com/bvk/xtrade/api"
	"github.com/bvk/xtrade/models"
)

func (s *Store) findBot(id uint64) (*models.Bot, error) {
	bot, ok := s.state.Bots[models.Key(id)]
	if !ok {
		return nil, fmt.Errorf("bot %d not found: %w", id, os.ErrNotExist)
	}
	return bot, nil
}

// AddBot creates a new bot with a freshly assigned id. Bot ids come from a
// monotonic counter and are never reused, even after deletion.
func (s *Store) AddBot(req *api.BotAddRequest) (*api.BotView, error) {
	if err := req.Check(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, os.ErrInvalid)
	}

	id := s.state.NextBotID
	key := models.Key(id)
	if _, ok := s.state.Bots[key]; ok {
		return nil, fmt.Errorf("bot id %d is already in use: %w", id, os.ErrExist)
	}

	bot := &models.Bot{
		ID:             id,
		Name:           strings.TrimSpace(req.Name),
		Exchange:       strings.TrimSpace(req.Exchange),
		TradingFee:     req.TradingFee,
		WebhookSecret:  req.WebhookSecret,
		NextListenerID: 1,
		Listeners:      make(map[string]*models.Listener),
	}
	s.state.Bots[key] = bot
	s.state.NextBotID = id + 1

	s.markDirty(func() {
		delete(s.state.Bots, key)
		s.state.NextBotID = id
	})
	return bot.View(), nil
}

func (s *Store) GetBot(req *api.BotGetRequest) (*api.BotView, error) {
	bot, err := s.findBot(req.BotID)
	if err != nil {
		return nil, err
	}
	return bot.View(), nil
}

// ListBots returns bot views in ascending id order. Non-empty filter fields
// select bots whose name/exchange contain the filter as a substring.
func (s *Store) ListBots(req *api.BotListRequest) (*api.BotListResponse, error) {
	if req == nil {
		req = new(api.BotListRequest)
	}
	resp := &api.BotListResponse{Bots: []*api.BotView{}}
	for _, bot := range models.SortedBots(s.state) {
		if len(req.Name) != 0 && !strings.Contains(bot.Name, req.Name) {
			continue
		}
		if len(req.Exchange) != 0 && !strings.Contains(bot.Exchange, req.Exchange) {
			continue
		}
		resp.Bots = append(resp.Bots, bot.View())
	}
	return resp, nil
}

// UpdateBot applies a partial update. Validation happens before any field is
// touched, so a failed update never leaves a partially modified bot behind.
func (s *Store) UpdateBot(req *api.BotUpdateRequest) (*api.BotView, error) {
	if err := req.Check(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, os.ErrInvalid)
	}
	bot, err := s.findBot(req.BotID)
	if err != nil {
		return nil, err
	}

	undo := bot.Clone()
	if req.Name != nil {
		bot.Name = strings.TrimSpace(*req.Name)
	}
	if req.Exchange != nil {
		bot.Exchange = strings.TrimSpace(*req.Exchange)
	}
	if req.TradingFee != nil {
		bot.TradingFee = *req.TradingFee
	}
	if req.WebhookSecret != nil {
		bot.WebhookSecret = *req.WebhookSecret
	}

	s.markDirty(func() {
		s.state.Bots[models.Key(undo.ID)] = undo
	})
	return bot.View(), nil
}

// DeleteBot removes a bot and all of its listeners. The removed bot's view
// is returned for confirmation.
func (s *Store) DeleteBot(req *api.BotDeleteRequest) (*api.BotView, error) {
	bot, err := s.findBot(req.BotID)
	if err != nil {
		return nil, err
	}

	key := models.Key(bot.ID)
	delete(s.state.Bots, key)

	s.markDirty(func() {
		s.state.Bots[key] = bot
	})
	return bot.View(), nil
}
