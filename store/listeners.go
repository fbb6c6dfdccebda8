// Copyright (c) 2025 BVK Chaitanya

package store

import (
	"fmt"
	"os"
	"strings"

	"github.com/bvk/xtrade/alert"
	"github.com/bvk/xtrade/api"
	"github.com/bvk/xtrade/models"
	"github.com/google/uuid"
)

func (s *Store) findListener(botID, listenerID uint64) (*models.Bot, *models.Listener, error) {
	bot, err := s.findBot(botID)
	if err != nil {
		return nil, nil, err
	}
	l, ok := bot.Listeners[models.Key(listenerID)]
	if !ok {
		return nil, nil, fmt.Errorf("listener %d not found in bot %d: %w", listenerID, botID, os.ErrNotExist)
	}
	return bot, l, nil
}

// AddListener attaches a listener to a bot. Listener ids come from the bot's
// own monotonic counter; a missing secret is generated and a missing message
// defaults to the service's webhook template.
func (s *Store) AddListener(req *api.ListenerAddRequest) (*api.ListenerView, error) {
	if err := req.Check(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, os.ErrInvalid)
	}
	bot, err := s.findBot(req.BotID)
	if err != nil {
		return nil, err
	}

	id := bot.NextListenerID
	key := models.Key(id)
	if _, ok := bot.Listeners[key]; ok {
		return nil, fmt.Errorf("listener id %d is already in use in bot %d: %w", id, bot.ID, os.ErrExist)
	}

	secret := req.Secret
	if len(secret) == 0 {
		secret = uuid.New().String()
	}
	msg := req.Msg
	if len(msg) == 0 {
		msg = alert.Render(alert.Template(req.Service), models.Key(bot.ID))
	}

	l := &models.Listener{
		ID:      id,
		BotID:   bot.ID,
		Service: strings.TrimSpace(req.Service),
		Secret:  secret,
		Msg:     msg,
	}
	bot.Listeners[key] = l
	bot.NextListenerID = id + 1

	s.markDirty(func() {
		delete(bot.Listeners, key)
		bot.NextListenerID = id
	})
	return l.View(), nil
}

func (s *Store) GetListener(req *api.ListenerGetRequest) (*api.ListenerView, error) {
	_, l, err := s.findListener(req.BotID, req.ListenerID)
	if err != nil {
		return nil, err
	}
	return l.View(), nil
}

// ListListeners returns a bot's listeners in ascending id order, optionally
// restricted to a single service.
func (s *Store) ListListeners(req *api.ListenerListRequest) (*api.ListenerListResponse, error) {
	bot, err := s.findBot(req.BotID)
	if err != nil {
		return nil, err
	}
	resp := &api.ListenerListResponse{Listeners: []*api.ListenerView{}}
	for _, l := range models.SortedListeners(bot) {
		if len(req.Service) != 0 && l.Service != req.Service {
			continue
		}
		resp.Listeners = append(resp.Listeners, l.View())
	}
	return resp, nil
}

func (s *Store) UpdateListener(req *api.ListenerUpdateRequest) (*api.ListenerView, error) {
	if err := req.Check(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, os.ErrInvalid)
	}
	bot, l, err := s.findListener(req.BotID, req.ListenerID)
	if err != nil {
		return nil, err
	}

	undo := l.Clone()
	if req.Service != nil {
		l.Service = strings.TrimSpace(*req.Service)
	}
	if req.Secret != nil {
		l.Secret = *req.Secret
	}
	if req.Msg != nil {
		l.Msg = *req.Msg
	}

	s.markDirty(func() {
		bot.Listeners[models.Key(undo.ID)] = undo
	})
	return l.View(), nil
}

func (s *Store) DeleteListener(req *api.ListenerDeleteRequest) (*api.ListenerView, error) {
	bot, l, err := s.findListener(req.BotID, req.ListenerID)
	if err != nil {
		return nil, err
	}

	key := models.Key(l.ID)
	delete(bot.Listeners, key)

	s.markDirty(func() {
		bot.Listeners[key] = l
	})
	return l.View(), nil
}

// DeleteListeners removes all of a bot's listeners matching the service
// filter (or all of them when the filter is empty) and returns the count.
func (s *Store) DeleteListeners(req *api.ListenerDeleteAllRequest) (*api.ListenerDeleteAllResponse, error) {
	bot, err := s.findBot(req.BotID)
	if err != nil {
		return nil, err
	}

	removed := make(map[string]*models.Listener)
	for key, l := range bot.Listeners {
		if len(req.Service) != 0 && l.Service != req.Service {
			continue
		}
		removed[key] = l
		delete(bot.Listeners, key)
	}
	if len(removed) > 0 {
		s.markDirty(func() {
			for key, l := range removed {
				bot.Listeners[key] = l
			}
		})
	}
	return &api.ListenerDeleteAllResponse{NumRemoved: len(removed)}, nil
}
