// Copyright (c) 2025 BVK Chaitanya

package server

import (
	"context"

	"github.com/bvk/xtrade/api"
)

func (s *Server) doAddBot(ctx context.Context, req *api.BotAddRequest) (*api.BotView, error) {
	if err := s.writeLock(ctx); err != nil {
		return nil, err
	}
	defer s.mutex.Unlock()

	v, err := s.store.AddBot(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.Commit(s.opts.StatePath); err != nil {
		return nil, err
	}
	s.publish(api.EventBotAdd, v, nil, nil)
	return v, nil
}

func (s *Server) doGetBot(ctx context.Context, req *api.BotGetRequest) (*api.BotView, error) {
	if err := s.readLock(ctx); err != nil {
		return nil, err
	}
	defer s.mutex.RUnlock()

	return s.store.GetBot(req)
}

func (s *Server) doListBots(ctx context.Context, req *api.BotListRequest) (*api.BotListResponse, error) {
	if err := s.readLock(ctx); err != nil {
		return nil, err
	}
	defer s.mutex.RUnlock()

	return s.store.ListBots(req)
}

func (s *Server) doUpdateBot(ctx context.Context, req *api.BotUpdateRequest) (*api.BotView, error) {
	if err := s.writeLock(ctx); err != nil {
		return nil, err
	}
	defer s.mutex.Unlock()

	v, err := s.store.UpdateBot(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.Commit(s.opts.StatePath); err != nil {
		return nil, err
	}
	s.publish(api.EventBotUpdate, v, nil, nil)
	return v, nil
}

func (s *Server) doDeleteBot(ctx context.Context, req *api.BotDeleteRequest) (*api.BotView, error) {
	if err := s.writeLock(ctx); err != nil {
		return nil, err
	}
	defer s.mutex.Unlock()

	v, err := s.store.DeleteBot(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.Commit(s.opts.StatePath); err != nil {
		return nil, err
	}
	s.publish(api.EventBotDelete, v, nil, nil)
	return v, nil
}
