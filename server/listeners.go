// Copyright (c) 2025 BVK Chaitanya

package server

import (
	"context"

	"github.com/bvk/xtrade/api"
)

func (s *Server) doAddListener(ctx context.Context, req *api.ListenerAddRequest) (*api.ListenerView, error) {
	if err := s.writeLock(ctx); err != nil {
		return nil, err
	}
	defer s.mutex.Unlock()

	v, err := s.store.AddListener(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.Commit(s.opts.StatePath); err != nil {
		return nil, err
	}
	s.publish(api.EventListenerAdd, nil, v, nil)
	return v, nil
}

func (s *Server) doGetListener(ctx context.Context, req *api.ListenerGetRequest) (*api.ListenerView, error) {
	if err := s.readLock(ctx); err != nil {
		return nil, err
	}
	defer s.mutex.RUnlock()

	return s.store.GetListener(req)
}

func (s *Server) doListListeners(ctx context.Context, req *api.ListenerListRequest) (*api.ListenerListResponse, error) {
	if err := s.readLock(ctx); err != nil {
		return nil, err
	}
	defer s.mutex.RUnlock()

	return s.store.ListListeners(req)
}

func (s *Server) doUpdateListener(ctx context.Context, req *api.ListenerUpdateRequest) (*api.ListenerView, error) {
	if err := s.writeLock(ctx); err != nil {
		return nil, err
	}
	defer s.mutex.Unlock()

	v, err := s.store.UpdateListener(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.Commit(s.opts.StatePath); err != nil {
		return nil, err
	}
	s.publish(api.EventListenerUpdate, nil, v, nil)
	return v, nil
}

func (s *Server) doDeleteListener(ctx context.Context, req *api.ListenerDeleteRequest) (*api.ListenerView, error) {
	if err := s.writeLock(ctx); err != nil {
		return nil, err
	}
	defer s.mutex.Unlock()

	v, err := s.store.DeleteListener(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.Commit(s.opts.StatePath); err != nil {
		return nil, err
	}
	s.publish(api.EventListenerDelete, nil, v, nil)
	return v, nil
}

func (s *Server) doDeleteListeners(ctx context.Context, req *api.ListenerDeleteAllRequest) (*api.ListenerDeleteAllResponse, error) {
	if err := s.writeLock(ctx); err != nil {
		return nil, err
	}
	defer s.mutex.Unlock()

	resp, err := s.store.DeleteListeners(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.Commit(s.opts.StatePath); err != nil {
		return nil, err
	}
	if resp.NumRemoved > 0 {
		s.publish(api.EventListenerDelete, nil, nil, nil)
	}
	return resp, nil
}
