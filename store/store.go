// Copyright (c) 2025 BVK Chaitanya

// Package store implements the single source of truth for bots and
// listeners. Every read and mutation of the application state goes through a
// Store; adapters decide when the state is persisted and how concurrent
// access is guarded.
//
// Failures are classified with sentinel errors: os.ErrInvalid for malformed
// input, os.ErrNotExist for missing bots/listeners, os.ErrExist for id
// collisions and statefile.ErrPersistence for save failures.
package store

import (
	"github.com/bvk/xtrade/models"
	"github.com/bvk/xtrade/statefile"
)

// Store owns an AppState instance. Store itself performs no locking; the
// offline adapter runs single-threaded and the online adapter serializes
// access with its own guard.
type Store struct {
	state *models.AppState

	// dirty is set by every successful mutation and cleared by Commit.
	dirty bool

	// undo restores the pre-image of the last successful mutation. Only one
	// mutation is ever outstanding because adapters commit after each one.
	undo func()
}

// New creates a store over a loaded (normalized) application state.
func New(state *models.AppState) *Store {
	if state == nil {
		state = new(models.AppState)
	}
	state.Normalize()
	return &Store{state: state}
}

// State exposes the underlying application state for persistence and for
// read-only collaborators. Callers must not mutate it directly.
func (s *Store) State() *models.AppState {
	return s.state
}

func (s *Store) Dirty() bool {
	return s.dirty
}

// NumBots returns the number of live bots.
func (s *Store) NumBots() int {
	return len(s.state.Bots)
}

// Commit persists the state to fpath if the store is dirty. On a save
// failure the last mutation is rolled back and the persistence error is
// returned, so callers never observe a success whose mutation is not
// durable.
func (s *Store) Commit(fpath string) error {
	if !s.dirty {
		return nil
	}
	if err := statefile.Save(fpath, s.state); err != nil {
		s.Rollback()
		return err
	}
	s.dirty = false
	s.undo = nil
	return nil
}

// Rollback reverts the last uncommitted mutation, if any.
func (s *Store) Rollback() {
	if s.undo != nil {
		s.undo()
		s.undo = nil
	}
	s.dirty = false
}

func (s *Store) markDirty(undo func()) {
	s.dirty = true
	s.undo = undo
}
