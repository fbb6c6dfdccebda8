// Copyright (c) 2025 BVK Chaitanya

package client

import (
	"context"
	"fmt"
	"time"

	"github.com/bvk/xtrade/api"
	"github.com/bvk/xtrade/ctxutil"
	"github.com/bvk/xtrade/statefile"
	"github.com/bvk/xtrade/store"
	"github.com/nightlyone/lockfile"
)

// Local executes each operation as its own load, mutate, save cycle against
// the state file. A lock file next to the state file serializes concurrent
// invocations so that two processes cannot overwrite each other's saves.
type Local struct {
	statePath string
	lockPath  string

	lockTimeout time.Duration
}

// NewLocal creates an offline transport for the given state file.
func NewLocal(statePath string) (*Local, error) {
	if len(statePath) == 0 {
		return nil, fmt.Errorf("state file path cannot be empty")
	}
	t := &Local{
		statePath:   statePath,
		lockPath:    statePath + ".lock",
		lockTimeout: 10 * time.Second,
	}
	return t, nil
}

// withStore runs one operation under the file lock and saves the state back
// when the operation reports a change.
func (t *Local) withStore(ctx context.Context, op func(s *store.Store) error) error {
	flock, err := lockfile.New(t.lockPath)
	if err != nil {
		return fmt.Errorf("could not create lock file %q: %v: %w", t.lockPath, err, statefile.ErrPersistence)
	}
	if err := ctxutil.RetryTimeout(ctx, 100*time.Millisecond, t.lockTimeout, flock.TryLock); err != nil {
		return fmt.Errorf("could not get lock on file %q: %v: %w", t.lockPath, err, context.DeadlineExceeded)
	}
	defer flock.Unlock()

	state, err := statefile.Load(t.statePath)
	if err != nil {
		return err
	}
	s := store.New(state)
	if err := op(s); err != nil {
		return err
	}
	return s.Commit(t.statePath)
}

func run[RESP any](ctx context.Context, t *Local, op func(s *store.Store) (*RESP, error)) (*RESP, error) {
	var resp *RESP
	err := t.withStore(ctx, func(s *store.Store) error {
		v, err := op(s)
		if err != nil {
			return err
		}
		resp = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (t *Local) AddBot(ctx context.Context, req *api.BotAddRequest) (*api.BotView, error) {
	return run(ctx, t, func(s *store.Store) (*api.BotView, error) {
		return s.AddBot(req)
	})
}

func (t *Local) GetBot(ctx context.Context, req *api.BotGetRequest) (*api.BotView, error) {
	return run(ctx, t, func(s *store.Store) (*api.BotView, error) {
		return s.GetBot(req)
	})
}

func (t *Local) ListBots(ctx context.Context, req *api.BotListRequest) (*api.BotListResponse, error) {
	return run(ctx, t, func(s *store.Store) (*api.BotListResponse, error) {
		return s.ListBots(req)
	})
}

func (t *Local) UpdateBot(ctx context.Context, req *api.BotUpdateRequest) (*api.BotView, error) {
	return run(ctx, t, func(s *store.Store) (*api.BotView, error) {
		return s.UpdateBot(req)
	})
}

func (t *Local) DeleteBot(ctx context.Context, req *api.BotDeleteRequest) (*api.BotView, error) {
	return run(ctx, t, func(s *store.Store) (*api.BotView, error) {
		return s.DeleteBot(req)
	})
}

func (t *Local) AddListener(ctx context.Context, req *api.ListenerAddRequest) (*api.ListenerView, error) {
	return run(ctx, t, func(s *store.Store) (*api.ListenerView, error) {
		return s.AddListener(req)
	})
}

func (t *Local) GetListener(ctx context.Context, req *api.ListenerGetRequest) (*api.ListenerView, error) {
	return run(ctx, t, func(s *store.Store) (*api.ListenerView, error) {
		return s.GetListener(req)
	})
}

func (t *Local) ListListeners(ctx context.Context, req *api.ListenerListRequest) (*api.ListenerListResponse, error) {
	return run(ctx, t, func(s *store.Store) (*api.ListenerListResponse, error) {
		return s.ListListeners(req)
	})
}

func (t *Local) UpdateListener(ctx context.Context, req *api.ListenerUpdateRequest) (*api.ListenerView, error) {
	return run(ctx, t, func(s *store.Store) (*api.ListenerView, error) {
		return s.UpdateListener(req)
	})
}

func (t *Local) DeleteListener(ctx context.Context, req *api.ListenerDeleteRequest) (*api.ListenerView, error) {
	return run(ctx, t, func(s *store.Store) (*api.ListenerView, error) {
		return s.DeleteListener(req)
	})
}

func (t *Local) DeleteListeners(ctx context.Context, req *api.ListenerDeleteAllRequest) (*api.ListenerDeleteAllResponse, error) {
	return run(ctx, t, func(s *store.Store) (*api.ListenerDeleteAllResponse, error) {
		return s.DeleteListeners(req)
	})
}
