// Copyright (c) 2025 BVK Chaitanya

package client

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bvk/xtrade/api"
)

func TestLocalOperationsShareTheStateFile(t *testing.T) {
	ctx := context.Background()
	statePath := filepath.Join(t.TempDir(), "state.json")

	// Each transport instance models a separate process invocation. Every
	// operation is a full load, mutate, save cycle, so a second invocation
	// must observe the first one's changes.
	t1, err := NewLocal(statePath)
	if err != nil {
		t.Fatal(err)
	}
	bot, err := t1.AddBot(ctx, &api.BotAddRequest{Name: "dca", Exchange: "coinbase"})
	if err != nil {
		t.Fatal(err)
	}

	t2, err := NewLocal(statePath)
	if err != nil {
		t.Fatal(err)
	}
	got, err := t2.GetBot(ctx, &api.BotGetRequest{BotID: bot.ID})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "dca" {
		t.Fatalf("second invocation does not see the first one's bot: %+v", got)
	}

	if _, err := t2.AddListener(ctx, &api.ListenerAddRequest{BotID: bot.ID, Service: "Telegram"}); err != nil {
		t.Fatal(err)
	}
	ls, err := t1.ListListeners(ctx, &api.ListenerListRequest{BotID: bot.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(ls.Listeners) != 1 {
		t.Fatalf("want 1 listener, got %d", len(ls.Listeners))
	}
}

func TestLocalErrorsAreClassified(t *testing.T) {
	ctx := context.Background()
	statePath := filepath.Join(t.TempDir(), "state.json")

	lt, err := NewLocal(statePath)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := lt.GetBot(ctx, &api.BotGetRequest{BotID: 1}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("want os.ErrNotExist, got %v", err)
	}
	if _, err := lt.AddBot(ctx, &api.BotAddRequest{Name: "", Exchange: "x"}); !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("want os.ErrInvalid, got %v", err)
	}
}

func TestLocalFailedOperationLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	statePath := filepath.Join(t.TempDir(), "state.json")

	lt, err := NewLocal(statePath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := lt.AddBot(ctx, &api.BotAddRequest{Name: "dca", Exchange: "coinbase"}); err != nil {
		t.Fatal(err)
	}
	if _, err := lt.UpdateBot(ctx, &api.BotUpdateRequest{BotID: 1}); !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("want os.ErrInvalid, got %v", err)
	}

	resp, err := lt.ListBots(ctx, &api.BotListRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Bots) != 1 || resp.Bots[0].Name != "dca" {
		t.Fatalf("failed update changed the state: %v", resp.Bots)
	}
}

func TestLocalReleasesTheLock(t *testing.T) {
	ctx := context.Background()
	statePath := filepath.Join(t.TempDir(), "state.json")

	lt, err := NewLocal(statePath)
	if err != nil {
		t.Fatal(err)
	}
	// If an operation leaked the file lock, the next ones would time out.
	for i := 0; i < 3; i++ {
		if _, err := lt.ListBots(ctx, &api.BotListRequest{}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := os.Stat(statePath + ".lock"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("lock file was left behind: %v", err)
	}
}

func TestNewLocalRequiresPath(t *testing.T) {
	if _, err := NewLocal(""); err == nil {
		t.Fatalf("empty state path was accepted")
	}
}

// Transport conformance.
var _ Transport = (*Local)(nil)
var _ Transport = (*Remote)(nil)
