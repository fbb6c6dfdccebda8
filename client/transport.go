// Copyright (c) 2025 BVK Chaitanya

// Package client provides the two ways to execute catalog operations: the
// Local transport works directly on the state file and the Remote transport
// talks to a running server over REST, either on TCP or over the server's
// unix socket.
package client

import (
	"context"

	"github.com/bvk/xtrade/api"
)

// Transport executes catalog operations. Implementations must be safe for
// concurrent use.
type Transport interface {
	AddBot(ctx context.Context, req *api.BotAddRequest) (*api.BotView, error)
	GetBot(ctx context.Context, req *api.BotGetRequest) (*api.BotView, error)
	ListBots(ctx context.Context, req *api.BotListRequest) (*api.BotListResponse, error)
	UpdateBot(ctx context.Context, req *api.BotUpdateRequest) (*api.BotView, error)
	DeleteBot(ctx context.Context, req *api.BotDeleteRequest) (*api.BotView, error)

	AddListener(ctx context.Context, req *api.ListenerAddRequest) (*api.ListenerView, error)
	GetListener(ctx context.Context, req *api.ListenerGetRequest) (*api.ListenerView, error)
	ListListeners(ctx context.Context, req *api.ListenerListRequest) (*api.ListenerListResponse, error)
	UpdateListener(ctx context.Context, req *api.ListenerUpdateRequest) (*api.ListenerView, error)
	DeleteListener(ctx context.Context, req *api.ListenerDeleteRequest) (*api.ListenerView, error)
	DeleteListeners(ctx context.Context, req *api.ListenerDeleteAllRequest) (*api.ListenerDeleteAllResponse, error)
}
