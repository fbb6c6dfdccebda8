// Copyright (c) 2025 BVK Chaitanya

// Package server implements the online mode. A single Server owns the bot
// catalog state; every api operation goes through a readers-writer guard
// with a bounded wait and every mutation is saved to the state file before
// it is acknowledged.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/bvk/xtrade/alert"
	"github.com/bvk/xtrade/api"
	"github.com/bvk/xtrade/ctxutil"
	"github.com/bvk/xtrade/statefile"
	"github.com/bvk/xtrade/store"
	"github.com/visvasity/topic"
	"golang.org/x/time/rate"
)

type Server struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
	wg     sync.WaitGroup

	// cg runs the background notification deliveries.
	cg ctxutil.CloseGroup

	opts Options

	// mutex guards the store. Writers are catalog mutations; readers are the
	// read-only api operations and the webhook handler.
	mutex sync.RWMutex
	store *store.Store

	events *topic.Topic[*api.Event]

	notifiers []alert.Notifier

	webhookLimiter *rate.Limiter
}

// New loads the state file and creates a server around it.
func New(opts *Options, notifiers []alert.Notifier) (_ *Server, status error) {
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()
	if err := opts.Check(); err != nil {
		return nil, err
	}

	state, err := statefile.Load(opts.StatePath)
	if err != nil {
		return nil, err
	}
	if opts.Config != nil {
		state.Config = opts.Config
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	defer func() {
		if status != nil {
			cancel(status)
		}
	}()

	s := &Server{
		ctx:            ctx,
		cancel:         cancel,
		opts:           *opts,
		store:          store.New(state),
		events:         topic.New[*api.Event](),
		notifiers:      notifiers,
		webhookLimiter: rate.NewLimiter(opts.WebhookRate, opts.WebhookBurst),
	}
	return s, nil
}

func (s *Server) Close() error {
	s.cancel(os.ErrClosed)
	s.events.Close()
	s.cg.Close()
	s.wg.Wait()
	return nil
}

// writeLock acquires the exclusive guard within the configured bound.
func (s *Server) writeLock(ctx context.Context) error {
	err := ctxutil.RetryTimeout(ctx, s.opts.LockRetryInterval, s.opts.LockWaitTimeout, func() error {
		if !s.mutex.TryLock() {
			return fmt.Errorf("state guard is busy")
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("could not acquire exclusive state guard: %w", context.DeadlineExceeded)
	}
	return nil
}

// readLock acquires the shared guard within the configured bound.
func (s *Server) readLock(ctx context.Context) error {
	err := ctxutil.RetryTimeout(ctx, s.opts.LockRetryInterval, s.opts.LockWaitTimeout, func() error {
		if !s.mutex.TryRLock() {
			return fmt.Errorf("state guard is busy")
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("could not acquire shared state guard: %w", context.DeadlineExceeded)
	}
	return nil
}

// publish sends a change event to the websocket subscribers. Sends never
// block; slow subscribers miss events.
func (s *Server) publish(etype api.EventType, bot *api.BotView, l *api.ListenerView, fields map[string]string) {
	s.events.Send(&api.Event{
		Type:     etype,
		Time:     time.Now().UTC(),
		Bot:      bot,
		Listener: l,
		Alert:    fields,
	})
}

// HandlerMap returns the api handlers keyed by their mux patterns.
func (s *Server) HandlerMap() map[string]http.Handler {
	return map[string]http.Handler{
		"POST " + api.BotsPath: handler(botAddRequest, s.doAddBot),
		"GET " + api.BotsPath:  handler(botListRequest, s.doListBots),

		"GET " + botPattern:    handler(botGetRequest, s.doGetBot),
		"PUT " + botPattern:    handler(botUpdateRequest, s.doUpdateBot),
		"DELETE " + botPattern: handler(botDeleteRequest, s.doDeleteBot),

		"POST " + listenersPattern:   handler(listenerAddRequest, s.doAddListener),
		"GET " + listenersPattern:    handler(listenerListRequest, s.doListListeners),
		"DELETE " + listenersPattern: handler(listenerDeleteAllRequest, s.doDeleteListeners),

		"GET " + listenerPattern:    handler(listenerGetRequest, s.doGetListener),
		"PUT " + listenerPattern:    handler(listenerUpdateRequest, s.doUpdateListener),
		"DELETE " + listenerPattern: handler(listenerDeleteRequest, s.doDeleteListener),

		"GET " + api.EventsPath: http.HandlerFunc(s.serveEvents),
	}
}

// WebhookHandlerMap returns the handlers served on the webhook listener,
// which runs on its own port when enabled.
func (s *Server) WebhookHandlerMap() map[string]http.Handler {
	return map[string]http.Handler{
		"POST /webhook": http.HandlerFunc(s.serveWebhook),
	}
}

// WebHandlerMap returns the handlers for the web client listener: the
// static files plus the events websocket for live updates.
func (s *Server) WebHandlerMap(staticDir string) map[string]http.Handler {
	return map[string]http.Handler{
		"/":                     http.FileServer(http.Dir(staticDir)),
		"GET " + api.EventsPath: http.HandlerFunc(s.serveEvents),
	}
}

const (
	botPattern       = "/bots/{id}"
	listenersPattern = "/bots/{id}/listeners"
	listenerPattern  = "/bots/{id}/listeners/{lid}"
)
