// Copyright (c) 2025 BVK Chaitanya

package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/visvasity/topic"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The web client may be served from a different port than the api.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// serveEvents streams catalog change events to a websocket client till the
// client goes away or the server shuts down.
func (s *Server) serveEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("could not upgrade events request to websocket (ignored)", "err", err)
		return
	}
	defer conn.Close()

	receiver, err := topic.Subscribe(s.events, 0, false /* includeRecent */)
	if err != nil {
		slog.Warn("could not subscribe to the events topic (ignored)", "err", err)
		return
	}
	defer receiver.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	stopf := context.AfterFunc(ctx, receiver.Close)
	defer stopf()

	// Reads are discarded; the read loop only notices the peer closing.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for ctx.Err() == nil && s.ctx.Err() == nil {
		event, err := receiver.Receive()
		if err != nil {
			return
		}
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(event); err != nil {
			slog.Info("could not write event to websocket client", "err", err)
			return
		}
	}
}
