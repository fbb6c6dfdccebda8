// Copyright (c) 2025 BVK Chaitanya

package api

import "time"

const EventsPath = "/events"

type EventType string

const (
	EventBotAdd         EventType = "bot-add"
	EventBotUpdate      EventType = "bot-update"
	EventBotDelete      EventType = "bot-delete"
	EventListenerAdd    EventType = "listener-add"
	EventListenerUpdate EventType = "listener-update"
	EventListenerDelete EventType = "listener-delete"
	EventAlert          EventType = "alert"
)

// Event describes a single state change or webhook alert. Events are
// published on the server's event topic and streamed to websocket clients.
type Event struct {
	Type EventType `json:"type"`

	Time time.Time `json:"time"`

	Bot      *BotView      `json:"bot,omitempty"`
	Listener *ListenerView `json:"listener,omitempty"`

	// Alert carries the raw webhook payload for alert events.
	Alert map[string]string `json:"alert,omitempty"`
}
