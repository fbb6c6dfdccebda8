// Copyright (c) 2025 BVK Chaitanya

package api

import (
	"fmt"
	"strings"
)

// ListenerView is the serializable projection of a listener. Listener ids are
// only unique within their owning bot, so views always carry the bot id.
type ListenerView struct {
	ID    uint64 `json:"id"`
	BotID uint64 `json:"bot_id"`

	Service string `json:"service"`
	Secret  string `json:"secret,omitempty"`
	Msg     string `json:"msg,omitempty"`
}

type ListenerAddRequest struct {
	BotID uint64 `json:"bot_id"`

	Service string `json:"service"`

	// Secret is generated when empty. Msg defaults to the service's message
	// template when empty.
	Secret string `json:"secret,omitempty"`
	Msg    string `json:"msg,omitempty"`
}

func (r *ListenerAddRequest) Check() error {
	if len(strings.TrimSpace(r.Service)) == 0 {
		return fmt.Errorf("listener service cannot be empty")
	}
	return nil
}

type ListenerGetRequest struct {
	BotID      uint64 `json:"bot_id"`
	ListenerID uint64 `json:"listener_id"`
}

type ListenerListRequest struct {
	BotID uint64 `json:"bot_id"`

	// Service, when non-empty, selects listeners of that service alone.
	Service string `json:"service,omitempty"`
}

type ListenerListResponse struct {
	Listeners []*ListenerView `json:"listeners"`
}

type ListenerUpdateRequest struct {
	BotID      uint64 `json:"bot_id"`
	ListenerID uint64 `json:"listener_id"`

	Service *string `json:"service,omitempty"`
	Secret  *string `json:"secret,omitempty"`
	Msg     *string `json:"msg,omitempty"`
}

func (r *ListenerUpdateRequest) Check() error {
	if r.Service == nil && r.Secret == nil && r.Msg == nil {
		return fmt.Errorf("update request has no fields to update")
	}
	if r.Service != nil && len(strings.TrimSpace(*r.Service)) == 0 {
		return fmt.Errorf("listener service cannot be empty")
	}
	return nil
}

type ListenerDeleteRequest struct {
	BotID      uint64 `json:"bot_id"`
	ListenerID uint64 `json:"listener_id"`
}

// ListenerDeleteAllRequest removes all listeners of a bot, or only those
// matching the service filter when it is non-empty.
type ListenerDeleteAllRequest struct {
	BotID uint64 `json:"bot_id"`

	Service string `json:"service,omitempty"`
}

type ListenerDeleteAllResponse struct {
	NumRemoved int `json:"num_removed"`
}
