// Copyright (c) 2025 BVK Chaitanya

package server

import (
	"fmt"
	"time"

	"github.com/bvk/xtrade/config"
	"golang.org/x/time/rate"
)

type Options struct {
	// StatePath holds the path to the state file. Mutations are saved here
	// before they are acknowledged.
	StatePath string

	// Config, when non-nil, is snapshotted into the state so saved state
	// files record the settings they were written under.
	Config *config.Config

	// LockWaitTimeout holds the maximum amount of time an operation waits for
	// the state guard before giving up with a timeout.
	LockWaitTimeout time.Duration

	// LockRetryInterval holds the polling interval while waiting for the
	// state guard.
	LockRetryInterval time.Duration

	// WebhookRate and WebhookBurst bound the rate of incoming webhook
	// requests.
	WebhookRate  rate.Limit
	WebhookBurst int
}

func (v *Options) setDefaults() {
	if v.LockWaitTimeout == 0 {
		v.LockWaitTimeout = 5 * time.Second
	}
	if v.LockRetryInterval == 0 {
		v.LockRetryInterval = 10 * time.Millisecond
	}
	if v.WebhookRate == 0 {
		v.WebhookRate = rate.Limit(10)
	}
	if v.WebhookBurst == 0 {
		v.WebhookBurst = 20
	}
}

func (v *Options) Check() error {
	if len(v.StatePath) == 0 {
		return fmt.Errorf("state file path cannot be empty")
	}
	return nil
}
