// Copyright (c) 2025 BVK Chaitanya

package listener

import (
	"fmt"
	"strconv"
)

func parseIDArgs(args []string) (botID, listenerID uint64, err error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("this command takes two (bot-id, listener-id) arguments")
	}
	botID, err = strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid bot id %q: %w", args[0], err)
	}
	listenerID, err = strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid listener id %q: %w", args[1], err)
	}
	return botID, listenerID, nil
}
