// Copyright (c) 2025 BVK Chaitanya

package listener

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"strconv"

	"github.com/bvk/xtrade/api"
	"github.com/bvk/xtrade/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type DeleteAll struct {
	cmdutil.ClientFlags

	service string
}

func (c *DeleteAll) Run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("this command takes one (bot-id) argument")
	}
	botID, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid bot id %q: %w", args[0], err)
	}

	transport, err := c.ClientFlags.Transport()
	if err != nil {
		return err
	}
	req := &api.ListenerDeleteAllRequest{
		BotID:   botID,
		Service: c.service,
	}
	resp, err := transport.DeleteListeners(ctx, req)
	if err != nil {
		return err
	}
	jsdata, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Printf("%s\n", jsdata)
	return nil
}

func (c *DeleteAll) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("delete-listeners", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	fset.StringVar(&c.service, "service", "", "when non-empty, only listeners for this service")
	return "delete-listeners", fset, cli.CmdFunc(c.Run)
}

func (c *DeleteAll) Purpose() string {
	return "Removes all (or one service's) listeners from a bot"
}
