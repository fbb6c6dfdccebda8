// Copyright (c) 2025 BVK Chaitanya

package listener

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/bvk/xtrade/api"
	"github.com/bvk/xtrade/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type Get struct {
	cmdutil.ClientFlags
}

func (c *Get) Run(ctx context.Context, args []string) error {
	botID, listenerID, err := parseIDArgs(args)
	if err != nil {
		return err
	}

	transport, err := c.ClientFlags.Transport()
	if err != nil {
		return err
	}
	req := &api.ListenerGetRequest{BotID: botID, ListenerID: listenerID}
	resp, err := transport.GetListener(ctx, req)
	if err != nil {
		return err
	}
	jsdata, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Printf("%s\n", jsdata)
	return nil
}

func (c *Get) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("get-listener", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "get-listener", fset, cli.CmdFunc(c.Run)
}

func (c *Get) Purpose() string {
	return "Prints a single listener of a bot"
}
