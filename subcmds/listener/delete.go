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

type Delete struct {
	cmdutil.ClientFlags
}

func (c *Delete) Run(ctx context.Context, args []string) error {
	botID, listenerID, err := parseIDArgs(args)
	if err != nil {
		return err
	}

	transport, err := c.ClientFlags.Transport()
	if err != nil {
		return err
	}
	req := &api.ListenerDeleteRequest{BotID: botID, ListenerID: listenerID}
	resp, err := transport.DeleteListener(ctx, req)
	if err != nil {
		return err
	}
	jsdata, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Printf("%s\n", jsdata)
	return nil
}

func (c *Delete) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("delete-listener", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "delete-listener", fset, cli.CmdFunc(c.Run)
}

func (c *Delete) Purpose() string {
	return "Removes a single listener from a bot"
}
