// Copyright (c) 2025 BVK Chaitanya

package bot

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

type Get struct {
	cmdutil.ClientFlags
}

func (c *Get) Run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("this command takes one (bot-id) argument")
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid bot id %q: %w", args[0], err)
	}

	transport, err := c.ClientFlags.Transport()
	if err != nil {
		return err
	}
	resp, err := transport.GetBot(ctx, &api.BotGetRequest{BotID: id})
	if err != nil {
		return err
	}
	jsdata, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Printf("%s\n", jsdata)
	return nil
}

func (c *Get) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("get-bot", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "get-bot", fset, cli.CmdFunc(c.Run)
}

func (c *Get) Purpose() string {
	return "Prints a single bot with its listeners"
}
