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

type Delete struct {
	cmdutil.ClientFlags
}

func (c *Delete) Run(ctx context.Context, args []string) error {
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
	resp, err := transport.DeleteBot(ctx, &api.BotDeleteRequest{BotID: id})
	if err != nil {
		return err
	}
	jsdata, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Printf("%s\n", jsdata)
	return nil
}

func (c *Delete) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("delete-bot", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "delete-bot", fset, cli.CmdFunc(c.Run)
}

func (c *Delete) Purpose() string {
	return "Removes a bot and all its listeners"
}

func (c *Delete) Description() string {
	return `

Command "delete-bot" removes a bot from the catalog along with all of its
listeners. The bot's id is never reassigned to a later bot.

`
}
