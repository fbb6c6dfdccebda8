// Copyright (c) 2025 BVK Chaitanya

package bot

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/bvk/xtrade/api"
	"github.com/bvk/xtrade/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type List struct {
	cmdutil.ClientFlags

	name     string
	exchange string
}

func (c *List) Run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}

	transport, err := c.ClientFlags.Transport()
	if err != nil {
		return err
	}
	req := &api.BotListRequest{
		Name:     c.name,
		Exchange: c.exchange,
	}
	resp, err := transport.ListBots(ctx, req)
	if err != nil {
		return err
	}
	jsdata, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Printf("%s\n", jsdata)
	return nil
}

func (c *List) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("list-bots", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	fset.StringVar(&c.name, "name", "", "when non-empty, only bots whose name contains this substring")
	fset.StringVar(&c.exchange, "exchange", "", "when non-empty, only bots whose exchange contains this substring")
	return "list-bots", fset, cli.CmdFunc(c.Run)
}

func (c *List) Purpose() string {
	return "Prints bots in the catalog"
}
