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

type Add struct {
	cmdutil.ClientFlags

	name     string
	exchange string
	fee      float64
	secret   string
}

func (c *Add) Run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}

	transport, err := c.ClientFlags.Transport()
	if err != nil {
		return err
	}
	req := &api.BotAddRequest{
		Name:          c.name,
		Exchange:      c.exchange,
		TradingFee:    c.fee,
		WebhookSecret: c.secret,
	}
	resp, err := transport.AddBot(ctx, req)
	if err != nil {
		return err
	}
	jsdata, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Printf("%s\n", jsdata)
	return nil
}

func (c *Add) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("add-bot", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	fset.StringVar(&c.name, "name", "", "display name for the bot")
	fset.StringVar(&c.exchange, "exchange", "", "exchange the bot trades on")
	fset.Float64Var(&c.fee, "trading-fee", 0, "trading fee percentage for the exchange")
	fset.StringVar(&c.secret, "webhook-secret", "", "webhook secret (auto-generated when empty)")
	return "add-bot", fset, cli.CmdFunc(c.Run)
}

func (c *Add) Purpose() string {
	return "Creates a new trading bot"
}

func (c *Add) Description() string {
	return `

Command "add-bot" creates a new bot in the catalog. Bot ids are assigned by
the catalog, monotonically, and are never reused even after a bot is
deleted.

`
}
