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

type Update struct {
	cmdutil.ClientFlags

	fset *flag.FlagSet

	name     string
	exchange string
	fee      float64
	secret   string
}

func (c *Update) Run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("this command takes one (bot-id) argument")
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid bot id %q: %w", args[0], err)
	}

	// Only flags the user has passed become updates; the other fields keep
	// their current values.
	req := &api.BotUpdateRequest{BotID: id}
	c.fset.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			req.Name = &c.name
		case "exchange":
			req.Exchange = &c.exchange
		case "trading-fee":
			req.TradingFee = &c.fee
		case "webhook-secret":
			req.WebhookSecret = &c.secret
		}
	})

	transport, err := c.ClientFlags.Transport()
	if err != nil {
		return err
	}
	resp, err := transport.UpdateBot(ctx, req)
	if err != nil {
		return err
	}
	jsdata, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Printf("%s\n", jsdata)
	return nil
}

func (c *Update) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("update-bot", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	fset.StringVar(&c.name, "name", "", "new display name for the bot")
	fset.StringVar(&c.exchange, "exchange", "", "new exchange for the bot")
	fset.Float64Var(&c.fee, "trading-fee", 0, "new trading fee percentage")
	fset.StringVar(&c.secret, "webhook-secret", "", "new webhook secret")
	c.fset = fset
	return "update-bot", fset, cli.CmdFunc(c.Run)
}

func (c *Update) Purpose() string {
	return "Updates fields of an existing bot"
}
