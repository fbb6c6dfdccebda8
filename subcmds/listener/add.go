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

type Add struct {
	cmdutil.ClientFlags

	service string
	secret  string
	msg     string
}

func (c *Add) Run(ctx context.Context, args []string) error {
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
	req := &api.ListenerAddRequest{
		BotID:   botID,
		Service: c.service,
		Secret:  c.secret,
		Msg:     c.msg,
	}
	resp, err := transport.AddListener(ctx, req)
	if err != nil {
		return err
	}
	jsdata, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Printf("%s\n", jsdata)
	return nil
}

func (c *Add) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("add-listener", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	fset.StringVar(&c.service, "service", "", "notification service name, e.g. Telegram")
	fset.StringVar(&c.secret, "secret", "", "listener secret (auto-generated when empty)")
	fset.StringVar(&c.msg, "msg", "", "message template (service default when empty)")
	return "add-listener", fset, cli.CmdFunc(c.Run)
}

func (c *Add) Purpose() string {
	return "Attaches a new listener to a bot"
}

func (c *Add) Description() string {
	return `

Command "add-listener" attaches a listener to an existing bot. Listener ids
are assigned per bot, monotonically, and are never reused. When -secret is
not given a random secret is generated; when -msg is not given the service's
default webhook message template is used.

`
}
