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

type Update struct {
	cmdutil.ClientFlags

	fset *flag.FlagSet

	service string
	secret  string
	msg     string
}

func (c *Update) Run(ctx context.Context, args []string) error {
	botID, listenerID, err := parseIDArgs(args)
	if err != nil {
		return err
	}

	// Only flags the user has passed become updates.
	req := &api.ListenerUpdateRequest{BotID: botID, ListenerID: listenerID}
	c.fset.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "service":
			req.Service = &c.service
		case "secret":
			req.Secret = &c.secret
		case "msg":
			req.Msg = &c.msg
		}
	})

	transport, err := c.ClientFlags.Transport()
	if err != nil {
		return err
	}
	resp, err := transport.UpdateListener(ctx, req)
	if err != nil {
		return err
	}
	jsdata, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Printf("%s\n", jsdata)
	return nil
}

func (c *Update) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("update-listener", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	fset.StringVar(&c.service, "service", "", "new notification service name")
	fset.StringVar(&c.secret, "secret", "", "new listener secret")
	fset.StringVar(&c.msg, "msg", "", "new message template")
	c.fset = fset
	return "update-listener", fset, cli.CmdFunc(c.Run)
}

func (c *Update) Purpose() string {
	return "Updates fields of an existing listener"
}
