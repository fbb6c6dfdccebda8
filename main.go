// Copyright (c) 2025 BVK Chaitanya

package main

import (
	"context"
	"log"
	"os"

	"github.com/bvk/xtrade/envfile"
	"github.com/bvk/xtrade/subcmds"
	"github.com/bvk/xtrade/subcmds/bot"
	"github.com/bvk/xtrade/subcmds/listener"
	"github.com/bvk/xtrade/subcmds/setup"
	"github.com/visvasity/cli"
)

func main() {
	if err := envfile.UpdateEnv(".xtrade.env", envfile.SearchCurrentDir(true)); err != nil {
		log.Fatal(err)
	}

	cmds := []cli.Command{
		new(subcmds.Run),
		new(subcmds.Status),

		new(bot.Add),
		new(bot.List),
		new(bot.Get),
		new(bot.Update),
		new(bot.Delete),

		new(listener.Add),
		new(listener.List),
		new(listener.Get),
		new(listener.Update),
		new(listener.Delete),
		new(listener.DeleteAll),

		new(setup.Telegram),
		new(setup.PushOver),
	}
	if err := cli.Run(context.Background(), cmds, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
