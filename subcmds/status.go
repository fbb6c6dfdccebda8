// Copyright (c) 2025 BVK Chaitanya

package subcmds

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bvk/xtrade/api"
	"github.com/bvk/xtrade/subcmds/cmdutil"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/visvasity/cli"
)

type Status struct {
	cmdutil.ClientFlags
}

func (c *Status) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("status", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "status", fset, cli.CmdFunc(c.run)
}

func (c *Status) Purpose() string {
	return "Status prints the daemon's pid, resource usage and catalog size"
}

func (c *Status) run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}

	u := c.AddressURL()
	u.Path = "/pid"
	client := http.Client{Timeout: c.HTTPTimeout}
	resp, err := client.Get(u.String())
	if err != nil {
		return fmt.Errorf("is the server running? could not fetch %s: %w", u, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	pid, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 32)
	if err != nil {
		return fmt.Errorf("unexpected pid response %q: %w", data, err)
	}

	proc, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return fmt.Errorf("could not inspect server process %d: %w", pid, err)
	}

	fmt.Printf("PID: %d\n", pid)
	if created, err := proc.CreateTimeWithContext(ctx); err == nil {
		start := time.UnixMilli(created)
		fmt.Printf("Started: %s (up %s)\n", start.Format(time.RFC1123), time.Since(start).Round(time.Second))
	}
	if pct, err := proc.CPUPercentWithContext(ctx); err == nil {
		fmt.Printf("CPU: %.2f%%\n", pct)
	}
	if mem, err := proc.MemoryInfoWithContext(ctx); err == nil {
		fmt.Printf("RSS: %.2f MiB\n", float64(mem.RSS)/(1<<20))
	}

	transport, err := c.ClientFlags.Transport()
	if err != nil {
		return err
	}
	bots, err := transport.ListBots(ctx, &api.BotListRequest{})
	if err != nil {
		return err
	}
	numListeners := 0
	for _, b := range bots.Bots {
		numListeners += len(b.Listeners)
	}
	fmt.Printf("Bots: %d\n", len(bots.Bots))
	fmt.Printf("Listeners: %d\n", numListeners)
	return nil
}
