// Copyright (c) 2025 BVK Chaitanya

package subcmds

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bvk/xtrade/alert"
	"github.com/bvk/xtrade/config"
	"github.com/bvk/xtrade/ctxutil"
	"github.com/bvk/xtrade/daemonize"
	"github.com/bvk/xtrade/httputil"
	"github.com/bvk/xtrade/server"
	"github.com/bvk/xtrade/subcmds/cmdutil"
	"github.com/nightlyone/lockfile"
	"github.com/visvasity/cli"
	"github.com/visvasity/sglog"
)

type Run struct {
	cmdutil.ServerFlags

	background bool

	restart         bool
	shutdownTimeout time.Duration

	noPprof bool

	configPath  string
	secretsPath string
	statePath   string
	ipcSocket   string
	dataDir     string
}

func (c *Run) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("server", flag.ContinueOnError)
	c.ServerFlags.SetFlags(fset)
	fset.BoolVar(&c.background, "background", false, "runs the daemon in background")
	fset.BoolVar(&c.restart, "restart", false, "when true, kills any old instance")
	fset.DurationVar(&c.shutdownTimeout, "shutdown-timeout", 30*time.Second, "max timeout for shutdown when restarting")
	fset.BoolVar(&c.noPprof, "no-pprof", false, "when true net/http/pprof handler is not registered")
	fset.StringVar(&c.configPath, "config-file", "", "path to the config file")
	fset.StringVar(&c.secretsPath, "secrets-file", "", "path to notification credentials file")
	fset.StringVar(&c.statePath, "state-file", "", "path to the state file (overrides the config file)")
	fset.StringVar(&c.ipcSocket, "ipc-socket", "", "path to the unix socket for same-host clients")
	fset.StringVar(&c.dataDir, "data-dir", "", "path to the data directory")
	return "server", fset, cli.CmdFunc(c.run)
}

func (c *Run) Purpose() string {
	return "Runs the xtrade server in foreground or background"
}

func (c *Run) Description() string {
	return `

Command "server" starts the xtrade service: the bot catalog api over TCP and
over a unix socket, and, when enabled in the config file, the TradingView
webhook receiver and the web client.

Configuration is read from the config file (default config.toml under the
data directory). A missing or invalid config file is replaced with the
defaults. The -listen-port, -listen-ip and -state-file flags override their
config file counterparts.

SECRETS FILE

Notification services require credentials, which are kept out of the config
file in a JSON secrets file (default secrets.json under the data directory).
Use the "setup-telegram" and "setup-pushover" commands to create it.

`
}

func (c *Run) run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(c.dataDir) == 0 {
		c.dataDir = filepath.Join(os.Getenv("HOME"), ".xtrade")
	}
	if _, err := os.Stat(c.dataDir); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("could not stat data directory %q: %w", c.dataDir, err)
		}
		if err := os.MkdirAll(c.dataDir, 0700); err != nil {
			return fmt.Errorf("could not create data directory %q: %w", c.dataDir, err)
		}
	}
	dataDir, err := filepath.Abs(c.dataDir)
	if err != nil {
		return fmt.Errorf("could not determine data-dir %q absolute path: %w", c.dataDir, err)
	}

	if len(c.configPath) == 0 {
		c.configPath = filepath.Join(dataDir, "config.toml")
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.Port != 0 {
		cfg.APIServer.Port = c.Port
	}
	if len(c.IP) != 0 {
		cfg.APIServer.BindAddress = c.IP
	}
	if len(c.statePath) != 0 {
		cfg.APIServer.StateFilePath = c.statePath
	}
	statePath := cfg.APIServer.StateFilePath
	if !filepath.IsAbs(statePath) {
		statePath = filepath.Join(dataDir, statePath)
	}
	if len(c.ipcSocket) == 0 {
		c.ipcSocket = filepath.Join(dataDir, "xtrade.sock")
	}

	if len(c.secretsPath) == 0 {
		c.secretsPath = filepath.Join(dataDir, "secrets.json")
	}
	var notifiers []alert.Notifier
	if secrets, err := alert.SecretsFromFile(c.secretsPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	} else {
		if notifiers, err = secrets.Notifiers(); err != nil {
			return err
		}
	}

	if ip := net.ParseIP(cfg.APIServer.BindAddress); ip == nil {
		return fmt.Errorf("invalid bind address %q", cfg.APIServer.BindAddress)
	}
	addr := &net.TCPAddr{
		IP:   net.ParseIP(cfg.APIServer.BindAddress),
		Port: cfg.APIServer.Port,
	}

	// Health checker for the background process initialization. The child
	// serves /pid only after all listeners are up, so a successful response
	// means the daemon finished initializing.
	check := func(ctx context.Context) error {
		client := http.Client{Timeout: time.Second}
		resp, err := client.Get(fmt.Sprintf("http://%s/pid", addr.String()))
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("http status: %d", resp.StatusCode)
		}
		return nil
	}

	if c.background {
		if err := daemonize.Daemonize(ctx, check); err != nil {
			return err
		}

		backend := sglog.NewBackend(&sglog.Options{
			LogDirs: []string{dataDir},
		})
		slog.SetDefault(slog.New(backend.Handler()))
		defer backend.Close()
	}

	lockPath := filepath.Join(dataDir, "xtrade.lock")
	flock, err := lockfile.New(lockPath)
	if err != nil {
		return fmt.Errorf("could not create lock file %q: %w", lockPath, err)
	}
	if err := flock.TryLock(); err != nil {
		if !c.restart {
			return fmt.Errorf("could not get lock on file %q: %w", lockPath, err)
		}
		owner, err := flock.GetOwner()
		if err != nil {
			return fmt.Errorf("could not get current owner of the lock file: %w", err)
		}
		if err := owner.Signal(os.Interrupt); err == nil {
			slog.Info("waiting for the previous instance to shutdown")
			if err := ctxutil.RetryTimeout(ctx, time.Second, c.shutdownTimeout, flock.TryLock); err != nil {
				if err := owner.Signal(os.Kill); err != nil {
					return fmt.Errorf("could not kill current owner of the lock file: %w", err)
				}
				ctxutil.Sleep(ctx, time.Millisecond)
			}
		}
		if err := flock.TryLock(); err != nil {
			return fmt.Errorf("could not get lock on file %q after killing previous instance: %w", lockPath, err)
		}
	}
	defer flock.Unlock()

	// Start HTTP server.
	s, err := httputil.New(nil /* opts */)
	if err != nil {
		return err
	}
	defer s.Close()

	tcpServer, err := s.StartTCP(ctx, addr)
	if err != nil {
		return fmt.Errorf("could not start http server on %s: %w", addr, err)
	}
	defer s.Stop(tcpServer)

	// Stale socket from an earlier unclean shutdown; the instance lock above
	// guarantees nobody is serving on it.
	if _, err := os.Stat(c.ipcSocket); err == nil {
		os.Remove(c.ipcSocket)
	}
	unixServer, err := s.StartUnix(ctx, &net.UnixAddr{Name: c.ipcSocket, Net: "unix"})
	if err != nil {
		return fmt.Errorf("could not start ipc server on %s: %w", c.ipcSocket, err)
	}
	defer s.Stop(unixServer)
	defer os.Remove(c.ipcSocket)

	if !c.noPprof {
		s.AddHandler("/debug/pprof/heap", pprof.Handler("heap"))
		s.AddHandler("/debug/pprof/goroutine", pprof.Handler("goroutine"))
		s.AddHandler("/debug/pprof/allocs", pprof.Handler("allocs"))
		s.AddHandler("/debug/pprof/block", pprof.Handler("block"))
		s.AddHandler("/debug/pprof/mutex", pprof.Handler("mutex"))
	}

	// Start the catalog service.
	sopts := &server.Options{
		StatePath: statePath,
		Config:    cfg,
	}
	catalog, err := server.New(sopts, notifiers)
	if err != nil {
		return err
	}
	defer catalog.Close()

	apiHandlers := catalog.HandlerMap()
	for k, v := range apiHandlers {
		s.AddHandler(k, v)
	}
	defer func() {
		for k := range apiHandlers {
			s.RemoveHandler(k)
		}
	}()

	// Webhook receiver gets its own listener so that it can be exposed to the
	// internet independent of the api endpoint.
	if cfg.WebhookServer.IsEnabled {
		whs, err := httputil.New(nil /* opts */)
		if err != nil {
			return err
		}
		defer whs.Close()
		for k, v := range catalog.WebhookHandlerMap() {
			whs.AddHandler(k, v)
		}
		whAddr := &net.TCPAddr{
			IP:   net.ParseIP(cfg.WebhookServer.BindAddress),
			Port: cfg.WebhookServer.Port,
		}
		whServer, err := whs.StartTCP(ctx, whAddr)
		if err != nil {
			return fmt.Errorf("could not start webhook server on %s: %w", whAddr, err)
		}
		defer whs.Stop(whServer)
		slog.Info("started webhook server", "addr", whAddr)
	}

	if cfg.WebClient.IsEnabled {
		ws, err := httputil.New(nil /* opts */)
		if err != nil {
			return err
		}
		defer ws.Close()
		for k, v := range catalog.WebHandlerMap(cfg.WebClient.StaticFilesPath) {
			ws.AddHandler(k, v)
		}
		webAddr := &net.TCPAddr{
			IP:   net.ParseIP(cfg.WebClient.BindAddress),
			Port: cfg.WebClient.Port,
		}
		webServer, err := ws.StartTCP(ctx, webAddr)
		if err != nil {
			return fmt.Errorf("could not start web client server on %s: %w", webAddr, err)
		}
		defer ws.Stop(webServer)
		slog.Info("started web client server", "addr", webAddr)
	}

	slog.Info("started xtrade server", "addr", addr, "ipcSocket", c.ipcSocket, "stateFile", statePath)
	s.AddHandler("/pid", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, fmt.Sprintf("%d", os.Getpid()))
	}))

	<-ctx.Done()
	slog.Info("xtrade server is shutting down")
	return nil
}
