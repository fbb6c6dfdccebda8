// Copyright (c) 2025 BVK Chaitanya

// Package config manages the TOML configuration file shared by the server and
// the command-line clients.
//
// Unlike the state file, configuration is allowed to fall back to built-in
// defaults when the file is missing or unreadable; the defaults are written
// back so that users always have a valid file to edit. Application state must
// never be silently replaced this way.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
)

type APIServer struct {
	Port          int    `toml:"port" json:"port"`
	BindAddress   string `toml:"bind_address" json:"bind_address"`
	StateFilePath string `toml:"state_file_path" json:"state_file_path"`
}

type WebClient struct {
	IsEnabled       bool   `toml:"is_enabled" json:"is_enabled"`
	Port            int    `toml:"port" json:"port"`
	BindAddress     string `toml:"bind_address" json:"bind_address"`
	StaticFilesPath string `toml:"static_files_path" json:"static_files_path"`
}

type WebhookServer struct {
	IsEnabled   bool   `toml:"is_enabled" json:"is_enabled"`
	Port        int    `toml:"port" json:"port"`
	BindAddress string `toml:"bind_address" json:"bind_address"`
}

type RemoteServer struct {
	APIURL string `toml:"api_url" json:"api_url"`
}

type LocalState struct {
	StateFilePath string `toml:"state_file_path" json:"state_file_path"`
}

type Config struct {
	APIServer     APIServer     `toml:"api_server" json:"api_server"`
	WebClient     WebClient     `toml:"web_client" json:"web_client"`
	WebhookServer WebhookServer `toml:"webhook_server" json:"webhook_server"`
	RemoteServer  RemoteServer  `toml:"remote_server" json:"remote_server"`
	LocalState    LocalState    `toml:"local_state" json:"local_state"`
}

func Default() *Config {
	return &Config{
		APIServer: APIServer{
			Port:          7762,
			BindAddress:   "127.0.0.1",
			StateFilePath: "state.json",
		},
		WebClient: WebClient{
			IsEnabled:       true,
			Port:            7763,
			BindAddress:     "0.0.0.0",
			StaticFilesPath: "webui/dist",
		},
		WebhookServer: WebhookServer{
			IsEnabled:   true,
			Port:        7764,
			BindAddress: "0.0.0.0",
		},
		RemoteServer: RemoteServer{
			APIURL: "http://localhost:7762",
		},
		LocalState: LocalState{
			StateFilePath: "state.json",
		},
	}
}

func (c *Config) Check() error {
	if c.APIServer.Port <= 0 || c.APIServer.Port > 65535 {
		return fmt.Errorf("api server port %d is invalid", c.APIServer.Port)
	}
	if len(c.APIServer.StateFilePath) == 0 {
		return fmt.Errorf("api server state file path cannot be empty")
	}
	if c.WebClient.IsEnabled && (c.WebClient.Port <= 0 || c.WebClient.Port > 65535) {
		return fmt.Errorf("web client port %d is invalid", c.WebClient.Port)
	}
	if c.WebhookServer.IsEnabled && (c.WebhookServer.Port <= 0 || c.WebhookServer.Port > 65535) {
		return fmt.Errorf("webhook server port %d is invalid", c.WebhookServer.Port)
	}
	return nil
}

// Load reads the configuration file at fpath. A missing, unparseable or
// invalid file is not an error: built-in defaults are returned and written
// back to fpath so the next load finds a valid file.
func Load(fpath string) (*Config, error) {
	data, err := os.ReadFile(fpath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("could not read config file %q: %w", fpath, err)
		}
		slog.Info("config file not found; writing defaults", "path", fpath)
		return writeDefaults(fpath)
	}

	c := new(Config)
	if err := toml.Unmarshal(data, c); err != nil {
		slog.Warn("could not parse config file; falling back to defaults", "path", fpath, "err", err)
		return writeDefaults(fpath)
	}
	if err := c.Check(); err != nil {
		slog.Warn("config file is invalid; falling back to defaults", "path", fpath, "err", err)
		return writeDefaults(fpath)
	}
	return c, nil
}

func writeDefaults(fpath string) (*Config, error) {
	c := Default()
	if err := Save(fpath, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Save writes the configuration to fpath in TOML format.
func Save(fpath string, c *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("could not toml-encode config: %w", err)
	}
	if err := os.WriteFile(fpath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("could not write config file %q: %w", fpath, err)
	}
	return nil
}
