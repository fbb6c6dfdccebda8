// Copyright (c) 2025 BVK Chaitanya

package setup

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/bvk/xtrade/alert"
	"github.com/visvasity/cli"
	"golang.org/x/term"
)

type Telegram struct {
	dataDir     string
	skipTesting bool

	botToken string
	chatID   int64
}

func (c *Telegram) Purpose() string {
	return "Setup configures Telegram notification parameters"
}

func (c *Telegram) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("setup-telegram", flag.ContinueOnError)
	fset.StringVar(&c.dataDir, "data-dir", "", "path to the data directory")
	fset.StringVar(&c.botToken, "bot-token", "", "Telegram bot's authentication token")
	fset.Int64Var(&c.chatID, "chat-id", 0, "Telegram chat id to receive the alerts")
	fset.BoolVar(&c.skipTesting, "skip-testing", false, "don't test the parameters")
	return "setup-telegram", fset, cli.CmdFunc(c.run)
}

func (c *Telegram) Description() string {
	return `

Command "setup-telegram" helps users configure webhook alert notifications to
their Telegram account through a Telegram bot.

Telegram configuration is optional. It is only required to receive alert
notifications on the mobile phones. It can be configured as follows:

  $ xtrade setup-telegram --chat-id=12345678 --bot-token=USCJS2...TVP4KV

`
}

func (c *Telegram) run(ctx context.Context, args []string) error {
	secretsPath, secrets, err := loadSecrets(c.dataDir)
	if err != nil {
		return err
	}

	secrets.Telegram = &alert.TelegramSecrets{
		BotToken: c.botToken,
		ChatID:   c.chatID,
	}
	if err := secrets.Check(); err != nil {
		return err
	}

	if !c.skipTesting {
		func() {
			fmt.Println("Start a chat with the telegram bot and then press any key")
			// switch stdin into 'raw' mode
			oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
			if err != nil {
				log.Fatal(err)
			}
			defer term.Restore(int(os.Stdin.Fd()), oldState)

			b := make([]byte, 1)
			_, err = os.Stdin.Read(b)
			if err != nil {
				log.Fatal(err)
			}
		}()

		n, err := alert.NewTelegramNotifier(secrets.Telegram)
		if err != nil {
			return err
		}
		if err := n.SendMessage(ctx, time.Now(), "Test message from Telegram config setup; please ignore."); err != nil {
			return err
		}
	}

	return saveSecrets(secretsPath, secrets)
}

func loadSecrets(dataDir string) (string, *alert.Secrets, error) {
	if len(dataDir) == 0 {
		dataDir = filepath.Join(os.Getenv("HOME"), ".xtrade")
	}
	if _, err := os.Stat(dataDir); err != nil {
		if !os.IsNotExist(err) {
			return "", nil, fmt.Errorf("could not stat data directory %q: %w", dataDir, err)
		}
		if err := os.MkdirAll(dataDir, 0700); err != nil {
			return "", nil, fmt.Errorf("could not create data directory %q: %w", dataDir, err)
		}
	}
	dataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return "", nil, fmt.Errorf("could not determine data-dir %q absolute path: %w", dataDir, err)
	}

	secretsPath := filepath.Join(dataDir, "secrets.json")
	secrets, err := alert.SecretsFromFile(secretsPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, err
		}
		secrets = &alert.Secrets{}
	}
	return secretsPath, secrets, nil
}

func saveSecrets(secretsPath string, secrets *alert.Secrets) error {
	js, err := json.MarshalIndent(secrets, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(secretsPath, js, os.FileMode(0600)); err != nil {
		return err
	}
	return nil
}
