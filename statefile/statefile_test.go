// Copyright (c) 2025 BVK Chaitanya

package statefile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bvk/xtrade/models"
)

func TestLoadMissingFileCreatesEmptyState(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "state.json")

	state, err := Load(fpath)
	if err != nil {
		t.Fatal(err)
	}
	if len(state.Bots) != 0 {
		t.Fatalf("want empty state, got %d bots", len(state.Bots))
	}
	if state.NextBotID != 1 {
		t.Fatalf("want next bot id 1, got %d", state.NextBotID)
	}

	data, err := os.ReadFile(fpath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}" {
		t.Fatalf("missing file was not initialized: %q", data)
	}
	info, err := os.Stat(fpath)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Fatalf("want file mode 0600, got %v", perm)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(fpath, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(fpath); !errors.Is(err, ErrPersistence) {
		t.Fatalf("want ErrPersistence, got %v", err)
	}
}

func TestLoadInconsistentState(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "state.json")

	// The map key does not match the bot id.
	bad := `{"bots": {"5": {"id": 7, "name": "x", "exchange": "y"}}}`
	if err := os.WriteFile(fpath, []byte(bad), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(fpath); !errors.Is(err, ErrPersistence) {
		t.Fatalf("want ErrPersistence, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "state.json")

	state := &models.AppState{
		Bots: map[string]*models.Bot{
			"1": {
				ID:             1,
				Name:           "dca",
				Exchange:       "coinbase",
				TradingFee:     0.25,
				NextListenerID: 2,
				Listeners: map[string]*models.Listener{
					"1": {ID: 1, BotID: 1, Service: "Telegram", Secret: "s3cret"},
				},
			},
		},
		NextBotID: 2,
	}
	if err := Save(fpath, state); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(fpath)
	if err != nil {
		t.Fatal(err)
	}
	if !loaded.Equal(state) {
		t.Fatalf("round-trip state differs: %+v", loaded)
	}
}

func TestSaveLeavesNoTempFilesBehind(t *testing.T) {
	dir := t.TempDir()
	fpath := filepath.Join(dir, "state.json")

	state := new(models.AppState)
	state.Normalize()
	if err := Save(fpath, state); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".state-") {
			t.Fatalf("temporary file %q was left behind", e.Name())
		}
	}
}

func TestSaveIntoMissingDir(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "no-such-dir", "state.json")

	state := new(models.AppState)
	state.Normalize()
	if err := Save(fpath, state); !errors.Is(err, ErrPersistence) {
		t.Fatalf("want ErrPersistence, got %v", err)
	}
}
