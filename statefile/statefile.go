// Copyright (c) 2025 BVK Chaitanya

// Package statefile implements the durable round-trip of the application
// state to a JSON file.
//
// Loading a missing file is not an error: an empty valid file is created and
// an empty state is returned. Loading an existing file that fails to parse is
// a loud ErrPersistence failure; unreadable state is never silently discarded
// (configuration files behave differently, see the config package).
package statefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bvk/xtrade/models"
)

// ErrPersistence classifies state file load/save failures. Callers match it
// with errors.Is.
var ErrPersistence = errors.New("state persistence failure")

// Load reads the application state from fpath. When the file does not exist
// it is created with an empty JSON object and an empty state is returned.
func Load(fpath string) (*models.AppState, error) {
	data, err := os.ReadFile(fpath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("could not read state file %q: %v: %w", fpath, err, ErrPersistence)
		}
		if err := os.WriteFile(fpath, []byte("{}"), 0600); err != nil {
			return nil, fmt.Errorf("could not create state file %q: %v: %w", fpath, err, ErrPersistence)
		}
		data = []byte("{}")
	}

	state := new(models.AppState)
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("could not parse state file %q: %v: %w", fpath, err, ErrPersistence)
	}
	state.Normalize()
	if err := state.Check(); err != nil {
		return nil, fmt.Errorf("state file %q is inconsistent: %v: %w", fpath, err, ErrPersistence)
	}
	return state, nil
}

// Save serializes the full state and atomically replaces fpath, so that a
// failure mid-write can never leave a half-written file readable as valid
// state on the next load.
func Save(fpath string, state *models.AppState) (status error) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("could not json-encode state: %v: %w", err, ErrPersistence)
	}

	dir := filepath.Dir(fpath)
	fp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("could not create temporary state file in %q: %v: %w", dir, err, ErrPersistence)
	}
	defer func() {
		if status != nil {
			fp.Close()
			os.Remove(fp.Name())
		}
	}()

	if _, err := fp.Write(data); err != nil {
		return fmt.Errorf("could not write temporary state file %q: %v: %w", fp.Name(), err, ErrPersistence)
	}
	if err := fp.Sync(); err != nil {
		return fmt.Errorf("could not sync temporary state file %q: %v: %w", fp.Name(), err, ErrPersistence)
	}
	if err := fp.Close(); err != nil {
		return fmt.Errorf("could not close temporary state file %q: %v: %w", fp.Name(), err, ErrPersistence)
	}
	if err := os.Chmod(fp.Name(), 0600); err != nil {
		return fmt.Errorf("could not set state file permissions: %v: %w", err, ErrPersistence)
	}
	if err := os.Rename(fp.Name(), fpath); err != nil {
		return fmt.Errorf("could not replace state file %q: %v: %w", fpath, err, ErrPersistence)
	}
	return nil
}
