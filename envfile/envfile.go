// Copyright (c) 2025 BVK Chaitanya

// Package envfile loads environment variables from a dotenv style file, so
// that flag defaults like the server port can be configured per directory or
// per user without wrapper scripts.
package envfile

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"regexp"
	"strings"
)

var nameRe = regexp.MustCompile("^[a-zA-Z][0-9a-zA-Z_]*$")

type options struct {
	searchCurrentDir  bool
	searchParentDirs  bool
	overwriteIfExists bool
}

type Option func(*options)

// SearchCurrentDir searches for the env file in the current directory instead
// of the user's home directory. With searchParentDirs the ancestor
// directories up to the root are searched as well; the first file found wins.
func SearchCurrentDir(searchParentDirs bool) Option {
	return func(opts *options) {
		opts.searchCurrentDir = true
		opts.searchParentDirs = searchParentDirs
	}
}

// OverwriteIfExists lets file values replace variables that already have a
// non-empty value in the environment.
func OverwriteIfExists(overwrite bool) Option {
	return func(opts *options) {
		opts.overwriteIfExists = overwrite
	}
}

// UpdateEnv reads the named env file and merges its variables into the
// current process's environment. Without options, only the user's home
// directory is searched. A missing file is not an error.
//
// Lines are KEY=VALUE pairs; blank lines and # comments are skipped and an
// optional "export " prefix is accepted. Values are used verbatim, with no
// shell quoting or expansion.
func UpdateEnv(filename string, opts ...Option) error {
	if strings.ContainsRune(filename, os.PathSeparator) {
		return fmt.Errorf("env file name %q cannot contain path separators: %w", filename, os.ErrInvalid)
	}
	var fopts options
	for _, opt := range opts {
		opt(&fopts)
	}

	fpaths, err := searchPaths(filename, &fopts)
	if err != nil {
		return err
	}
	for _, fpath := range fpaths {
		vars, err := parseFile(fpath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}
		for key, value := range vars {
			if len(os.Getenv(key)) != 0 && !fopts.overwriteIfExists {
				continue
			}
			os.Setenv(key, value)
		}
		return nil
	}
	return nil
}

func searchPaths(filename string, opts *options) ([]string, error) {
	if !opts.searchCurrentDir {
		u, err := user.Current()
		if err != nil {
			return nil, err
		}
		if len(u.HomeDir) == 0 {
			return nil, fmt.Errorf("could not determine current user's home directory")
		}
		return []string{filepath.Join(u.HomeDir, filename)}, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	fpaths := []string{filepath.Join(dir, filename)}
	if opts.searchParentDirs {
		for last := ""; dir != last; {
			last, dir = dir, filepath.Dir(dir)
			if dir != last {
				fpaths = append(fpaths, filepath.Join(dir, filename))
			}
		}
	}
	return fpaths, nil
}

func parseFile(fpath string) (map[string]string, error) {
	fp, err := os.Open(fpath)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	vars := make(map[string]string)
	scanner := bufio.NewScanner(fp)
	for i := 1; scanner.Scan(); i++ {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("%s:%d: not a KEY=VALUE assignment: %w", fpath, i, os.ErrInvalid)
		}
		key = strings.TrimSpace(key)
		if !nameRe.MatchString(key) {
			return nil, fmt.Errorf("%s:%d: invalid variable name %q: %w", fpath, i, key, os.ErrInvalid)
		}
		vars[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return vars, nil
}
