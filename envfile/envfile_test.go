// Copyright (c) 2025 BVK Chaitanya

package envfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseFile(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "test.env")
	content := `# server settings
XTRADE_SERVER_PORT=7762

export XTRADE_DATA_DIR=/tmp/xtrade
PLAIN=a=b
`
	if err := os.WriteFile(fpath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	vars, err := parseFile(fpath)
	if err != nil {
		t.Fatal(err)
	}
	if vars["XTRADE_SERVER_PORT"] != "7762" {
		t.Fatalf("wrong value: %q", vars["XTRADE_SERVER_PORT"])
	}
	if vars["XTRADE_DATA_DIR"] != "/tmp/xtrade" {
		t.Fatalf("export prefix was not handled: %q", vars["XTRADE_DATA_DIR"])
	}
	// Only the first = splits the assignment.
	if vars["PLAIN"] != "a=b" {
		t.Fatalf("value with = was truncated: %q", vars["PLAIN"])
	}
}

func TestParseFileRejectsBadLines(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(fpath, []byte("not an assignment\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := parseFile(fpath); err == nil {
		t.Fatalf("line without = was accepted")
	}

	if err := os.WriteFile(fpath, []byte("2BAD=value\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := parseFile(fpath); err == nil {
		t.Fatalf("invalid variable name was accepted")
	}
}

func TestUpdateEnvRejectsPaths(t *testing.T) {
	if err := UpdateEnv("dir/file.env"); err == nil {
		t.Fatalf("file name with a path separator was accepted")
	}
}
