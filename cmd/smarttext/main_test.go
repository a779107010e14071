package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := newCLI()
	a.Writer = &out
	a.ErrWriter = &out
	a.ExitErrHandler = func(*cli.Context, error) {}
	err := a.RunContext(context.Background(), append([]string{"smarttext"}, args...))
	return out.String(), err
}

func TestCLI_SeedAdminChatsAndMigrate(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	dbPath := filepath.Join(t.TempDir(), "cli.db")

	out, err := run(t, "--db", dbPath, "seed-admin", "--email", "root@example.com", "--password", "pw")
	if err != nil || !strings.Contains(out, "admin root@example.com (id 1) created") {
		t.Fatalf("seed-admin: %v\n%s", err, out)
	}
	out, err = run(t, "--db", dbPath, "seed-admin", "--email", "root@example.com", "--password", "pw")
	if err != nil || !strings.Contains(out, "already present") {
		t.Fatalf("seed-admin again: %v\n%s", err, out)
	}

	if _, err := run(t, "--db", dbPath, "chats", "--email", "root@example.com", "--password", "nope"); err == nil {
		t.Fatalf("expected failure for wrong password")
	}
	if _, err := run(t, "--db", dbPath, "chats", "--email", "root@example.com", "--password", "pw"); err != nil {
		t.Fatalf("chats: %v", err)
	}

	out, err = run(t, "--db", dbPath, "migrate", "status")
	if err != nil || !strings.Contains(out, "schema version 0001") {
		t.Fatalf("status: %v\n%s", err, out)
	}
	out, err = run(t, "--db", dbPath, "migrate", "down")
	if err != nil || !strings.Contains(out, "schema version 0000") {
		t.Fatalf("down: %v\n%s", err, out)
	}
	out, err = run(t, "--db", dbPath, "migrate", "up")
	if err != nil || !strings.Contains(out, "schema version 0001") {
		t.Fatalf("up: %v\n%s", err, out)
	}
}
