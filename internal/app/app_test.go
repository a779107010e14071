package app

import (
	"context"
	"testing"
	"time"

	"smartTextVision/internal/config"
	"smartTextVision/models"
)

func openApp(t *testing.T, name string) *App {
	t.Helper()
	cfg := &config.Config{OpTimeout: time.Second}
	cfg.Database.Path = "file:" + name + "?mode=memory&cache=shared"
	cfg.Session.Email = "root@example.com"
	a, err := Open(cfg, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	a.DB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestOpen_RequiresConfig(t *testing.T) {
	if _, err := Open(nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestEnsureAdmin(t *testing.T) {
	a := openApp(t, "appensure")
	ctx := context.Background()

	if _, _, err := a.EnsureAdmin(ctx, "Root", "", "pw"); err == nil {
		t.Fatalf("expected error for empty email")
	}

	u, created, err := a.EnsureAdmin(ctx, "Root", "root@example.com", "pw")
	if err != nil || !created || !u.IsAdmin() {
		t.Fatalf("create admin: %+v created=%v err=%v", u, created, err)
	}
	again, created, err := a.EnsureAdmin(ctx, "Root", "root@example.com", "pw")
	if err != nil || created || again.ID != u.ID {
		t.Fatalf("second call: %+v created=%v err=%v", again, created, err)
	}

	// An existing regular account is promoted in place.
	plain := &models.User{Name: "Plain", Email: "plain@example.com", Password: "pw"}
	if _, err := a.Users.InsertUser(ctx, plain); err != nil {
		t.Fatalf("insert: %v", err)
	}
	promoted, created, err := a.EnsureAdmin(ctx, "ignored", "plain@example.com", "ignored")
	if err != nil || created || promoted.ID != plain.ID || !promoted.IsAdmin() {
		t.Fatalf("promote: %+v created=%v err=%v", promoted, created, err)
	}
}

func TestViewModel_UsesSession(t *testing.T) {
	a := openApp(t, "appvm")
	if _, _, err := a.EnsureAdmin(context.Background(), "Root", "root@example.com", "pw"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	vm := a.ViewModel()
	defer vm.Close()
	vm.Wait()
	if u := vm.CurrentUser().Get(); u == nil || !u.IsAdmin() {
		t.Fatalf("expected admin as current user, got %+v", u)
	}
}
