package ui

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"smartTextVision/dao"
	"smartTextVision/internal/auth"
	"smartTextVision/internal/session"
	"smartTextVision/internal/testutil"
	"smartTextVision/models"
	"smartTextVision/repository"
)

type fixture struct {
	vm    *auth.ViewModel
	users *repository.UserRepository
	root  *models.User
	plain *models.User
}

func newFixture(t *testing.T, name string) *fixture {
	t.Helper()
	d := testutil.OpenInMemoryDB(t, name)
	root := testutil.SeedUser(t, d, "Root", "root@example.com", "rootpw", models.RoleAdmin)
	plain := testutil.SeedUser(t, d, "Plain", "plain@example.com", "plainpw", models.RoleUser)
	base := time.UnixMilli(1_700_000_000_000)
	testutil.SeedMessage(t, d, plain.ID, root.ID, base, "hello admin")

	users := repository.NewUserRepository(dao.NewUserDAO(d), nil)
	chats := repository.NewChatRepository(dao.NewMessageDAO(d), nil)
	vm := auth.NewViewModel(users, chats, auth.Options{Session: session.NewMemory("")})
	t.Cleanup(vm.Close)
	vm.Wait()
	return &fixture{vm: vm, users: users, root: root, plain: plain}
}

func (f *fixture) run(t *testing.T, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := NewScreen(f.vm, in, &out).Run(ctx); err != nil {
		t.Fatalf("run: %v\noutput:\n%s", err, out.String())
	}
	return out.String()
}

func TestScreen_InvalidCredentials(t *testing.T) {
	f := newFixture(t, "uibadlogin")
	out := f.run(t, "L", "root@example.com", "wrong", "L", "", "", "Q")
	if !strings.Contains(out, "Sign in to your Account") {
		t.Fatalf("missing title:\n%s", out)
	}
	if !strings.Contains(out, auth.MsgInvalidCredentials) {
		t.Fatalf("missing invalid credentials message:\n%s", out)
	}
	if !strings.Contains(out, auth.MsgCredentialsRequired) {
		t.Fatalf("missing required message:\n%s", out)
	}
	if strings.Contains(out, "Signed in as") {
		t.Fatalf("should not have signed in:\n%s", out)
	}
}

func TestScreen_AdminFlow(t *testing.T) {
	f := newFixture(t, "uiadmin")
	out := f.run(t,
		"L", "root@example.com", "rootpw",
		"3",
		"4",
		"5", "9999",
		"5", itoa(f.plain.ID),
		"0",
		"Q",
	)
	for _, want := range []string{
		"Signed in as Root <root@example.com> (admin)",
		"hello admin",
		"plain@example.com",
		auth.MsgUserNotFound,
		"User " + itoa(f.plain.ID) + " deleted.",
		"Signed out.",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if u, _ := f.users.GetUserByID(context.Background(), f.plain.ID); u != nil {
		t.Fatalf("user not deleted: %+v", u)
	}
	if f.vm.CurrentUser().Get() != nil {
		t.Fatalf("current user should be cleared after sign out")
	}
}

func TestScreen_RegularUserFlow(t *testing.T) {
	f := newFixture(t, "uiregular")
	out := f.run(t,
		"L", "plain@example.com", "plainpw",
		"3",
		"2", itoa(f.root.ID), "hi again",
		"1", itoa(f.root.ID),
		"1", "abc",
		"0",
		"Q",
	)
	if strings.Contains(out, "[3] All chats") {
		t.Fatalf("admin options shown to a regular user:\n%s", out)
	}
	for _, want := range []string{"Not authorized.", "Sent.", "hello admin", "hi again", `Invalid id "abc".`} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestScreen_SignUpThenLogIn(t *testing.T) {
	f := newFixture(t, "uisignup")
	out := f.run(t,
		"S", "", "", "",
		"S", "Dana", "dana@example.com", "danapw",
		"F",
		"L", "dana@example.com", "danapw",
		"0",
	)
	for _, want := range []string{
		"Sign up failed: Name is required; Email is required; Password is required",
		"created for dana@example.com",
		"Password recovery is not available",
		"Signed in as Dana <dana@example.com> (user)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestScreen_EndOfInputQuits(t *testing.T) {
	f := newFixture(t, "uieof")
	var out bytes.Buffer
	if err := NewScreen(f.vm, strings.NewReader(""), &out).Run(context.Background()); err != nil {
		t.Fatalf("expected nil on EOF, got %v", err)
	}
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
