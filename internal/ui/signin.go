// Package ui renders the sign-in screen and the account menu on a terminal.
package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"smartTextVision/internal/auth"
	"smartTextVision/models"
)

// Screen drives the view-model from line-oriented input.
type Screen struct {
	vm           *auth.ViewModel
	in           *bufio.Reader
	out          io.Writer
	fd           int
	tty          bool
	showPassword bool
}

// Option customises a Screen.
type Option func(*Screen)

// WithPasswordVisible echoes passwords as they are typed.
func WithPasswordVisible(v bool) Option {
	return func(s *Screen) { s.showPassword = v }
}

// NewScreen builds a screen reading from in and writing to out. When in is a
// terminal, passwords are read without echo unless made visible.
func NewScreen(vm *auth.ViewModel, in io.Reader, out io.Writer, opts ...Option) *Screen {
	s := &Screen{vm: vm, in: bufio.NewReader(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		s.fd = int(f.Fd())
		s.tty = true
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run shows the sign-in screen until the user quits, input ends or ctx is done.
func (s *Screen) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.printf("\n===== Sign in to your Account =====\n")
		s.printf("[L] Log In\n[S] Don't have an account? Sign Up\n[F] Forgot Your Password ?\n")
		if s.tty {
			s.printf("[V] Toggle password visibility (now %s)\n", visibility(s.showPassword))
		}
		s.printf("[Q] Quit\n")
		choice, err := s.prompt("Select: ")
		if err != nil {
			return ignoreEOF(err)
		}
		switch strings.ToUpper(choice) {
		case "L", "":
			signedIn, err := s.logIn(ctx)
			if err != nil {
				return ignoreEOF(err)
			}
			if signedIn {
				if err := s.accountMenu(ctx); err != nil {
					return ignoreEOF(err)
				}
			}
		case "S":
			if err := s.signUp(ctx); err != nil {
				return ignoreEOF(err)
			}
		case "F":
			s.printf("Password recovery is not available. Ask an administrator.\n")
		case "V":
			s.showPassword = !s.showPassword
		case "Q":
			return nil
		default:
			s.printf("Invalid selection.\n")
		}
	}
}

func (s *Screen) logIn(ctx context.Context) (bool, error) {
	email, err := s.prompt("Email: ")
	if err != nil {
		return false, err
	}
	password, err := s.readPassword("Password: ")
	if err != nil {
		return false, err
	}
	s.vm.SignIn(email, password)
	st, err := s.vm.AuthState().WaitFor(ctx, auth.AuthState.Settled)
	if err != nil {
		return false, err
	}
	if st.Status == auth.StatusError {
		s.printf("%s\n", st.Message)
		return false, nil
	}
	return true, nil
}

func (s *Screen) signUp(ctx context.Context) error {
	name, err := s.prompt("Name: ")
	if err != nil {
		return err
	}
	email, err := s.prompt("Email: ")
	if err != nil {
		return err
	}
	password, err := s.readPassword("Password: ")
	if err != nil {
		return err
	}
	u, err := s.vm.SignUp(ctx, auth.SignUpInput{Name: name, Email: email, Password: password})
	if err != nil {
		s.printf("Sign up failed: %v\n", err)
		return nil
	}
	s.printf("Account %d created for %s. You can log in now.\n", u.ID, u.Email)
	return nil
}

func (s *Screen) accountMenu(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		me := s.vm.CurrentUser().Get()
		if me == nil {
			return nil
		}
		s.printf("\n===== Signed in as %s <%s> (%s) =====\n", me.Name, me.Email, me.Role)
		s.printf("[1] Chat history\n[2] Send message\n")
		if me.IsAdmin() {
			s.printf("[3] All chats\n[4] All users\n[5] Delete user\n")
		}
		s.printf("[0] Sign out\n")
		choice, err := s.prompt("Select: ")
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			other, err := s.promptID("Other user id: ")
			if err != nil {
				return err
			}
			if other == 0 {
				continue
			}
			msgs, err := s.vm.ChatHistory(ctx, other)
			if err != nil {
				s.printf("Failed to load history: %v\n", err)
				continue
			}
			s.printMessages(msgs)
		case "2":
			to, err := s.promptID("Receiver id: ")
			if err != nil {
				return err
			}
			if to == 0 {
				continue
			}
			content, err := s.prompt("Message: ")
			if err != nil {
				return err
			}
			if _, err := s.vm.SendMessage(ctx, to, content); err != nil {
				s.printf("Failed to send: %v\n", err)
				continue
			}
			s.printf("Sent.\n")
		case "3":
			res, err := s.vm.ReadAllChats().WaitFor(ctx, func(r auth.OperationResult[[]models.Message]) bool { return r.Done() })
			if err != nil {
				return err
			}
			if s.reportFailure(res.Kind, res.Message) {
				continue
			}
			s.printMessages(res.Data)
		case "4":
			res, err := s.vm.ListUsers().WaitFor(ctx, func(r auth.OperationResult[[]models.User]) bool { return r.Done() })
			if err != nil {
				return err
			}
			if s.reportFailure(res.Kind, res.Message) {
				continue
			}
			s.printUsers(res.Data)
		case "5":
			id, err := s.promptID("User id to delete: ")
			if err != nil {
				return err
			}
			if id == 0 {
				continue
			}
			for res := range s.vm.DeleteUser(ctx, id) {
				if res.Kind == auth.ResultSuccess {
					s.printf("User %d deleted.\n", id)
				}
				s.reportFailure(res.Kind, res.Message)
			}
		case "0":
			s.vm.SignOut()
			s.printf("Signed out.\n")
			return nil
		default:
			s.printf("Invalid selection.\n")
		}
	}
}

// reportFailure prints unauthorized and error outcomes and reports whether one occurred.
func (s *Screen) reportFailure(kind auth.ResultKind, msg string) bool {
	switch kind {
	case auth.ResultUnauthorized:
		s.printf("Not authorized.\n")
		return true
	case auth.ResultError:
		s.printf("%s\n", msg)
		return true
	}
	return false
}

func (s *Screen) printMessages(msgs []models.Message) {
	if len(msgs) == 0 {
		s.printf("No messages.\n")
		return
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFROM\tTO\tTIME\tCONTENT")
	for _, m := range msgs {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%s\n", m.ID, m.SenderID, m.ReceiverID, m.Timestamp.UTC().Format(time.RFC3339), m.Content)
	}
	_ = tw.Flush()
}

func (s *Screen) printUsers(users []models.User) {
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
	}
	_ = tw.Flush()
}

func (s *Screen) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Screen) prompt(label string) (string, error) {
	s.printf("%s", label)
	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptID reads a user id; invalid input is reported and yields 0.
func (s *Screen) promptID(label string) (int64, error) {
	raw, err := s.prompt(label)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		s.printf("Invalid id %q.\n", raw)
		return 0, nil
	}
	return id, nil
}

func (s *Screen) readPassword(label string) (string, error) {
	if !s.tty || s.showPassword {
		return s.prompt(label)
	}
	s.printf("%s", label)
	raw, err := term.ReadPassword(s.fd)
	s.printf("\n")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func visibility(shown bool) string {
	if shown {
		return "visible"
	}
	return "hidden"
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
