// Package session answers "who is signed in" for the view-model.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrNoSession is returned when no account is associated with the session.
var ErrNoSession = errors.New("no active session")

// Session resolves the email of the account treated as signed in.
type Session interface {
	CurrentEmail(ctx context.Context) (string, error)
}

// Static always reports the same configured email.
type Static string

// CurrentEmail returns the configured email, or ErrNoSession when it is blank.
func (s Static) CurrentEmail(context.Context) (string, error) {
	email := strings.TrimSpace(string(s))
	if email == "" {
		return "", ErrNoSession
	}
	return email, nil
}

// Writer is implemented by sessions that follow sign-in and sign-out.
type Writer interface {
	SetEmail(email string)
}

// Memory is an in-process session seeded with an initial email.
type Memory struct {
	mu    sync.RWMutex
	email string
}

// NewMemory returns a Memory session whose current account is email.
func NewMemory(email string) *Memory {
	return &Memory{email: strings.TrimSpace(email)}
}

func (m *Memory) CurrentEmail(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.email == "" {
		return "", ErrNoSession
	}
	return m.email, nil
}

// SetEmail replaces the current account. An empty email ends the session.
func (m *Memory) SetEmail(email string) {
	m.mu.Lock()
	m.email = strings.TrimSpace(email)
	m.mu.Unlock()
}
