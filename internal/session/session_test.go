package session

import (
	"context"
	"errors"
	"testing"
)

func TestStatic(t *testing.T) {
	email, err := Static(" current@email.com ").CurrentEmail(context.Background())
	if err != nil || email != "current@email.com" {
		t.Fatalf("CurrentEmail = %q, %v", email, err)
	}
	if _, err := Static("").CurrentEmail(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory("a@example.com")
	var _ Session = m
	var _ Writer = m

	email, err := m.CurrentEmail(context.Background())
	if err != nil || email != "a@example.com" {
		t.Fatalf("CurrentEmail = %q, %v", email, err)
	}
	m.SetEmail("b@example.com")
	if email, _ := m.CurrentEmail(context.Background()); email != "b@example.com" {
		t.Fatalf("SetEmail not applied: %q", email)
	}
	m.SetEmail("")
	if _, err := m.CurrentEmail(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after clearing, got %v", err)
	}
}
