package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"smartTextVision/dao"
	"smartTextVision/internal/db"
	"smartTextVision/models"
)

// OpenInMemoryDB opens a named in-memory SQLite database with migrations applied.
// The database is closed via t.Cleanup.
func OpenInMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	d, err := db.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// Shared-cache connections lock each other out on concurrent writes.
	d.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// SeedUser inserts a user with the given role and returns it with its ID set.
func SeedUser(t *testing.T, d *sql.DB, name, email, password, role string) *models.User {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	u := &models.User{Name: name, Email: email, Password: password, Role: role}
	if _, err := dao.NewUserDAO(d).InsertUser(ctx, u); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

// SeedMessage inserts a message between two users at the given time.
func SeedMessage(t *testing.T, d *sql.DB, from, to int64, at time.Time, content string) *models.Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	m := &models.Message{SenderID: from, ReceiverID: to, Timestamp: at, Content: content}
	if _, err := dao.NewMessageDAO(d).InsertMessage(ctx, m); err != nil {
		t.Fatalf("seed message: %v", err)
	}
	return m
}
