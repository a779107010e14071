// Package dao holds the SQL accessors for the users and messages tables.
package dao

import (
	"context"

	"smartTextVision/models"
)

// UserAccessor defines the queries available on the users table.
type UserAccessor interface {
	InsertUser(ctx context.Context, u *models.User) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	DeleteUserByID(ctx context.Context, id int64) error
	DeleteUser(ctx context.Context, u *models.User) error
}

// MessageAccessor defines the queries available on the messages table.
type MessageAccessor interface {
	InsertMessage(ctx context.Context, m *models.Message) (int64, error)
	GetChatHistory(ctx context.Context, userID, otherUserID int64) ([]models.Message, error)
	GetAllMessages(ctx context.Context) ([]models.Message, error)
}
