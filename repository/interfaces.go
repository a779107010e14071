package repository

import (
	"context"

	"smartTextVision/models"
)

// Users is the user-facing surface the view-model depends on.
type Users interface {
	InsertUser(ctx context.Context, u *models.User) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	DeleteUser(ctx context.Context, u *models.User) error
	GetAllUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// Chats is the message surface the view-model depends on.
type Chats interface {
	InsertMessage(ctx context.Context, m *models.Message) (int64, error)
	GetChatHistory(ctx context.Context, userID, otherUserID int64) ([]models.Message, error)
	GetAllMessages(ctx context.Context) ([]models.Message, error)
}

var (
	_ Users = (*UserRepository)(nil)
	_ Chats = (*ChatRepository)(nil)
)
