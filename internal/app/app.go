// Package app wires the database, accessors, repositories and view-model together.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"smartTextVision/dao"
	"smartTextVision/internal/auth"
	"smartTextVision/internal/config"
	"smartTextVision/internal/db"
	"smartTextVision/internal/session"
	"smartTextVision/models"
	"smartTextVision/repository"
)

// App owns the open database and the objects built on top of it.
type App struct {
	DB      *sql.DB
	UserDAO *dao.UserDAO
	Users   *repository.UserRepository
	Chats   *repository.ChatRepository
	Session *session.Memory

	cfg    *config.Config
	logger *zap.Logger
}

// Open opens the configured database and builds the repositories.
func Open(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	userDAO := dao.NewUserDAO(d)
	return &App{
		DB:      d,
		UserDAO: userDAO,
		Users:   repository.NewUserRepository(userDAO, logger),
		Chats:   repository.NewChatRepository(dao.NewMessageDAO(d), logger),
		Session: session.NewMemory(cfg.Session.Email),
		cfg:     cfg,
		logger:  logger,
	}, nil
}

// ViewModel builds a view-model bound to the app's repositories and session.
// The caller closes it.
func (a *App) ViewModel() *auth.ViewModel {
	return auth.NewViewModel(a.Users, a.Chats, auth.Options{
		Logger:    a.logger,
		Session:   a.Session,
		OpTimeout: a.cfg.OpTimeout,
	})
}

// EnsureAdmin makes sure an account with the given email exists and holds the
// admin role, creating it when missing. created reports whether a row was inserted.
func (a *App) EnsureAdmin(ctx context.Context, name, email, password string) (u *models.User, created bool, err error) {
	if email == "" || password == "" {
		return nil, false, errors.New("admin email and password are required")
	}
	u, err = a.Users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, false, fmt.Errorf("lookup admin: %w", err)
	}
	if u == nil {
		u = &models.User{Name: name, Email: email, Password: password, Role: models.RoleAdmin}
		if _, err := a.Users.InsertUser(ctx, u); err != nil {
			return nil, false, fmt.Errorf("insert admin: %w", err)
		}
		a.logger.Info("admin created", zap.Int64("id", u.ID), zap.String("email", email))
		return u, true, nil
	}
	if !u.IsAdmin() {
		if err := a.UserDAO.UpdateRole(ctx, u.ID, models.RoleAdmin); err != nil {
			return nil, false, fmt.Errorf("promote admin: %w", err)
		}
		u.Role = models.RoleAdmin
		a.logger.Info("user promoted to admin", zap.Int64("id", u.ID), zap.String("email", email))
	}
	return u, false, nil
}

// Config returns the configuration the app was opened with.
func (a *App) Config() *config.Config { return a.cfg }

// Close releases the database.
func (a *App) Close() error {
	return a.DB.Close()
}
