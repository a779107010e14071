package repository

import (
	"context"

	"go.uber.org/zap"

	"smartTextVision/dao"
	"smartTextVision/models"
)

// UserRepository mediates between the view-model and the users accessor.
type UserRepository struct {
	users  dao.UserAccessor
	logger *zap.Logger
}

func NewUserRepository(users dao.UserAccessor, logger *zap.Logger) *UserRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserRepository{users: users, logger: logger.Named("users")}
}

func (r *UserRepository) InsertUser(ctx context.Context, u *models.User) (int64, error) {
	id, err := r.users.InsertUser(ctx, u)
	if err == nil {
		r.logger.Debug("user inserted", zap.Int64("id", id), zap.String("role", u.Role))
	}
	return id, err
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.users.GetUserByEmail(ctx, email)
}

func (r *UserRepository) DeleteUser(ctx context.Context, u *models.User) error {
	err := r.users.DeleteUser(ctx, u)
	if err == nil {
		r.logger.Debug("user deleted", zap.Int64("id", u.ID))
	}
	return err
}

func (r *UserRepository) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return r.users.GetAllUsers(ctx)
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.users.GetUserByID(ctx, id)
}
