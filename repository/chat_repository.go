package repository

import (
	"context"

	"go.uber.org/zap"

	"smartTextVision/dao"
	"smartTextVision/models"
)

// ChatRepository mediates between the view-model and the messages accessor.
type ChatRepository struct {
	messages dao.MessageAccessor
	logger   *zap.Logger
}

func NewChatRepository(messages dao.MessageAccessor, logger *zap.Logger) *ChatRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatRepository{messages: messages, logger: logger.Named("chats")}
}

func (r *ChatRepository) InsertMessage(ctx context.Context, m *models.Message) (int64, error) {
	id, err := r.messages.InsertMessage(ctx, m)
	if err == nil {
		r.logger.Debug("message inserted", zap.Int64("id", id), zap.Int64("sender", m.SenderID), zap.Int64("receiver", m.ReceiverID))
	}
	return id, err
}

func (r *ChatRepository) GetChatHistory(ctx context.Context, userID, otherUserID int64) ([]models.Message, error) {
	return r.messages.GetChatHistory(ctx, userID, otherUserID)
}

func (r *ChatRepository) GetAllMessages(ctx context.Context) ([]models.Message, error) {
	return r.messages.GetAllMessages(ctx)
}
