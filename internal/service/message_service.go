package service

import (
	"context"
	"strings"

	"ripple/internal/models"
	"ripple/internal/repository"
)

type MessageService struct {
	messageRepo repository.MessageRepository
}

type SendMessageInput struct {
	SenderID    string
	RecipientID string
	Content     string
}

func NewMessageService(messageRepo repository.MessageRepository) *MessageService {
	return &MessageService{messageRepo: messageRepo}
}

const maxMessageLen = 2000

func (s *MessageService) SendMessage(ctx context.Context, in SendMessageInput) (*models.Message, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxMessageLen {
		return nil, models.NewValidationError("Message too long (max 2000 characters)")
	}
	if in.RecipientID == "" {
		return nil, models.NewValidationError("Recipient is required")
	}
	if in.RecipientID == in.SenderID {
		return nil, models.NewValidationError("Cannot message yourself")
	}

	message := &models.Message{
		SenderID:    in.SenderID,
		RecipientID: in.RecipientID,
		Content:     in.Content,
	}
	// Recipient existence and notification fan-out happen in the repository
	// transaction.
	if err := s.messageRepo.Send(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *MessageService) Conversations(ctx context.Context, viewerID string, limit, offset int) ([]*models.Conversation, int64, error) {
	return s.messageRepo.Conversations(ctx, viewerID, limit, offset)
}

func (s *MessageService) Chat(ctx context.Context, viewerID, otherID string, limit, offset int) ([]*models.Message, int64, error) {
	return s.messageRepo.Chat(ctx, viewerID, otherID, limit, offset)
}

func (s *MessageService) UnreadCount(ctx context.Context, viewerID string) (int64, error) {
	return s.messageRepo.UnreadCount(ctx, viewerID)
}
