package repository

import (
	"context"

	"ripple/internal/models"
	"ripple/internal/observability"

	"gorm.io/gorm"
)

// MessageRepository defines the interface for direct message operations
type MessageRepository interface {
	Send(ctx context.Context, message *models.Message) error
	Conversations(ctx context.Context, viewerID string, limit, offset int) ([]*models.Conversation, int64, error)
	Chat(ctx context.Context, viewerID, otherID string, limit, offset int) ([]*models.Message, int64, error)
	UnreadCount(ctx context.Context, viewerID string) (int64, error)
}

// messageRepository implements MessageRepository
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Send inserts the message and fans out a "message" notification to the
// recipient in the same transaction. The recipient must exist.
func (r *messageRepository) Send(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists bool
		if err := tx.Model(&models.User{}).Select("count(*) > 0").
			Where("id = ?", message.RecipientID).Find(&exists).Error; err != nil {
			return err
		}
		if !exists {
			return models.NewNotFoundError("User", message.RecipientID)
		}

		if err := tx.Create(message).Error; err != nil {
			return err
		}

		notification := &models.Notification{
			UserID:      message.RecipientID,
			Type:        models.NotificationMessage,
			TriggeredBy: message.SenderID,
		}
		if err := tx.Create(notification).Error; err != nil {
			return err
		}
		observability.NotificationsFanout.WithLabelValues(string(models.NotificationMessage)).Inc()
		return nil
	})
}

// Conversations derives the viewer's conversation list from the flat message
// table: one row per correspondent carrying the latest message in either
// direction and the count of unread messages sent to the viewer, ordered by
// recency of the last message.
func (r *messageRepository) Conversations(ctx context.Context, viewerID string, limit, offset int) ([]*models.Conversation, int64, error) {
	var conversations []*models.Conversation
	err := r.db.WithContext(ctx).Raw(`
		SELECT u.id AS other_user_id, u.name, u.username, u.image,
		       (SELECT m2.content FROM messages m2
		        WHERE (m2.sender_id = @viewer AND m2.recipient_id = u.id)
		           OR (m2.sender_id = u.id AND m2.recipient_id = @viewer)
		        ORDER BY m2.created_at DESC LIMIT 1) AS last_message,
		       (SELECT m3.created_at FROM messages m3
		        WHERE (m3.sender_id = @viewer AND m3.recipient_id = u.id)
		           OR (m3.sender_id = u.id AND m3.recipient_id = @viewer)
		        ORDER BY m3.created_at DESC LIMIT 1) AS last_message_time,
		       (SELECT COUNT(*) FROM messages m4
		        WHERE m4.sender_id = u.id AND m4.recipient_id = @viewer
		          AND m4.is_read = false) AS unread_count
		FROM users u
		WHERE u.id IN (
			SELECT DISTINCT CASE WHEN sender_id = @viewer THEN recipient_id ELSE sender_id END
			FROM messages
			WHERE sender_id = @viewer OR recipient_id = @viewer
		)
		ORDER BY last_message_time DESC
		LIMIT @limit OFFSET @offset`,
		map[string]any{"viewer": viewerID, "limit": limit, "offset": offset},
	).Scan(&conversations).Error
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(DISTINCT CASE WHEN sender_id = @viewer THEN recipient_id ELSE sender_id END)
		FROM messages
		WHERE sender_id = @viewer OR recipient_id = @viewer`,
		map[string]any{"viewer": viewerID},
	).Scan(&total).Error; err != nil {
		return nil, 0, err
	}
	return conversations, total, nil
}

// Chat returns one page of the thread between the viewer and the other user
// in chronological order, and marks the other user's messages in that thread
// as read. The page is selected newest-first then reversed so pagination
// walks backwards through history.
func (r *messageRepository) Chat(ctx context.Context, viewerID, otherID string, limit, offset int) ([]*models.Message, int64, error) {
	var messages []*models.Message
	var total int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		thread := "(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)"
		if err := tx.
			Where(thread, viewerID, otherID, otherID, viewerID).
			Order("created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&messages).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Message{}).
			Where(thread, viewerID, otherID, otherID, viewerID).
			Count(&total).Error; err != nil {
			return err
		}

		// Fetching the thread marks the partner's messages as read.
		return tx.Model(&models.Message{}).
			Where("sender_id = ? AND recipient_id = ? AND is_read = false", otherID, viewerID).
			Update("is_read", true).Error
	})
	if err != nil {
		return nil, 0, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, total, nil
}

func (r *messageRepository) UnreadCount(ctx context.Context, viewerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("recipient_id = ? AND is_read = false", viewerID).
		Count(&count).Error
	return count, err
}
