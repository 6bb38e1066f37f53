package repository

import (
	"context"
	"errors"

	"ripple/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Notification, int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id, userID string) error
}

// notificationRepository implements NotificationRepository
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// ListByUser returns the user's notifications newest first, with the acting
// user preloaded and the referenced post's content joined in when present.
func (r *notificationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Notification, int64, error) {
	var notifications []*models.Notification
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Select("notifications.*, posts.content AS post_content").
		Joins("LEFT JOIN posts ON posts.id = notifications.post_id").
		Preload("Actor").
		Where("notifications.user_id = ?", userID).
		Order("notifications.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Count(&count).Error
	return count, err
}

// MarkRead marks a single notification as read. The notification must exist
// and belong to the caller.
func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	notification, err := r.ownedNotification(ctx, id, userID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(notification).Update("is_read", true).Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Update("is_read", true).Error
}

// Delete removes a single notification. The notification must exist and
// belong to the caller.
func (r *notificationRepository) Delete(ctx context.Context, id, userID string) error {
	notification, err := r.ownedNotification(ctx, id, userID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(notification).Error
}

// ownedNotification loads the notification and checks ownership, keeping the
// missing (404) and not-yours (403) cases distinct.
func (r *notificationRepository) ownedNotification(ctx context.Context, id, userID string) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.WithContext(ctx).First(&notification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Notification", id)
		}
		return nil, err
	}
	if notification.UserID != userID {
		return nil, models.NewUnauthorizedError("Notification does not belong to you")
	}
	return &notification, nil
}
