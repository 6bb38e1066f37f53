package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType enumerates the actions that fan out a notification.
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
	NotificationMessage NotificationType = "message"
)

// Notification is a denormalized fan-out row written as a side effect of a
// primary write (comment, message, like, follow). Repeated notifications are
// not deduplicated or merged.
type Notification struct {
	ID          string           `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        NotificationType `gorm:"type:varchar(16);not null" json:"type"`
	TriggeredBy string           `gorm:"type:uuid;not null" json:"triggered_by"`
	Actor       User             `gorm:"foreignKey:TriggeredBy" json:"actor"`
	PostID      *string          `gorm:"type:uuid" json:"post_id,omitempty"`
	IsRead      bool             `gorm:"not null;default:false" json:"is_read"`
	CreatedAt   time.Time        `json:"created_at"`

	// PostContent is joined from the referenced post when present.
	PostContent string `gorm:"->;-:migration" json:"post_content,omitempty"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
