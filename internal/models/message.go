package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a direct message between two users. IsRead transitions
// false -> true only, when the recipient fetches the chat thread.
type Message struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID    string    `gorm:"type:uuid;not null;index" json:"sender_id"`
	RecipientID string    `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	IsRead      bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (m *Message) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Conversation summarizes a correspondent derived from the flat message table:
// the most recent message across both directions and the viewer's unread count.
// It is a query projection, not a stored entity.
type Conversation struct {
	OtherUserID     string    `json:"other_user_id"`
	Name            string    `json:"name"`
	Username        string    `json:"username"`
	Image           string    `json:"image"`
	LastMessage     string    `json:"last_message"`
	LastMessageTime time.Time `json:"last_message_time"`
	UnreadCount     int64     `json:"unread_count"`
}
