package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Hashtag is a tag extracted from post content. PostCount is a denormalized
// counter maintained by the post create/delete transactions.
type Hashtag struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Tag       string    `gorm:"uniqueIndex;not null" json:"tag"`
	PostCount int64     `gorm:"not null;default:0" json:"post_count"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (h *Hashtag) BeforeCreate(_ *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}

// PostHashtag links a post to a hashtag extracted from its content.
type PostHashtag struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_post_hashtags_link" json:"post_id"`
	HashtagID string    `gorm:"type:uuid;not null;uniqueIndex:idx_post_hashtags_link" json:"hashtag_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (ph *PostHashtag) BeforeCreate(_ *gorm.DB) error {
	if ph.ID == "" {
		ph.ID = uuid.NewString()
	}
	return nil
}
