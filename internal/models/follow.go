package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow is a directed edge in the social graph: follower -> following.
// The edge is unique at the store level; self-follows are rejected in the
// handler before any write.
type Follow struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	FollowerID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_follows_edge" json:"follower_id"`
	FollowingID string    `gorm:"type:uuid;not null;uniqueIndex:idx_follows_edge" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (f *Follow) BeforeCreate(_ *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// Block is a directed edge excluding the blocked user from the blocker's
// suggestions and discovery surfaces.
type Block struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	BlockerID string    `gorm:"type:uuid;not null;uniqueIndex:idx_blocks_edge" json:"blocker_id"`
	BlockedID string    `gorm:"type:uuid;not null;uniqueIndex:idx_blocks_edge" json:"blocked_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (b *Block) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
