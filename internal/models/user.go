// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a user in the Ripple application.
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Image     string    `json:"image"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Computed at query time, never persisted.
	FollowerCount  int64 `gorm:"->;-:migration" json:"follower_count"`
	FollowingCount int64 `gorm:"->;-:migration" json:"following_count"`
	PostCount      int64 `gorm:"->;-:migration" json:"post_count"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserSummary is the projection of a user embedded in lists
// (followers, suggestions, search results, conversations).
type UserSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Username      string `json:"username"`
	Image         string `json:"image"`
	Bio           string `json:"bio,omitempty"`
	FollowerCount int64  `json:"follower_count"`
}
