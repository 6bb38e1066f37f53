// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"ripple/internal/cache"
	"ripple/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetProfile(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Search(ctx context.Context, query string, limit int) ([]*models.UserSummary, error)
	Suggested(ctx context.Context, viewerID string, limit int) ([]*models.UserSummary, error)
	Block(ctx context.Context, blockerID, blockedID string) error
	Unblock(ctx context.Context, blockerID, blockedID string) error
}

// userRepository implements UserRepository
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil && isUniqueViolation(err) {
		return models.NewAlreadyExistsError("Username or email already taken")
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetProfile returns the user annotated with live follower/following/post
// counts. Profiles are cached briefly; writes that change the counts
// invalidate the entry.
func (r *userRepository) GetProfile(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &user, cache.UserTTL, func() error {
		return r.db.WithContext(ctx).
			Model(&models.User{}).
			Select("users.*, "+
				"(SELECT COUNT(*) FROM follows WHERE follows.following_id = users.id) AS follower_count, "+
				"(SELECT COUNT(*) FROM follows WHERE follows.follower_id = users.id) AS following_count, "+
				"(SELECT COUNT(*) FROM posts WHERE posts.user_id = users.id) AS post_count").
			First(&user, "users.id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewAlreadyExistsError("Username or email already taken")
		}
		return err
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

func (r *userRepository) Search(ctx context.Context, query string, limit int) ([]*models.UserSummary, error) {
	var users []*models.UserSummary
	like := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("users.id, users.name, users.username, users.image, users.bio, " +
			"(SELECT COUNT(*) FROM follows WHERE follows.following_id = users.id) AS follower_count").
		Where("name ILIKE ? OR username ILIKE ? OR bio ILIKE ?", like, like, like).
		Limit(limit).
		Scan(&users).Error
	return users, err
}

// Suggested returns users the viewer does not follow and has not blocked,
// ordered by follower count.
func (r *userRepository) Suggested(ctx context.Context, viewerID string, limit int) ([]*models.UserSummary, error) {
	var users []*models.UserSummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT users.id, users.name, users.username, users.image, users.bio,
		       (SELECT COUNT(*) FROM follows WHERE follows.following_id = users.id) AS follower_count
		FROM users
		WHERE users.id <> @viewer
		  AND users.id NOT IN (SELECT following_id FROM follows WHERE follower_id = @viewer)
		  AND users.id NOT IN (SELECT blocked_id FROM blocks WHERE blocker_id = @viewer)
		ORDER BY follower_count DESC
		LIMIT @limit`,
		map[string]any{"viewer": viewerID, "limit": limit},
	).Scan(&users).Error
	return users, err
}

// Block inserts the block edge and removes any follow edges between the two
// users in the same transaction. Duplicate blocks report the duplicate-action
// error; the insert is atomic so concurrent duplicates cannot both succeed.
func (r *userRepository) Block(ctx context.Context, blockerID, blockedID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		block := &models.Block{BlockerID: blockerID, BlockedID: blockedID}
		res := tx.Clauses(onConflictDoNothing("blocker_id", "blocked_id")).Create(block)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewAlreadyExistsError("User already blocked")
		}

		if err := tx.Where(
			"(follower_id = ? AND following_id = ?) OR (follower_id = ? AND following_id = ?)",
			blockerID, blockedID, blockedID, blockerID,
		).Delete(&models.Follow{}).Error; err != nil {
			return err
		}

		cache.InvalidateUser(ctx, blockerID)
		cache.InvalidateUser(ctx, blockedID)
		return nil
	})
}

func (r *userRepository) Unblock(ctx context.Context, blockerID, blockedID string) error {
	// Idempotent: unblocking a non-blocked user is not an error.
	return r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.Block{}).Error
}

// isUniqueViolation reports whether the error is a unique constraint violation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
