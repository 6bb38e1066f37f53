package repository

import (
	"context"

	"ripple/internal/cache"
	"ripple/internal/models"
	"ripple/internal/observability"

	"gorm.io/gorm"
)

// FollowRepository defines the interface for social graph operations
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followingID string) error
	Unfollow(ctx context.Context, followerID, followingID string) error
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	Followers(ctx context.Context, userID string, limit, offset int) ([]*models.UserSummary, int64, error)
	Following(ctx context.Context, userID string, limit, offset int) ([]*models.UserSummary, int64, error)
}

// followRepository implements FollowRepository
type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Follow inserts the edge atomically and fans out a "follow" notification to
// the followed user in the same transaction. Self-follows and duplicate
// follows are rejected.
func (r *followRepository) Follow(ctx context.Context, followerID, followingID string) error {
	if followerID == followingID {
		return models.NewValidationError("Cannot follow yourself")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists bool
		if err := tx.Model(&models.User{}).Select("count(*) > 0").
			Where("id = ?", followingID).Find(&exists).Error; err != nil {
			return err
		}
		if !exists {
			return models.NewNotFoundError("User", followingID)
		}

		follow := &models.Follow{FollowerID: followerID, FollowingID: followingID}
		res := tx.Clauses(onConflictDoNothing("follower_id", "following_id")).Create(follow)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewAlreadyExistsError("Already following this user")
		}

		notification := &models.Notification{
			UserID:      followingID,
			Type:        models.NotificationFollow,
			TriggeredBy: followerID,
		}
		if err := tx.Create(notification).Error; err != nil {
			return err
		}
		observability.NotificationsFanout.WithLabelValues(string(models.NotificationFollow)).Inc()
		return nil
	})
	if err == nil {
		cache.InvalidateUser(ctx, followerID)
		cache.InvalidateUser(ctx, followingID)
	}
	return err
}

// Unfollow removes the edge. Unfollowing a user you do not follow succeeds
// without effect.
func (r *followRepository) Unfollow(ctx context.Context, followerID, followingID string) error {
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{}).Error
	if err == nil {
		cache.InvalidateUser(ctx, followerID)
		cache.InvalidateUser(ctx, followingID)
	}
	return err
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

func (r *followRepository) Followers(ctx context.Context, userID string, limit, offset int) ([]*models.UserSummary, int64, error) {
	var users []*models.UserSummary
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("users.id, users.name, users.username, users.image, users.bio, "+
			"(SELECT COUNT(*) FROM follows f2 WHERE f2.following_id = users.id) AS follower_count").
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&users).Error
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("following_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *followRepository) Following(ctx context.Context, userID string, limit, offset int) ([]*models.UserSummary, int64, error) {
	var users []*models.UserSummary
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("users.id, users.name, users.username, users.image, users.bio, "+
			"(SELECT COUNT(*) FROM follows f2 WHERE f2.following_id = users.id) AS follower_count").
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&users).Error
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
