package repository

import (
	"context"

	"ripple/internal/cache"
	"ripple/internal/models"
	"ripple/internal/observability"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string, limit, offset int) ([]*models.Comment, int64, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id string) error
}

// commentRepository implements CommentRepository
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts the comment and fans out a "comment" notification to the
// post author in the same transaction. Commenting on your own post produces
// no notification.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var authorID string
		if err := tx.Model(&models.Post{}).Select("user_id").
			Where("id = ?", comment.PostID).Scan(&authorID).Error; err != nil {
			return err
		}
		if authorID == "" {
			return models.NewNotFoundError("Post", comment.PostID)
		}

		if err := tx.Create(comment).Error; err != nil {
			return err
		}

		if authorID != comment.UserID {
			notification := &models.Notification{
				UserID:      authorID,
				Type:        models.NotificationComment,
				TriggeredBy: comment.UserID,
				PostID:      &comment.PostID,
			}
			if err := tx.Create(notification).Error; err != nil {
				return err
			}
			observability.NotificationsFanout.WithLabelValues(string(models.NotificationComment)).Inc()
		}
		return nil
	})
	if err == nil {
		cache.InvalidatePost(ctx, comment.PostID)
	}
	return err
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost returns the post's comments newest first with the author
// preloaded, plus the total count for the pagination envelope.
func (r *commentRepository) ListByPost(ctx context.Context, postID string, limit, offset int) ([]*models.Comment, int64, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ?", postID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Model(comment).Update("content", comment.Content).Error
	if err == nil {
		cache.InvalidatePost(ctx, comment.PostID)
	}
	return err
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id).Error
	if err == nil {
		cache.InvalidatePost(ctx, comment.PostID)
	}
	return err
}
