package repository

import (
	"context"

	"ripple/internal/models"

	"gorm.io/gorm"
)

// HashtagRepository defines the interface for hashtag operations
type HashtagRepository interface {
	Search(ctx context.Context, query string, limit int) ([]*models.Hashtag, error)
	Trending(ctx context.Context, limit int) ([]*models.Hashtag, error)
	PostsByTag(ctx context.Context, tag, viewerID string, limit, offset int) ([]*models.Post, int64, error)
}

// hashtagRepository implements HashtagRepository
type hashtagRepository struct {
	db *gorm.DB
}

// NewHashtagRepository creates a new hashtag repository
func NewHashtagRepository(db *gorm.DB) HashtagRepository {
	return &hashtagRepository{db: db}
}

func (r *hashtagRepository) Search(ctx context.Context, query string, limit int) ([]*models.Hashtag, error) {
	var hashtags []*models.Hashtag
	err := r.db.WithContext(ctx).
		Where("tag ILIKE ?", "%"+query+"%").
		Order("post_count DESC").
		Limit(limit).
		Find(&hashtags).Error
	return hashtags, err
}

func (r *hashtagRepository) Trending(ctx context.Context, limit int) ([]*models.Hashtag, error) {
	var hashtags []*models.Hashtag
	err := r.db.WithContext(ctx).
		Where("post_count > 0").
		Order("post_count DESC").
		Limit(limit).
		Find(&hashtags).Error
	return hashtags, err
}

// PostsByTag returns the posts linked to a tag newest first, annotated with
// the viewer's like state, plus the total for the pagination envelope.
func (r *hashtagRepository) PostsByTag(ctx context.Context, tag, viewerID string, limit, offset int) ([]*models.Post, int64, error) {
	tagJoin := func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN post_hashtags ON post_hashtags.post_id = posts.id").
			Joins("JOIN hashtags ON hashtags.id = post_hashtags.hashtag_id").
			Where("hashtags.tag = ?", tag)
	}

	var posts []*models.Post
	err := tagJoin(applyPostDetails(r.db.WithContext(ctx), viewerID)).
		Preload("User").
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := tagJoin(r.db.WithContext(ctx).Model(&models.Post{})).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
