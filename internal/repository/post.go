package repository

import (
	"context"
	"errors"

	"ripple/internal/cache"
	"ripple/internal/models"
	"ripple/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post, tags []string) error
	GetByID(ctx context.Context, id, viewerID string) (*models.Post, error)
	List(ctx context.Context, viewerID string, limit, offset int) ([]*models.Post, int64, error)
	ListByUser(ctx context.Context, userID, viewerID string, limit, offset int) ([]*models.Post, int64, error)
	Explore(ctx context.Context, viewerID string, limit, offset int) ([]*models.Post, int64, error)
	Search(ctx context.Context, query, viewerID string, limit int) ([]*models.Post, error)
	Trending(ctx context.Context, limit int) ([]*models.Post, error)
	Delete(ctx context.Context, id string) error
	Like(ctx context.Context, userID, postID string) error
	Unlike(ctx context.Context, userID, postID string) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// onConflictDoNothing builds an INSERT ... ON CONFLICT (cols) DO NOTHING
// clause so duplicate toggles are resolved atomically at the store level.
func onConflictDoNothing(cols ...string) clause.OnConflict {
	conflictCols := make([]clause.Column, len(cols))
	for i, col := range cols {
		conflictCols[i] = clause.Column{Name: col}
	}
	return clause.OnConflict{Columns: conflictCols, DoNothing: true}
}

// applyPostDetails adds subqueries computing like/comment counts and the
// viewer's liked flag in a single query. Counts are always derived from the
// like/comment rows, never from a cached counter.
func applyPostDetails(db *gorm.DB, viewerID string) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS like_count, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count"

	if viewerID != "" {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS liked", viewerID)
	}

	return db.Select(selectQuery + ", false AS liked")
}

// Create inserts the post together with its hashtag bookkeeping: every tag is
// upserted with a post_count increment and linked through post_hashtags, all
// in one transaction.
func (r *postRepository) Create(ctx context.Context, post *models.Post, tags []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}

		for _, tag := range tags {
			var hashtagID string
			if err := tx.Raw(`
				INSERT INTO hashtags (id, tag, post_count, created_at)
				VALUES (gen_random_uuid(), ?, 1, NOW())
				ON CONFLICT (tag) DO UPDATE SET post_count = hashtags.post_count + 1
				RETURNING id`, tag,
			).Scan(&hashtagID).Error; err != nil {
				return err
			}

			link := &models.PostHashtag{PostID: post.ID, HashtagID: hashtagID}
			if err := tx.Clauses(onConflictDoNothing("post_id", "hashtag_id")).Create(link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *postRepository) GetByID(ctx context.Context, id, viewerID string) (*models.Post, error) {
	var post models.Post

	// Only the anonymous view is cacheable; the liked flag is viewer-scoped.
	if viewerID == "" {
		err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
			return applyPostDetails(r.db.WithContext(ctx), "").
				Preload("User").
				First(&post, "posts.id = ?", id).Error
		})
		if err != nil {
			return nil, err
		}
		return &post, nil
	}

	err := applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		First(&post, "posts.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, viewerID string, limit, offset int) ([]*models.Post, int64, error) {
	var posts []*models.Post
	err := applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID, viewerID string, limit, offset int) ([]*models.Post, int64, error) {
	var posts []*models.Post
	err := applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Where("posts.user_id = ?", userID).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Explore returns posts from users the viewer does not follow and is not the
// viewer, newest first.
func (r *postRepository) Explore(ctx context.Context, viewerID string, limit, offset int) ([]*models.Post, int64, error) {
	notFollowed := "posts.user_id <> ? AND posts.user_id NOT IN (SELECT following_id FROM follows WHERE follower_id = ?)"

	var posts []*models.Post
	err := applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Where(notFollowed, viewerID, viewerID).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where(notFollowed, viewerID, viewerID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) Search(ctx context.Context, query, viewerID string, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	like := "%" + query + "%"
	err := applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Where("posts.content ILIKE ?", like).
		Order("posts.created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// Trending ranks posts by engagement score (like_count + 2*comment_count),
// computed inline per request. Postgres only resolves an output alias in
// ORDER BY as a bare name, so the score is selected as its own alias.
func (r *postRepository) Trending(ctx context.Context, limit int) ([]*models.Post, error) {
	likeCount := "(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id)"
	commentCount := "(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id)"

	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Select("posts.*, "+likeCount+" AS like_count, "+commentCount+" AS comment_count, false AS liked, ("+likeCount+" + 2 * "+commentCount+") AS score").
		Preload("User").
		Order("score DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// Delete removes the post and everything hanging off it: comments, likes,
// notifications referencing it, and hashtag links (with post_count
// decremented), in one transaction. Nothing is orphaned.
func (r *postRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
			UPDATE hashtags SET post_count = post_count - 1
			WHERE id IN (SELECT hashtag_id FROM post_hashtags WHERE post_id = ?)
			  AND post_count > 0`, id,
		).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostHashtag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, "id = ?", id).Error
	})
	if err == nil {
		cache.InvalidatePost(ctx, id)
	}
	return err
}

// Like inserts the like atomically (ON CONFLICT DO NOTHING) and fans out a
// "like" notification to the post author in the same transaction. A duplicate
// like reports the duplicate-action error and leaves the count unchanged.
func (r *postRepository) Like(ctx context.Context, userID, postID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var authorID string
		if err := tx.Model(&models.Post{}).Select("user_id").
			Where("id = ?", postID).Scan(&authorID).Error; err != nil {
			return err
		}
		if authorID == "" {
			return models.NewNotFoundError("Post", postID)
		}

		like := &models.Like{UserID: userID, PostID: postID}
		res := tx.Clauses(onConflictDoNothing("user_id", "post_id")).Create(like)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewAlreadyExistsError("Post already liked")
		}

		if authorID != userID {
			notification := &models.Notification{
				UserID:      authorID,
				Type:        models.NotificationLike,
				TriggeredBy: userID,
				PostID:      &postID,
			}
			if err := tx.Create(notification).Error; err != nil {
				return err
			}
			observability.NotificationsFanout.WithLabelValues(string(models.NotificationLike)).Inc()
		}
		return nil
	})
	if err == nil {
		cache.InvalidatePost(ctx, postID)
	}
	return err
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID string) error {
	// Idempotent: unliking a non-liked post is not an error.
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error
	if err == nil {
		cache.InvalidatePost(ctx, postID)
	}
	return err
}

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true
	}
	var appErr *models.AppError
	return errors.As(err, &appErr) && appErr.Code == models.CodeNotFound
}
