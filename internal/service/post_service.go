// Package service contains validation, ownership checks and orchestration
// between handlers and repositories.
package service

import (
	"context"
	"regexp"
	"strings"

	"ripple/internal/models"
	"ripple/internal/repository"
)

// hashtagPattern matches #tags in post content. Tags are stored lowercased
// without the leading #.
var hashtagPattern = regexp.MustCompile(`#(\w+)`)

// ExtractHashtags returns the deduplicated, lowercased tags in content.
func ExtractHashtags(content string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(content, -1)
	seen := make(map[string]struct{}, len(matches))
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tag := strings.ToLower(m[1])
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	UserID   string
	Content  string
	ImageURL string
}

type DeletePostInput struct {
	UserID string
	PostID string
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

const maxPostLen = 5000

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxPostLen {
		return nil, models.NewValidationError("Post too long (max 5000 characters)")
	}

	post := &models.Post{
		UserID:   in.UserID,
		Content:  in.Content,
		ImageURL: in.ImageURL,
	}
	if err := s.postRepo.Create(ctx, post, ExtractHashtags(in.Content)); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) GetPost(ctx context.Context, postID, viewerID string) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID, viewerID)
}

func (s *PostService) ListPosts(ctx context.Context, viewerID string, limit, offset int) ([]*models.Post, int64, error) {
	return s.postRepo.List(ctx, viewerID, limit, offset)
}

func (s *PostService) ListUserPosts(ctx context.Context, userID, viewerID string, limit, offset int) ([]*models.Post, int64, error) {
	return s.postRepo.ListByUser(ctx, userID, viewerID, limit, offset)
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, "")
	if err != nil {
		return err
	}
	if post.UserID != in.UserID {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, in.PostID)
}
