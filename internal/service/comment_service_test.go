package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ripple/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, string) (*models.Comment, error)
	listByPostFn func(context.Context, string, int, int) ([]*models.Comment, int64, error)
	updateFn     func(context.Context, *models.Comment) error
	deleteFn     func(context.Context, string) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID string, limit, offset int) ([]*models.Comment, int64, error) {
	return s.listByPostFn(ctx, postID, limit, offset)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:  func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id string) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn: func(_ context.Context, _ string, _, _ int) ([]*models.Comment, int64, error) {
			return nil, 0, nil
		},
		updateFn: func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn: func(_ context.Context, _ string) error { return nil },
	}
}

func TestCommentService_CreateComment_Validation(t *testing.T) {
	t.Parallel()

	svc := NewCommentService(noopCommentRepo())
	ctx := context.Background()

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: "u1", PostID: "p1"})
		assertValidationError(t, err)
	})

	t.Run("content too long", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, CreateCommentInput{
			UserID:  "u1",
			PostID:  "p1",
			Content: strings.Repeat("x", 2001),
		})
		assertValidationError(t, err)
	})

	t.Run("missing post propagates repo error", func(t *testing.T) {
		t.Parallel()
		repo := noopCommentRepo()
		repo.createFn = func(_ context.Context, _ *models.Comment) error {
			return models.NewNotFoundError("Post", "p99")
		}
		svc2 := NewCommentService(repo)
		_, err := svc2.CreateComment(ctx, CreateCommentInput{UserID: "u1", PostID: "p99", Content: "hi"})
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})
}

func TestCommentService_CreateComment_Success(t *testing.T) {
	t.Parallel()

	repo := noopCommentRepo()
	repo.createFn = func(_ context.Context, c *models.Comment) error {
		c.ID = "c42"
		return nil
	}
	repo.getByIDFn = func(_ context.Context, id string) (*models.Comment, error) {
		return &models.Comment{ID: id, Content: "hello", UserID: "u1", PostID: "p1"}, nil
	}

	svc := NewCommentService(repo)
	comment, err := svc.CreateComment(context.Background(), CreateCommentInput{
		UserID:  "u1",
		PostID:  "p1",
		Content: "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "c42", comment.ID)
	assert.Equal(t, "hello", comment.Content)
}

func TestCommentService_UpdateComment_Ownership(t *testing.T) {
	t.Parallel()

	t.Run("non-owner cannot update", func(t *testing.T) {
		t.Parallel()
		repo := noopCommentRepo()
		repo.getByIDFn = func(_ context.Context, _ string) (*models.Comment, error) {
			return &models.Comment{ID: "c1", UserID: "u10"}, nil
		}
		svc := NewCommentService(repo)
		_, err := svc.UpdateComment(context.Background(), UpdateCommentInput{UserID: "u1", CommentID: "c1", Content: "new"})
		assertUnauthorizedError(t, err)
	})

	t.Run("empty content is invalid", func(t *testing.T) {
		t.Parallel()
		repo := noopCommentRepo()
		repo.getByIDFn = func(_ context.Context, _ string) (*models.Comment, error) {
			return &models.Comment{ID: "c1", UserID: "u1"}, nil
		}
		svc := NewCommentService(repo)
		_, err := svc.UpdateComment(context.Background(), UpdateCommentInput{UserID: "u1", CommentID: "c1", Content: " "})
		assertValidationError(t, err)
	})

	t.Run("owner can update content", func(t *testing.T) {
		t.Parallel()
		storedContent := "old"
		repo := noopCommentRepo()
		repo.getByIDFn = func(_ context.Context, _ string) (*models.Comment, error) {
			return &models.Comment{ID: "c1", UserID: "u1", Content: storedContent}, nil
		}
		repo.updateFn = func(_ context.Context, c *models.Comment) error {
			storedContent = c.Content
			return nil
		}
		svc := NewCommentService(repo)
		comment, err := svc.UpdateComment(context.Background(), UpdateCommentInput{UserID: "u1", CommentID: "c1", Content: "updated"})
		require.NoError(t, err)
		assert.Equal(t, "updated", comment.Content)
	})
}

func TestCommentService_DeleteComment_Ownership(t *testing.T) {
	t.Parallel()

	t.Run("owner can delete", func(t *testing.T) {
		t.Parallel()
		deleted := ""
		repo := noopCommentRepo()
		repo.getByIDFn = func(_ context.Context, _ string) (*models.Comment, error) {
			return &models.Comment{ID: "c1", UserID: "u1"}, nil
		}
		repo.deleteFn = func(_ context.Context, id string) error {
			deleted = id
			return nil
		}
		svc := NewCommentService(repo)
		require.NoError(t, svc.DeleteComment(context.Background(), DeleteCommentInput{UserID: "u1", CommentID: "c1"}))
		assert.Equal(t, "c1", deleted)
	})

	t.Run("non-owner cannot delete", func(t *testing.T) {
		t.Parallel()
		repo := noopCommentRepo()
		repo.getByIDFn = func(_ context.Context, _ string) (*models.Comment, error) {
			return &models.Comment{ID: "c1", UserID: "u10"}, nil
		}
		svc := NewCommentService(repo)
		err := svc.DeleteComment(context.Background(), DeleteCommentInput{UserID: "u1", CommentID: "c1"})
		assertUnauthorizedError(t, err)
	})
}
