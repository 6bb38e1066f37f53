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

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn     func(context.Context, *models.Post, []string) error
	getByIDFn    func(context.Context, string, string) (*models.Post, error)
	listFn       func(context.Context, string, int, int) ([]*models.Post, int64, error)
	listByUserFn func(context.Context, string, string, int, int) ([]*models.Post, int64, error)
	exploreFn    func(context.Context, string, int, int) ([]*models.Post, int64, error)
	searchFn     func(context.Context, string, string, int) ([]*models.Post, error)
	trendingFn   func(context.Context, int) ([]*models.Post, error)
	deleteFn     func(context.Context, string) error
	likeFn       func(context.Context, string, string) error
	unlikeFn     func(context.Context, string, string) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post, tags []string) error {
	return s.createFn(ctx, post, tags)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, viewerID string) (*models.Post, error) {
	return s.getByIDFn(ctx, id, viewerID)
}
func (s *postRepoStub) List(ctx context.Context, viewerID string, limit, offset int) ([]*models.Post, int64, error) {
	return s.listFn(ctx, viewerID, limit, offset)
}
func (s *postRepoStub) ListByUser(ctx context.Context, userID, viewerID string, limit, offset int) ([]*models.Post, int64, error) {
	return s.listByUserFn(ctx, userID, viewerID, limit, offset)
}
func (s *postRepoStub) Explore(ctx context.Context, viewerID string, limit, offset int) ([]*models.Post, int64, error) {
	return s.exploreFn(ctx, viewerID, limit, offset)
}
func (s *postRepoStub) Search(ctx context.Context, query, viewerID string, limit int) ([]*models.Post, error) {
	return s.searchFn(ctx, query, viewerID, limit)
}
func (s *postRepoStub) Trending(ctx context.Context, limit int) ([]*models.Post, error) {
	return s.trendingFn(ctx, limit)
}
func (s *postRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID string) error {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID string) error {
	return s.unlikeFn(ctx, userID, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post, _ []string) error { return nil },
		getByIDFn: func(_ context.Context, id, _ string) (*models.Post, error) {
			return &models.Post{ID: id}, nil
		},
		listFn: func(_ context.Context, _ string, _, _ int) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		listByUserFn: func(_ context.Context, _, _ string, _, _ int) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		exploreFn: func(_ context.Context, _ string, _, _ int) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		searchFn:   func(_ context.Context, _, _ string, _ int) ([]*models.Post, error) { return nil, nil },
		trendingFn: func(_ context.Context, _ int) ([]*models.Post, error) { return nil, nil },
		deleteFn:   func(_ context.Context, _ string) error { return nil },
		likeFn:     func(_ context.Context, _, _ string) error { return nil },
		unlikeFn:   func(_ context.Context, _, _ string) error { return nil },
	}
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

// assertUnauthorizedError asserts that err is an AppError with code UNAUTHORIZED.
func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}

func TestExtractHashtags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"single tag", "hello #world", []string{"world"}},
		{"multiple tags", "#go and #redis and #Go", []string{"go", "redis"}},
		{"no tags", "plain content", []string{}},
		{"tag with digits", "release #v2 notes", []string{"v2"}},
		{"bare hash ignored", "just a # sign", []string{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExtractHashtags(tt.content))
		})
	}
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	svc := NewPostService(noopPostRepo())
	ctx := context.Background()

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: "u1"})
		assertValidationError(t, err)
	})

	t.Run("whitespace content", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: "u1", Content: "   "})
		assertValidationError(t, err)
	})

	t.Run("content too long", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{
			UserID:  "u1",
			Content: strings.Repeat("x", 5001),
		})
		assertValidationError(t, err)
	})
}

func TestPostService_CreatePost_ExtractsHashtags(t *testing.T) {
	t.Parallel()

	var gotTags []string
	repo := noopPostRepo()
	repo.createFn = func(_ context.Context, post *models.Post, tags []string) error {
		post.ID = "p1"
		gotTags = tags
		return nil
	}
	repo.getByIDFn = func(_ context.Context, id, viewerID string) (*models.Post, error) {
		return &models.Post{ID: id, UserID: viewerID, Content: "hello #world"}, nil
	}

	svc := NewPostService(repo)
	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:  "u1",
		Content: "hello #world",
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", post.ID)
	assert.Equal(t, []string{"world"}, gotTags)
}

func TestPostService_DeletePost_Ownership(t *testing.T) {
	t.Parallel()

	t.Run("non-owner cannot delete", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id, _ string) (*models.Post, error) {
			return &models.Post{ID: id, UserID: "someone-else"}, nil
		}
		svc := NewPostService(repo)
		err := svc.DeletePost(context.Background(), DeletePostInput{UserID: "u1", PostID: "p1"})
		assertUnauthorizedError(t, err)
	})

	t.Run("owner can delete", func(t *testing.T) {
		t.Parallel()
		deleted := ""
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id, _ string) (*models.Post, error) {
			return &models.Post{ID: id, UserID: "u1"}, nil
		}
		repo.deleteFn = func(_ context.Context, id string) error {
			deleted = id
			return nil
		}
		svc := NewPostService(repo)
		err := svc.DeletePost(context.Background(), DeletePostInput{UserID: "u1", PostID: "p1"})
		require.NoError(t, err)
		assert.Equal(t, "p1", deleted)
	})

	t.Run("missing post propagates repo error", func(t *testing.T) {
		t.Parallel()
		repoErr := errors.New("post not found")
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _, _ string) (*models.Post, error) {
			return nil, repoErr
		}
		svc := NewPostService(repo)
		err := svc.DeletePost(context.Background(), DeletePostInput{UserID: "u1", PostID: "p1"})
		assert.ErrorIs(t, err, repoErr)
	})
}
