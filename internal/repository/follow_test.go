package repository

import (
	"context"
	"testing"

	"ripple/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository_Follow(t *testing.T) {
	ctx := context.Background()

	t.Run("self-follow is rejected before touching the DB", func(t *testing.T) {
		db, _ := setupMockDB(t)
		repo := NewFollowRepository(db)

		err := repo.Follow(ctx, "u1", "u1")
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("missing target", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewFollowRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT count\(\*\) > 0 FROM "users"`).
			WithArgs("u99").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		err := repo.Follow(ctx, "u1", "u99")
		assertAppErrorCode(t, err, models.CodeNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate follow is rejected", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewFollowRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT count\(\*\) > 0 FROM "users"`).
			WithArgs("u2").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectExec(`INSERT INTO "follows"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Follow(ctx, "u1", "u2")
		assertAppErrorCode(t, err, models.CodeAlreadyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("follow fans out a notification", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewFollowRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT count\(\*\) > 0 FROM "users"`).
			WithArgs("u2").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectExec(`INSERT INTO "follows"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "notifications"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Follow(ctx, "u1", "u2")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFollowRepository_Unfollow_Idempotent(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFollowRepository(db)

	mock.ExpectBegin()
	// No edge deleted; still not an error.
	mock.ExpectExec(`DELETE FROM "follows"`).
		WithArgs("u1", "u2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Unfollow(context.Background(), "u1", "u2")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowRepository_IsFollowing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFollowRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "follows"`).
		WithArgs("u1", "u2").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	following, err := repo.IsFollowing(context.Background(), "u1", "u2")
	require.NoError(t, err)
	assert.True(t, following)
	assert.NoError(t, mock.ExpectationsWereMet())
}
