package repository

import (
	"context"
	"errors"
	"testing"

	"ripple/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// assertAppErrorCode asserts err is an AppError with the given code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "name", "username", "email"}).
			AddRow("u1", "Test User", "testuser", "test@example.com")
		mock.ExpectQuery(`SELECT \* FROM "users"`).
			WithArgs("u1", 1).
			WillReturnRows(rows)

		user, err := repo.GetByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "testuser", user.Username)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "users"`).
			WithArgs("u99", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.GetByID(ctx, "u99")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_Create_UniqueViolation(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users"`).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_username" (SQLSTATE 23505)`))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.User{
		Name:     "Test",
		Username: "taken",
		Email:    "taken@example.com",
		Password: "hash",
	})
	assertAppErrorCode(t, err, models.CodeAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Block(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate block is rejected", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectBegin()
		// ON CONFLICT DO NOTHING swallows the duplicate; zero rows affected
		// surfaces as the duplicate-action error.
		mock.ExpectExec(`INSERT INTO "blocks"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Block(ctx, "u1", "u2")
		assertAppErrorCode(t, err, models.CodeAlreadyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("block removes follow edges both ways", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "blocks"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "follows"`).
			WithArgs("u1", "u2", "u2", "u1").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		err := repo.Block(ctx, "u1", "u2")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_Unblock_Idempotent(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "blocks"`).
		WithArgs("u1", "u2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Unblock(context.Background(), "u1", "u2")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
