package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"ripple/internal/config"
	"ripple/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// The Prometheus middleware registers collectors globally, so the test server
// is built once and shared.
var (
	testOnce sync.Once
	testApp  *fiber.App
	testMock sqlmock.Sqlmock
)

func testServer(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()
	testOnce.Do(func() {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
		require.NoError(t, err)

		cfg := &config.Config{
			JWTSecret: "test-secret-key-12345678901234567890123456789012",
			Port:      "0",
			Env:       "test",
		}
		srv, err := NewServerWithDeps(cfg, gormDB, nil)
		require.NoError(t, err)

		app := fiber.New()
		srv.SetupRoutes(app)

		testApp = app
		testMock = mock
	})
	return testApp, testMock
}

func decodeError(t *testing.T, resp *http.Response) models.ErrorResponse {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestSearch_QueryValidation(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	app, _ := testServer(t)

	t.Run("one character query is rejected", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/search?q=x", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, models.CodeValidation, decodeError(t, resp).Code)
	})

	t.Run("missing query is rejected", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/search", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/search?q=go&type=bogus", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("two character query executes", func(t *testing.T) {
		_, mock := testServer(t)
		mock.ExpectQuery(`SELECT users\.id`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username", "follower_count"}))
		mock.ExpectQuery(`SELECT posts\..+ FROM "posts"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "content"}))
		mock.ExpectQuery(`SELECT \* FROM "hashtags"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tag", "post_count"}))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/search?q=go", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetPost_InvalidID(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	app, _ := testServer(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, models.CodeValidation, decodeError(t, resp).Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	app, _ := testServer(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/posts/"},
		{http.MethodPost, "/api/likes/7f1d2c3e-0000-0000-0000-000000000000"},
		{http.MethodGet, "/api/messages/conversations"},
		{http.MethodGet, "/api/notifications/"},
		{http.MethodGet, "/api/discover/explore"},
	}

	for _, rt := range routes {
		rt := rt
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(rt.method, rt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestGetPosts_PaginationEnvelope(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	app, mock := testServer(t)

	mock.ExpectQuery(`SELECT posts\..+ FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "content", "like_count", "comment_count", "liked"}))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data       []any             `json:"data"`
		Pagination models.Pagination `json:"pagination"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(0), body.Pagination.Total)
	assert.Equal(t, 1, body.Pagination.Page)
	assert.Equal(t, 50, body.Pagination.Limit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParsePagination(t *testing.T) {
	app := fiber.New()
	var got Pagination
	app.Get("/p", func(c *fiber.Ctx) error {
		got = parsePagination(c, 20)
		return c.SendStatus(http.StatusOK)
	})

	tests := []struct {
		name  string
		query string
		want  Pagination
	}{
		{"defaults", "", Pagination{Page: 1, Limit: 20, Offset: 0}},
		{"second page", "?page=2", Pagination{Page: 2, Limit: 20, Offset: 20}},
		{"custom limit", "?page=3&limit=10", Pagination{Page: 3, Limit: 10, Offset: 20}},
		{"limit capped", "?limit=9999", Pagination{Page: 1, Limit: 100, Offset: 0}},
		{"negative page clamped", "?page=-4", Pagination{Page: 1, Limit: 20, Offset: 0}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := app.Test(httptest.NewRequest(http.MethodGet, "/p"+tt.query, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
