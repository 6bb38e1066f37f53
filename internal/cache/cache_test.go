package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedThing struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

func withTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestGetSetJSON(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	var out cachedThing
	found, err := GetJSON(ctx, "missing", &out)
	require.NoError(t, err)
	assert.False(t, found)

	in := cachedThing{ID: "p1", Count: 3}
	require.NoError(t, SetJSON(ctx, PostKey("p1"), in, time.Minute))

	found, err = GetJSON(ctx, PostKey("p1"), &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestAside(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedThing) func() error {
		return func() error {
			fetches++
			dest.ID = "u1"
			dest.Count = 7
			return nil
		}
	}

	var first cachedThing
	require.NoError(t, Aside(ctx, UserKey("u1"), &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, 7, first.Count)

	// Second read is served from the cache.
	var second cachedThing
	require.NoError(t, Aside(ctx, UserKey("u1"), &second, time.Minute, fetch(&second)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, first, second)
}

func TestAside_FetchErrorIsNotCached(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	fetchErr := errors.New("db down")
	var out cachedThing
	err := Aside(ctx, UserKey("u2"), &out, time.Minute, func() error { return fetchErr })
	assert.ErrorIs(t, err, fetchErr)

	found, err := GetJSON(ctx, UserKey("u2"), &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	withTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey("u1"), cachedThing{ID: "u1"}, time.Minute))
	InvalidateUser(ctx, "u1")

	var out cachedThing
	found, err := GetJSON(ctx, UserKey("u1"), &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNilClientIsSafe(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	var out cachedThing
	found, err := GetJSON(ctx, "key", &out)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, SetJSON(ctx, "key", out, time.Minute))

	// Aside degrades to a plain fetch.
	err = Aside(ctx, "key", &out, time.Minute, func() error {
		out.Count = 1
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Count)
}
