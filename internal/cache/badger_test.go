package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Badger {
	t.Helper()
	c, err := OpenBadger("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

type category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestBadger_SetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	want := []category{{ID: 1, Name: "Technology"}, {ID: 2, Name: "Business"}}
	require.NoError(t, c.Set(ctx, "categories:blog:active", want, time.Hour))

	var got []category
	ok, err := c.Get(ctx, "categories:blog:active", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	ok, err = c.Get(ctx, "categories:blog:all", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBadger_Expiry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	// Badger TTLs have one-second resolution.
	require.NoError(t, c.Set(ctx, "short", "value", time.Second))
	time.Sleep(2100 * time.Millisecond)

	var got string
	ok, err := c.Get(ctx, "short", &got)
	require.NoError(t, err)
	assert.False(t, ok, "entry should have expired")
}

func TestBadger_DeleteAndPrefix(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	for _, key := range []string{"tags:popular:*:10", "tags:popular:blog:5", "categories:job:all"} {
		require.NoError(t, c.Set(ctx, key, 1, time.Hour))
	}

	require.NoError(t, c.DeletePrefix(ctx, "tags:popular:"))
	require.NoError(t, c.Delete(ctx, "missing-key"))

	var n int
	ok, _ := c.Get(ctx, "tags:popular:*:10", &n)
	assert.False(t, ok)
	ok, _ = c.Get(ctx, "tags:popular:blog:5", &n)
	assert.False(t, ok)
	ok, _ = c.Get(ctx, "categories:job:all", &n)
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, "categories:job:all"))
	ok, _ = c.Get(ctx, "categories:job:all", &n)
	assert.False(t, ok)
}

func TestRemember(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"go", "rust"}, nil
	}

	for range 3 {
		got, err := Remember(ctx, c, "tags", time.Hour, load)
		require.NoError(t, err)
		assert.Equal(t, []string{"go", "rust"}, got)
	}
	assert.Equal(t, 1, calls)

	boom := errors.New("db down")
	_, err := Remember(ctx, c, "failing", time.Hour, func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	var n int
	ok, _ := c.Get(ctx, "failing", &n)
	assert.False(t, ok, "failed loads must not be cached")
}
