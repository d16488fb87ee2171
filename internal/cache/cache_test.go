package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetThenGet(t *testing.T) {
	c := NewInMemoryCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, SheetTitleKey("abc"), "Sheet1", time.Minute))

	value, err := c.Get(ctx, SheetTitleKey("abc"))
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", value)
}

func TestGetMiss(t *testing.T) {
	c := NewInMemoryCache()
	defer c.Close()

	_, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestGetExpired(t *testing.T) {
	c := NewInMemoryCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", -time.Second))

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrExpired)
}

func TestDelete(t *testing.T) {
	c := NewInMemoryCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", "1", time.Minute))
	require.NoError(t, c.Set(ctx, "b", "2", time.Minute))

	require.NoError(t, c.Delete(ctx, "a"))
	_, err := c.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrMiss)
	assert.Equal(t, 1, c.Len())

	// Deleting a missing key is not an error.
	require.NoError(t, c.Delete(ctx, "a"))
	assert.Equal(t, 1, c.Len())
}

func TestSweepRemovesExpiredEntries(t *testing.T) {
	c := NewInMemoryCache()
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "old", "x", time.Millisecond))
	require.NoError(t, c.Set(ctx, "fresh", "y", time.Hour))

	c.sweep(time.Now().Add(time.Second))

	assert.Equal(t, 1, c.Len())
	value, err := c.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "y", value)
}

func TestBackgroundCleanup(t *testing.T) {
	c := newInMemoryCache(5 * time.Millisecond)
	defer c.Close()

	require.NoError(t, c.Set(context.Background(), "k", "v", time.Millisecond))

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestCloseIsIdempotent(t *testing.T) {
	c := NewInMemoryCache()
	assert.NotPanics(t, func() {
		c.Close()
		c.Close()
	})
}
