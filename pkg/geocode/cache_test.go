package geocode

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := OpenCache(filepath.Join(t.TempDir(), "geocode_cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_PutGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	want := &Result{
		Latitude:    39.7392,
		Longitude:   -104.9903,
		DisplayName: "Denver, Colorado, United States",
		Source:      "nominatim",
		Matched:     true,
	}
	require.NoError(t, c.Put(ctx, "Denver, CO", want))

	got, ok := c.Get(ctx, "Denver, CO")
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestCache_MissReturnsFalse(t *testing.T) {
	c := newTestCache(t)

	got, ok := c.Get(context.Background(), "never seen before")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestCache_KeyNormalization(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "Denver, CO", &Result{Matched: true, Source: "nominatim"}))

	// Case and surrounding whitespace do not miss the cache.
	_, ok := c.Get(ctx, "  denver, co  ")
	assert.True(t, ok)

	// A different address does.
	_, ok = c.Get(ctx, "Denver CO")
	assert.False(t, ok)
}

func TestCache_StoresNonMatches(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "000 Nonexistent", &Result{Matched: false, Source: "nominatim"}))

	got, ok := c.Get(ctx, "000 Nonexistent")
	require.True(t, ok)
	assert.False(t, got.Matched)
}

func TestCache_PutOverwrites(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "Denver, CO", &Result{Matched: false, Source: "nominatim"}))
	require.NoError(t, c.Put(ctx, "Denver, CO", &Result{
		Latitude: 39.7392, Longitude: -104.9903, Matched: true, Source: "google",
	}))

	got, ok := c.Get(ctx, "Denver, CO")
	require.True(t, ok)
	assert.True(t, got.Matched)
	assert.Equal(t, "google", got.Source)
}
