package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_ReturnsSameSources(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir, allFixtures())

	cache := NewCache(NewLoader(defaultPaths(dir), nil))
	first, err := cache.Get(context.Background())
	require.NoError(t, err)

	// Files changing or disappearing after the first load are not observed.
	require.NoError(t, os.Remove(filepath.Join(dir, "orders.csv")))

	second, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 3, second.Orders.Len())
}

func TestCache_ErrorIsCached(t *testing.T) {
	dir := t.TempDir()
	cache := NewCache(NewLoader(defaultPaths(dir), nil))

	_, err := cache.Get(context.Background())
	require.Error(t, err)

	writeFixtures(t, dir, allFixtures())
	_, err = cache.Get(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}
