package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfa-assurance/assurance-connector/internal/session"
)

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	mc := NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })
	return mc
}

func TestMemoryCache_SetGet(t *testing.T) {
	mc := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "sinistres:all", []byte(`[]`), time.Minute))

	got, err := mc.Get(ctx, "sinistres:all")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)
}

func TestMemoryCache_MissingKey(t *testing.T) {
	mc := newTestCache(t)

	_, err := mc.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_ExpiredEntryIsAMiss(t *testing.T) {
	mc := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", []byte("v"), -time.Second))

	_, err := mc.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	exists, err := mc.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryCache_Delete(t *testing.T) {
	mc := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, mc.Delete(ctx, "k"))

	_, err := mc.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_ClearByPrefix(t *testing.T) {
	mc := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "sinistres:all", []byte("a"), time.Minute))
	require.NoError(t, mc.Set(ctx, "sinistres:client:42", []byte("b"), time.Minute))
	require.NoError(t, mc.Set(ctx, "contracts:all", []byte("c"), time.Minute))

	require.NoError(t, mc.Clear(ctx, "sinistres:*"))

	_, err := mc.Get(ctx, "sinistres:all")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = mc.Get(ctx, "sinistres:client:42")
	assert.ErrorIs(t, err, ErrCacheMiss)

	got, err := mc.Get(ctx, "contracts:all")
	require.NoError(t, err)
	assert.Equal(t, []byte("c"), got)
}

func TestListingKey(t *testing.T) {
	own := session.Scope{Visibility: session.VisibilityOwn, OwnerID: 42}
	all := session.Scope{Visibility: session.VisibilityAll}

	assert.Equal(t, "sinistres:client:42", ListingKey("sinistres", own))
	assert.Equal(t, "sinistres:all", ListingKey("sinistres", all))
	assert.Equal(t, "contracts:all", ListingKey("contracts", all))
}
