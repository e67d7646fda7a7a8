package token

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/avkram/accountd/internal/errs"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStore_PutExistsDelete(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	ok, err := store.Exists(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Put(ctx, "jti-1", time.Minute))
	ok, err = store.Exists(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.Delete(ctx, "jti-1"))
	ok, err = store.Exists(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, ok)

	// Deleting an absent id is not an error.
	require.NoError(t, store.Delete(ctx, "jti-1"))
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "jti-2", time.Minute))
	mr.FastForward(2 * time.Minute)

	ok, err := store.Exists(ctx, "jti-2")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisStore_Unreachable(t *testing.T) {
	store, mr := newRedisStore(t)
	mr.Close()
	ctx := context.Background()

	require.ErrorIs(t, store.Put(ctx, "jti-3", time.Minute), errs.ErrRepo)
	_, err := store.Exists(ctx, "jti-3")
	require.ErrorIs(t, err, errs.ErrRepo)
	require.ErrorIs(t, store.Delete(ctx, "jti-3"), errs.ErrRepo)
}
