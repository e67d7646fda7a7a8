package crypto

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avkram/accountd/internal/errs"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(2)
	ctx := context.Background()

	hash, err := h.Hash(ctx, "Password1")
	require.NoError(t, err)
	require.NotEqual(t, "Password1", hash)

	ok, err := h.Verify(ctx, "Password1", hash)
	require.NoError(t, err)
	require.True(t, ok)

	// Wrong secret is a clean non-match, not an error.
	ok, err = h.Verify(ctx, "wrong1234", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(1)

	ok, err := h.Verify(context.Background(), "Password1", "not-a-bcrypt-hash")
	require.False(t, ok)
	require.ErrorIs(t, err, errs.ErrCredential)
}

func TestBcryptHasher_CanceledContext(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Hash(ctx, "Password1")
	require.Error(t, err)
	_, err = h.Verify(ctx, "Password1", "whatever")
	require.Error(t, err)
}
