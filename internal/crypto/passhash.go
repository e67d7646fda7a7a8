// Package crypto implements server-side password hashing and verification.
package crypto

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"github.com/avkram/accountd/internal/errs"
)

// Hasher hashes and verifies user secrets.
type Hasher interface {
	// Hash returns a salted one-way hash of secret.
	Hash(ctx context.Context, secret string) (string, error)
	// Verify reports whether secret matches hash. A structurally invalid hash
	// returns an error; a plain mismatch is (false, nil).
	Verify(ctx context.Context, secret, hash string) (bool, error)
}

// BcryptHasher hashes with bcrypt at a fixed work factor. Calls pass through a
// counting gate sized for CPU-bound work, so a burst of hash operations cannot
// occupy every scheduler thread and starve I/O-bound request handling.
type BcryptHasher struct {
	cost  int
	slots *semaphore.Weighted
}

var _ Hasher = (*BcryptHasher)(nil)

// NewBcryptHasher constructs a hasher allowing at most workers concurrent
// hash computations. workers <= 0 defaults to the number of CPUs.
func NewBcryptHasher(workers int) *BcryptHasher {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BcryptHasher{cost: bcrypt.DefaultCost, slots: semaphore.NewWeighted(int64(workers))}
}

// Hash returns the bcrypt hash of secret.
func (h *BcryptHasher) Hash(ctx context.Context, secret string) (string, error) {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.slots.Release(1)
	b, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrCredential, err)
	}
	return string(b), nil
}

// Verify compares secret against a bcrypt hash.
func (h *BcryptHasher) Verify(ctx context.Context, secret, hash string) (bool, error) {
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.slots.Release(1)
	switch err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", errs.ErrCredential, err)
	}
}
