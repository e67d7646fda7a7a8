// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/avkram/accountd/internal/model"
)

// ListOptions is a pagination window over the user collection. Page is 1-based.
type ListOptions struct {
	Page    int
	PerPage int
}

// Clamp normalizes the window: page >= 1 and 1 <= perPage <= maxPerPage.
// Callers clamp before reaching a store; stores trust their input.
func (o ListOptions) Clamp(maxPerPage int) ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PerPage < 1 {
		o.PerPage = 1
	}
	if o.PerPage > maxPerPage {
		o.PerPage = maxPerPage
	}
	return o
}

// Offset returns the 0-based index of the first item in the window.
func (o ListOptions) Offset() int { return (o.Page - 1) * o.PerPage }

// UserRepository provides CRUD and aggregate access for users. Every backend
// exposes the identical error taxonomy: errs.ErrConflict on case-insensitive
// email collisions, errs.ErrNotFound on missing records, errs.ErrRepo when the
// backend itself fails. All methods are safe for concurrent use.
type UserRepository interface {
	// Create inserts a new user. ID and CreatedAt are caller-assigned.
	Create(ctx context.Context, u *model.User) (*model.User, error)
	// GetByID loads a user by id.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByEmail loads a user by email, case-insensitively.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// List returns one page ordered by CreatedAt ascending plus the total
	// count. Out-of-range pages return an empty slice, not an error.
	List(ctx context.Context, opts ListOptions) ([]model.User, int, error)
	// Update replaces the full record; no partial-field merge.
	Update(ctx context.Context, u *model.User) (*model.User, error)
	// Delete removes a user by id.
	Delete(ctx context.Context, id uuid.UUID) error
	// Stats counts users by status variant at a point in time.
	Stats(ctx context.Context) (model.Stats, error)
}
