// Package memory provides an in-process UserRepository for development and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/gofrs/uuid/v5"

	"github.com/avkram/accountd/internal/errs"
	"github.com/avkram/accountd/internal/model"
	"github.com/avkram/accountd/internal/repository"
)

// UserRepo keeps users in a map guarded by a reader/writer lock: reads run
// concurrently, a mutation excludes everything else for its duration.
type UserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]model.User
}

var _ repository.UserRepository = (*UserRepo)(nil)

// NewUserRepo constructs an empty in-memory repository.
func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[uuid.UUID]model.User)}
}

// Create inserts a new user, rejecting case-insensitive email duplicates.
func (r *UserRepo) Create(_ context.Context, u *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, errs.ErrConflict
		}
	}
	r.users[u.ID] = *u
	stored := r.users[u.ID]
	return &stored, nil
}

// GetByID loads a user by id.
func (r *UserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &u, nil
}

// GetByEmail loads a user by email, case-insensitively.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cpy := u
			return &cpy, nil
		}
	}
	return nil, errs.ErrNotFound
}

// List returns one page ordered by CreatedAt ascending (id as tie-break for a
// stable order) plus the total count.
func (r *UserRepo) List(_ context.Context, opts repository.ListOptions) ([]model.User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID.String() < all[j].ID.String()
	})
	total := len(all)
	start := opts.Offset()
	if start >= total {
		return []model.User{}, total, nil
	}
	end := start + opts.PerPage
	if end > total {
		end = total
	}
	page := make([]model.User, end-start)
	copy(page, all[start:end])
	return page, total, nil
}

// Update replaces the full record of an existing user.
func (r *UserRepo) Update(_ context.Context, u *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return nil, errs.ErrNotFound
	}
	for id, existing := range r.users {
		if id != u.ID && strings.EqualFold(existing.Email, u.Email) {
			return nil, errs.ErrConflict
		}
	}
	r.users[u.ID] = *u
	stored := r.users[u.ID]
	return &stored, nil
}

// Delete removes a user by id.
func (r *UserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// Stats counts users by status variant under the read lock, so the snapshot
// never double-counts or misses a record present at the start of the call.
func (r *UserRepo) Stats(_ context.Context) (model.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := model.Stats{Total: len(r.users)}
	for _, u := range r.users {
		switch u.Status.(type) {
		case model.Active:
			stats.Active++
		case model.Suspended:
			stats.Suspended++
		case model.PendingVerification:
			stats.Pending++
		}
	}
	return stats, nil
}
