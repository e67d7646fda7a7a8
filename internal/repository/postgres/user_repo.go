package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/avkram/accountd/internal/errs"
	"github.com/avkram/accountd/internal/model"
	"github.com/avkram/accountd/internal/repository"
)

// UserRepo implements repository.UserRepository using PostgreSQL. Driver
// errors never leak past this package: a unique violation maps to
// errs.ErrConflict, a missing row to errs.ErrNotFound, everything else to
// errs.ErrRepo.
type UserRepo struct{ db *DB }

var _ repository.UserRepository = (*UserRepo)(nil)

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// statusColumns flattens a Status variant into its storage columns.
func statusColumns(s model.Status) (kind, reason string, until *time.Time, code string) {
	switch v := s.(type) {
	case model.Active:
		return v.Kind(), "", nil, ""
	case model.Suspended:
		return v.Kind(), v.Reason, v.Until, ""
	case model.PendingVerification:
		return v.Kind(), "", nil, v.Code
	}
	return model.Active{}.Kind(), "", nil, ""
}

// statusFromColumns rebuilds a Status variant from its storage columns.
func statusFromColumns(kind, reason string, until *time.Time, code string) model.Status {
	switch kind {
	case model.Suspended{}.Kind():
		return model.Suspended{Reason: reason, Until: until}
	case model.PendingVerification{}.Kind():
		return model.PendingVerification{Code: code}
	default:
		return model.Active{}
	}
}

func mapError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, pgx.ErrNoRows):
		return errs.ErrNotFound
	case isUniqueViolation(err):
		return errs.ErrConflict
	default:
		return errs.ErrRepo
	}
}

// Create inserts a new user row.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
INSERT INTO users (id, email, pwd_hash, created_at, status, status_reason, status_until, status_code)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	kind, reason, until, code := statusColumns(u.Status)
	if _, err := r.db.Pool.Exec(ctx, q, u.ID, u.Email, u.CredentialHash, u.CreatedAt, kind, reason, until, code); err != nil {
		return nil, mapError(err)
	}
	stored := *u
	return &stored, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		u      model.User
		kind   string
		reason string
		until  *time.Time
		code   string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.CredentialHash, &u.CreatedAt, &kind, &reason, &until, &code); err != nil {
		return nil, mapError(err)
	}
	u.Status = statusFromColumns(kind, reason, until, code)
	return &u, nil
}

// GetByID selects a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const q = `
SELECT id, email, pwd_hash, created_at, status, status_reason, status_until, status_code
FROM users WHERE id=$1`
	return scanUser(r.db.Pool.QueryRow(ctx, q, id))
}

// GetByEmail selects a user by email, case-insensitively.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `
SELECT id, email, pwd_hash, created_at, status, status_reason, status_until, status_code
FROM users WHERE lower(email)=lower($1)`
	return scanUser(r.db.Pool.QueryRow(ctx, q, email))
}

// List returns one page ordered by created_at ascending plus the total count.
func (r *UserRepo) List(ctx context.Context, opts repository.ListOptions) ([]model.User, int, error) {
	const q = `
SELECT id, email, pwd_hash, created_at, status, status_reason, status_until, status_code
FROM users ORDER BY created_at ASC, id ASC
LIMIT $1 OFFSET $2`
	rows, err := r.db.Pool.Query(ctx, q, opts.PerPage, opts.Offset())
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError(err)
	}

	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}
	return users, total, nil
}

// Update replaces the full record of an existing user.
func (r *UserRepo) Update(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
UPDATE users
SET email=$2, pwd_hash=$3, status=$4, status_reason=$5, status_until=$6, status_code=$7
WHERE id=$1`
	kind, reason, until, code := statusColumns(u.Status)
	tag, err := r.db.Pool.Exec(ctx, q, u.ID, u.Email, u.CredentialHash, kind, reason, until, code)
	if err != nil {
		return nil, mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, errs.ErrNotFound
	}
	stored := *u
	return &stored, nil
}

// Delete removes a user by id.
func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Stats aggregates user counts by status in a single statement, so the counts
// come from one consistent snapshot.
func (r *UserRepo) Stats(ctx context.Context) (model.Stats, error) {
	const q = `
SELECT count(*),
       count(*) FILTER (WHERE status='active'),
       count(*) FILTER (WHERE status='suspended'),
       count(*) FILTER (WHERE status='pending')
FROM users`
	var s model.Stats
	if err := r.db.Pool.QueryRow(ctx, q).Scan(&s.Total, &s.Active, &s.Suspended, &s.Pending); err != nil {
		return model.Stats{}, mapError(err)
	}
	return s, nil
}
