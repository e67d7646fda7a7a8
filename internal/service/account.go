// Package service contains application services for accounts and bulk registration.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/avkram/accountd/internal/crypto"
	"github.com/avkram/accountd/internal/errs"
	"github.com/avkram/accountd/internal/model"
	"github.com/avkram/accountd/internal/repository"
)

// TokenManager is the slice of the token service the account service needs.
type TokenManager interface {
	// Issue mints a bearer token for the subject.
	Issue(ctx context.Context, userID uuid.UUID) (string, error)
	// SubjectOf validates raw and returns the authenticated user id.
	SubjectOf(ctx context.Context, raw string) (uuid.UUID, error)
	// Revoke invalidates raw ahead of its natural expiry.
	Revoke(ctx context.Context, raw string) error
}

// Verification codes are delivered out of band; the fixed demo code stands in
// until a sender exists.
const demoVerificationCode = "123456"

// AccountService composes the user store, token service, and hasher into the
// register/login/me/logout use cases. It owns no storage itself.
type AccountService struct {
	users  repository.UserRepository
	tokens TokenManager
	hasher crypto.Hasher
	now    func() time.Time
}

// NewAccountService constructs an AccountService with required dependencies.
func NewAccountService(users repository.UserRepository, tokens TokenManager, hasher crypto.Hasher) *AccountService {
	return &AccountService{users: users, tokens: tokens, hasher: hasher, now: time.Now}
}

// Register creates a new account awaiting verification. Validation runs before
// any hashing or store call.
func (s *AccountService) Register(ctx context.Context, email, secret string) (*model.User, error) {
	return s.register(ctx, email, secret, model.PendingVerification{Code: demoVerificationCode})
}

// RegisterActive creates an account that skips verification. Used by the bulk
// import path.
func (s *AccountService) RegisterActive(ctx context.Context, email, secret string) (*model.User, error) {
	return s.register(ctx, email, secret, model.Active{})
}

func (s *AccountService) register(ctx context.Context, email, secret string, status model.Status) (*model.User, error) {
	if err := model.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := model.ValidatePassword(secret); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(ctx, secret)
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	u := &model.User{
		ID:             id,
		Email:          strings.ToLower(email),
		CredentialHash: hash,
		CreatedAt:      s.now().UTC(),
		Status:         status,
	}
	return s.users.Create(ctx, u)
}

// Login authenticates by email and secret and issues a bearer token. A missing
// user and a wrong secret are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, secret string) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// lookup failures masked as unauthorized
		return "", errs.ErrUnauthorized
	}
	ok, err := s.hasher.Verify(ctx, secret, u.CredentialHash)
	if err != nil || !ok {
		return "", errs.ErrUnauthorized
	}
	return s.tokens.Issue(ctx, u.ID)
}

// Me resolves a bearer token to its user. Any failure in the chain surfaces
// as unauthorized.
func (s *AccountService) Me(ctx context.Context, raw string) (*model.User, error) {
	id, err := s.tokens.SubjectOf(ctx, raw)
	if err != nil {
		return nil, errs.ErrUnauthorized
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, errs.ErrUnauthorized
	}
	return u, nil
}

// Logout revokes the presented token. Revoking an already-revoked or expired
// token is not an error.
func (s *AccountService) Logout(ctx context.Context, raw string) error {
	return s.tokens.Revoke(ctx, raw)
}

// ListUsers returns one page of users plus the total count. opts must already
// be clamped by the caller.
func (s *AccountService) ListUsers(ctx context.Context, opts repository.ListOptions) ([]model.User, int, error) {
	return s.users.List(ctx, opts)
}

// Stats returns the point-in-time aggregate counts by status.
func (s *AccountService) Stats(ctx context.Context) (model.Stats, error) {
	return s.users.Stats(ctx)
}
