// Package token issues, validates, and revokes signed session tokens.
package token

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/avkram/accountd/internal/errs"
)

// RevocationStore is a shared key/TTL map of live token ids. Entries expire on
// their own at the token's natural lifetime; deleting one revokes the token
// across every service instance sharing the store.
type RevocationStore interface {
	// Put records tokenID as live for ttl.
	Put(ctx context.Context, tokenID string, ttl time.Duration) error
	// Exists reports whether tokenID is still live.
	Exists(ctx context.Context, tokenID string) (bool, error)
	// Delete removes tokenID. Deleting an absent id is not an error.
	Delete(ctx context.Context, tokenID string) error
}

// Service signs and verifies HS256 session tokens carrying {sub, iat, exp, jti}.
//
// Without a revocation store the signature and expiry are the sole authority:
// Revoke becomes a no-op and logged-out tokens stay usable until natural
// expiry. Run that stateless mode in development only.
type Service struct {
	signKey     []byte
	ttl         time.Duration
	revocations RevocationStore // nil in stateless mode
	now         func() time.Time
}

// NewService constructs a token service. revocations may be nil.
func NewService(signKey []byte, ttl time.Duration, revocations RevocationStore) *Service {
	return &Service{signKey: signKey, ttl: ttl, revocations: revocations, now: time.Now}
}

// Issue mints a signed token for the subject. Each call produces a fresh token
// id, so concurrent sessions of one user revoke independently. When a
// revocation store is configured the token is only returned after its entry is
// written; a store failure fails the whole issuance.
func (s *Service) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	jti, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	now := s.now()
	exp := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
		ID:        jti.String(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signKey)
	if err != nil {
		return "", err
	}
	if s.revocations != nil {
		if err := s.revocations.Put(ctx, jti.String(), exp.Sub(now)); err != nil {
			return "", errs.ErrRepo
		}
	}
	return signed, nil
}

// Validate verifies signature and expiry, then, when a revocation store is
// configured, that the token id is still present there. A missing entry is
// indistinguishable from an explicit revocation.
func (s *Service) Validate(ctx context.Context, raw string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(raw, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	); err != nil {
		return nil, errs.ErrUnauthorized
	}
	if s.revocations != nil {
		live, err := s.revocations.Exists(ctx, claims.ID)
		if err != nil {
			return nil, errs.ErrRepo
		}
		if !live {
			return nil, errs.ErrUnauthorized
		}
	}
	return claims, nil
}

// Revoke deletes the token's revocation entry. Expired or already revoked
// tokens revoke cleanly; a token with a bad signature does not. If the store
// is unreachable the caller must treat the token as still potentially valid.
func (s *Service) Revoke(ctx context.Context, raw string) error {
	claims := &jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(raw, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	); err != nil {
		return errs.ErrUnauthorized
	}
	if s.revocations == nil {
		return nil
	}
	if err := s.revocations.Delete(ctx, claims.ID); err != nil {
		return errs.ErrRepo
	}
	return nil
}

// SubjectOf validates raw and returns the authenticated user id.
func (s *Service) SubjectOf(ctx context.Context, raw string) (uuid.UUID, error) {
	claims, err := s.Validate(ctx, raw)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.FromString(claims.Subject)
	if err != nil {
		return uuid.Nil, errs.ErrUnauthorized
	}
	return id, nil
}

func (s *Service) keyFunc(*jwt.Token) (any, error) { return s.signKey, nil }
