// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repository/service layers. Handlers map these to
// transport status codes with errors.Is.
var (
	// ErrValidation indicates malformed caller input; retrying without change is pointless.
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates a uniqueness violation (e.g., email taken).
	ErrConflict = errors.New("already exists")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates bad credentials or a bad/expired/revoked token.
	// All causes collapse into this one sentinel to avoid leaking which stage failed.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is reserved for future authorization checks.
	ErrForbidden = errors.New("forbidden")

	// ErrCredential indicates a failure inside password hashing or verification.
	ErrCredential = errors.New("credential error")

	// ErrRepo indicates the storage backend is unavailable or misbehaving.
	ErrRepo = errors.New("repository error")

	// ErrUnknown indicates an uncategorized internal failure.
	ErrUnknown = errors.New("unknown error")
)
