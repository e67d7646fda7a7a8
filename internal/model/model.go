// Package model defines domain entities shared by services and repositories.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/avkram/accountd/internal/errs"
)

// Status is the account lifecycle state. Exactly one variant holds at a time;
// transitions happen only through explicit store updates. The variant set is
// sealed so every consumer can type-switch over it exhaustively.
type Status interface {
	// Kind returns the stable storage tag of the variant.
	Kind() string
	sealedStatus()
}

// Active marks a verified, usable account.
type Active struct{}

// Suspended marks an account locked out, optionally until a point in time.
type Suspended struct {
	Reason string
	Until  *time.Time // nil means indefinite
}

// PendingVerification marks a freshly registered account awaiting its code.
type PendingVerification struct {
	Code string
}

func (Active) Kind() string              { return "active" }
func (Suspended) Kind() string           { return "suspended" }
func (PendingVerification) Kind() string { return "pending" }

func (Active) sealedStatus()              {}
func (Suspended) sealedStatus()           {}
func (PendingVerification) sealedStatus() {}

// User is an identity record. ID and CreatedAt are assigned once at creation
// and never change. Email is stored lower-case and unique case-insensitively;
// the store boundary enforces the uniqueness.
type User struct {
	ID             uuid.UUID
	Email          string
	CredentialHash string // one-way hash of the secret; never logged or serialized
	CreatedAt      time.Time
	Status         Status
}

// StatusView is the transport representation of a Status variant.
type StatusView struct {
	Kind   string     `json:"status"`
	Reason string     `json:"reason,omitempty"`
	Until  *time.Time `json:"until,omitempty"`
	Code   string     `json:"code,omitempty"`
}

// UserView is the sanitized representation of a User, safe to return to clients.
type UserView struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	Status    StatusView `json:"status"`
}

// View strips the credential hash from a User.
func (u *User) View() UserView {
	v := UserView{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
	switch s := u.Status.(type) {
	case Active:
		v.Status = StatusView{Kind: s.Kind()}
	case Suspended:
		v.Status = StatusView{Kind: s.Kind(), Reason: s.Reason, Until: s.Until}
	case PendingVerification:
		v.Status = StatusView{Kind: s.Kind(), Code: s.Code}
	}
	return v
}

// Stats is a point-in-time aggregate of users by status variant.
type Stats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Suspended int `json:"suspended"`
	Pending   int `json:"pending"`
}

// ValidateEmail checks the email shape: non-empty, contains '@' and '.',
// length 3-254.
func ValidateEmail(email string) error {
	if len(email) < 3 || len(email) > 254 || !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return fmt.Errorf("%w: invalid email format", errs.ErrValidation)
	}
	return nil
}

// ValidatePassword checks the secret policy: at least 8 characters with at
// least one letter and one digit.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password too short (min 8)", errs.ErrValidation)
	}
	var hasLetter, hasDigit bool
	for _, c := range password {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			hasLetter = true
		case c >= '0' && c <= '9':
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("%w: password must include at least one letter and one number", errs.ErrValidation)
	}
	return nil
}
