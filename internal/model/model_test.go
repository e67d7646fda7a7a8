package model

import (
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/avkram/accountd/internal/errs"
)

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	valid := []string{"a@b.c", "user@example.com", "UPPER@Example.COM"}
	for _, e := range valid {
		require.NoError(t, ValidateEmail(e), e)
	}

	invalid := []string{"", "a@b", "abc.def", "a.", strings.Repeat("x", 250) + "@a.b"}
	for _, e := range invalid {
		err := ValidateEmail(e)
		require.ErrorIs(t, err, errs.ErrValidation, e)
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	require.NoError(t, ValidatePassword("Password1"))
	require.NoError(t, ValidatePassword("a1234567"))

	for _, p := range []string{"", "short1", "alllowercase", "12345678", "Pass1"} {
		require.ErrorIs(t, ValidatePassword(p), errs.ErrValidation, p)
	}
}

func TestUserView_OmitsCredentialHash(t *testing.T) {
	t.Parallel()
	until := time.Now().Add(time.Hour)
	cases := []struct {
		status Status
		kind   string
	}{
		{Active{}, "active"},
		{Suspended{Reason: "abuse", Until: &until}, "suspended"},
		{PendingVerification{Code: "123456"}, "pending"},
	}
	for _, tc := range cases {
		u := User{
			ID:             uuid.Must(uuid.NewV4()),
			Email:          "a@b.com",
			CredentialHash: "secret-hash",
			CreatedAt:      time.Now(),
			Status:         tc.status,
		}
		v := u.View()
		require.Equal(t, u.ID, v.ID)
		require.Equal(t, tc.kind, v.Status.Kind)
	}

	// Suspended payload survives the view.
	u := User{Status: Suspended{Reason: "abuse", Until: &until}}
	v := u.View()
	require.Equal(t, "abuse", v.Status.Reason)
	require.NotNil(t, v.Status.Until)
}
