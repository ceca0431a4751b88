package service

import (
	"context"
	"strings"
	"testing"

	"github.com/aussiebroadwan/ekyc/internal/ekyc/domain"
	"github.com/aussiebroadwan/ekyc/pkg/idx"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a, err := f.registration.Register(ctx, alice())
	require.NoError(t, err)

	bob := alice()
	bob.Username, bob.Email = "bob", "b@x.com"
	_, err = f.registration.Register(ctx, bob)
	require.NoError(t, err)

	t.Run("changes username and lower-cases email", func(t *testing.T) {
		got, err := f.accounts.UpdateProfile(ctx, a.ID, ProfileUpdate{
			Username: ptr("alice_k"),
			Email:    ptr(" Alice@Example.com "),
		})
		require.NoError(t, err)
		require.Equal(t, "alice_k", got.Username)
		require.Equal(t, "alice@example.com", got.Email)
	})

	t.Run("nothing to change", func(t *testing.T) {
		got, err := f.accounts.UpdateProfile(ctx, a.ID, ProfileUpdate{Username: ptr("alice_k")})
		require.NoError(t, err)
		require.Equal(t, "alice_k", got.Username)
	})

	t.Run("username conflict", func(t *testing.T) {
		_, err := f.accounts.UpdateProfile(ctx, a.ID, ProfileUpdate{Username: ptr("bob")})
		require.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("email conflict", func(t *testing.T) {
		_, err := f.accounts.UpdateProfile(ctx, a.ID, ProfileUpdate{Email: ptr("B@x.com")})
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("username bounds apply after trimming", func(t *testing.T) {
		for _, name := range []string{"   ", "  a  ", "", strings.Repeat("z", 31)} {
			_, err := f.accounts.UpdateProfile(ctx, a.ID, ProfileUpdate{Username: ptr(name)})
			require.ErrorIs(t, err, ErrInvalidUsername, "%q", name)
		}

		got, err := f.accounts.Profile(ctx, a.ID)
		require.NoError(t, err)
		require.Equal(t, "alice_k", got.Username)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := f.accounts.UpdateProfile(ctx, idx.New().String(), ProfileUpdate{Username: ptr("zed")})
		require.ErrorIs(t, err, ErrAccountNotFound)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a, err := f.registration.Register(ctx, alice())
	require.NoError(t, err)

	t.Run("confirmation mismatch", func(t *testing.T) {
		err := f.accounts.ChangePassword(ctx, a.ID, "Abc12345!", "Xyz98765!", "Xyz98765?")
		require.ErrorIs(t, err, ErrNewPasswordMismatch)
	})

	t.Run("wrong current password", func(t *testing.T) {
		err := f.accounts.ChangePassword(ctx, a.ID, "wrong", "Xyz98765!", "Xyz98765!")
		require.ErrorIs(t, err, ErrWrongPassword)
		require.Equal(t, KindUnauthorized, kindOf(err))
	})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, f.accounts.ChangePassword(ctx, a.ID, "Abc12345!", "Xyz98765!", "Xyz98765!"))

		_, err := f.registration.Login(ctx, "alice", "Abc12345!")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = f.registration.Login(ctx, "alice", "Xyz98765!")
		require.NoError(t, err)
	})
}

func TestChangeRoleAndList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a, err := f.registration.Register(ctx, alice())
	require.NoError(t, err)

	_, err = f.accounts.ChangeRole(ctx, a.ID, "superuser")
	require.ErrorIs(t, err, ErrInvalidRole)
	require.Equal(t, KindValidation, kindOf(err))

	got, err := f.accounts.ChangeRole(ctx, a.ID, " Admin ")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, got.Role)

	_, err = f.accounts.ChangeRole(ctx, idx.New().String(), "user")
	require.ErrorIs(t, err, ErrAccountNotFound)

	all, err := f.accounts.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, domain.RoleAdmin, all[0].Role)

	resolved, err := f.accounts.ResolveIdentity(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, resolved.Identity().Role)
}
