package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/ekyc/internal/ekyc/domain"
	"github.com/aussiebroadwan/ekyc/internal/ekyc/store"
	"github.com/aussiebroadwan/ekyc/pkg/slogx"
)

// ProfileUpdate carries the profile fields a user may change. Nil leaves the
// field alone.
type ProfileUpdate struct {
	Username *string
	Email    *string
}

// AccountService covers what an authenticated caller can do with accounts.
type AccountService struct {
	Store  store.Store
	Hasher PasswordHasher
}

// Profile returns the account with the given id.
func (s *AccountService) Profile(ctx context.Context, id string) (domain.Account, error) {
	return loadAccount(ctx, s.Store.Accounts(), id)
}

// ResolveIdentity re-reads the account behind a session token.
func (s *AccountService) ResolveIdentity(ctx context.Context, id string) (domain.Account, error) {
	return loadAccount(ctx, s.Store.Accounts(), id)
}

// UpdateProfile changes username and/or email.
func (s *AccountService) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (domain.Account, error) {
	log := slogx.FromContext(ctx).With(slog.String("account_id", id))

	// 1. Resolve account.
	account, err := loadAccount(ctx, s.Store.Accounts(), id)
	if err != nil {
		return domain.Account{}, err
	}

	// 2. Merge.
	username, email := account.Username, account.Email
	var newUsername, newEmail string
	if upd.Username != nil {
		v := domain.NormalizeUsername(*upd.Username)
		if !domain.ValidUsername(v) {
			return domain.Account{}, ErrInvalidUsername
		}
		if v != username {
			username, newUsername = v, v
		}
	}
	if upd.Email != nil {
		if v := normalizeEmail(*upd.Email); v != "" && v != email {
			email, newEmail = v, v
		}
	}
	if newUsername == "" && newEmail == "" {
		return account, nil
	}

	// 3. Conflict check on the fields that actually change.
	if err := checkAvailable(ctx, s.Store.Accounts(), account.ID, newUsername, newEmail); err != nil {
		return domain.Account{}, err
	}

	// 4. Persist.
	if err := s.Store.Accounts().UpdateDetails(ctx, account.ID, username, email); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return domain.Account{}, ErrAccountNotFound
		case errors.Is(err, store.ErrAlreadyExists):
			if newUsername != "" {
				if existing, lerr := s.Store.Accounts().GetAccountByUsername(ctx, newUsername); lerr == nil && existing.ID != account.ID {
					return domain.Account{}, ErrUsernameTaken
				}
			}
			return domain.Account{}, ErrEmailTaken
		}
		log.Error("failed to update profile", slog.Any("error", err))
		return domain.Account{}, Internal(err)
	}

	log.Info("profile updated",
		slog.Bool("username_changed", newUsername != ""),
		slog.Bool("email_changed", newEmail != ""),
	)
	return loadAccount(ctx, s.Store.Accounts(), account.ID)
}

// ChangePassword replaces the password after checking the current one.
func (s *AccountService) ChangePassword(ctx context.Context, id, current, next, confirm string) error {
	log := slogx.FromContext(ctx).With(slog.String("account_id", id))

	// 1. New password typed twice must agree.
	if next != confirm {
		return ErrNewPasswordMismatch
	}

	// 2. Resolve account.
	account, err := loadAccount(ctx, s.Store.Accounts(), id)
	if err != nil {
		return err
	}

	// 3. Prove knowledge of the current password.
	if err := s.Hasher.Verify(current, account.PasswordHash); err != nil {
		log.Warn("change password: current password mismatch")
		return ErrWrongPassword
	}

	// 4. Store the new hash.
	hash, err := s.Hasher.Hash(next)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return Internal(err)
	}
	if err := s.Store.Accounts().UpdatePasswordHash(ctx, account.ID, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		log.Error("failed to update password", slog.Any("error", err))
		return Internal(err)
	}

	log.Info("password changed")
	return nil
}

// ListAccounts returns every account, newest first.
func (s *AccountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.Store.Accounts().ListAccounts(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list accounts", slog.Any("error", err))
		return nil, Internal(err)
	}
	return accounts, nil
}

// ChangeRole sets the role of account id to the named role.
func (s *AccountService) ChangeRole(ctx context.Context, id, roleName string) (domain.Account, error) {
	log := slogx.FromContext(ctx).With(slog.String("account_id", id))

	role, err := domain.ParseRole(roleName)
	if err != nil {
		return domain.Account{}, ErrInvalidRole
	}

	account, err := loadAccount(ctx, s.Store.Accounts(), id)
	if err != nil {
		return domain.Account{}, err
	}
	if account.Role == role {
		return account, nil
	}

	if err := s.Store.Accounts().UpdateRole(ctx, account.ID, role); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		log.Error("failed to update role", slog.Any("error", err))
		return domain.Account{}, Internal(err)
	}

	log.Info("role changed",
		slog.String("from", account.Role.String()),
		slog.String("to", role.String()),
	)
	return loadAccount(ctx, s.Store.Accounts(), account.ID)
}
