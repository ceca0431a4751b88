package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/ekyc/internal/ekyc/domain"
	"github.com/aussiebroadwan/ekyc/internal/ekyc/store"
	"github.com/aussiebroadwan/ekyc/pkg/idx"
	"github.com/aussiebroadwan/ekyc/pkg/slogx"
)

var ErrBootstrapIncomplete = errors.New("admin bootstrap needs username, email and password")

// AdminSeed is the administrator account ensured at startup.
type AdminSeed struct {
	Username string
	Email    string
	Password string
}

type BootstrapService struct {
	Store  store.Store
	Hasher PasswordHasher
}

// EnsureAdmin creates a verified admin account from seed unless the username
// is already in use. It reports whether an account was created. An existing
// account is never modified.
func (s *BootstrapService) EnsureAdmin(ctx context.Context, seed AdminSeed) (bool, error) {
	l := slogx.FromContext(ctx)

	username := domain.NormalizeUsername(seed.Username)
	email := normalizeEmail(seed.Email)
	if username == "" || email == "" || seed.Password == "" {
		return false, ErrBootstrapIncomplete
	}
	if !domain.ValidUsername(username) {
		return false, ErrInvalidUsername
	}

	// 1. Hash outside the transaction; argon2 is slow.
	hash, err := s.Hasher.Hash(seed.Password)
	if err != nil {
		l.Error("failed to hash admin password", slog.Any("error", err))
		return false, err
	}

	created := false
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 2. Leave an existing account alone.
		existing, err := tx.Accounts().GetAccountByUsername(ctx, username)
		if err == nil {
			if existing.Role != domain.RoleAdmin {
				l.Warn("bootstrap admin username belongs to a non-admin account",
					slog.String("account_id", existing.ID),
					slog.String("role", existing.Role.String()),
				)
			}
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		// 3. Create the admin, already verified.
		admin := domain.Account{
			ID:           idx.New().String(),
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			Role:         domain.RoleAdmin,
			IsVerified:   true,
		}
		if err := tx.Accounts().CreateAccount(ctx, admin); err != nil {
			l.Error("failed to create admin account", slog.Any("error", err))
			return err
		}

		l.Info("bootstrap admin created",
			slog.String("account_id", admin.ID),
			slog.String("username", admin.Username),
		)
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}
