package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/ekyc/internal/ekyc/domain"
	"github.com/aussiebroadwan/ekyc/internal/ekyc/store"
	"github.com/aussiebroadwan/ekyc/internal/ekyc/store/drivers/sqlite"
	"github.com/aussiebroadwan/ekyc/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(sqlite.MemoryDSN)
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newAccount(username, email string) domain.Account {
	return domain.Account{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: "$argon2id$stub",
		Role:         domain.RoleUser,
	}
}

func TestCreateAndGetAccount(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := s.Accounts()

	a := newAccount("alice", "a@x.com")
	require.NoError(t, repo.CreateAccount(ctx, a))

	byID, err := repo.GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", byID.Username)
	require.Equal(t, domain.RoleUser, byID.Role)
	require.False(t, byID.IsVerified)
	require.False(t, byID.HasChallenge())
	require.False(t, byID.CreatedAt.IsZero())

	byName, err := repo.GetAccountByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, a.ID, byName.ID)

	byEmail, err := repo.GetAccountByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, a.ID, byEmail.ID)

	_, err = repo.GetAccountByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = repo.GetAccountByUsername(ctx, "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = repo.GetAccountByEmail(ctx, "nobody@x.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateAccountDefaultsRole(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a := newAccount("bob", "b@x.com")
	a.Role = ""
	require.NoError(t, s.Accounts().CreateAccount(ctx, a))

	got, err := s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, got.Role)
}

func TestCreateAccountUniqueness(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := s.Accounts()

	require.NoError(t, repo.CreateAccount(ctx, newAccount("alice", "a@x.com")))

	err := repo.CreateAccount(ctx, newAccount("alice", "other@x.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	err = repo.CreateAccount(ctx, newAccount("other", "a@x.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	all, err := repo.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestChallengeLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := s.Accounts()

	a := newAccount("alice", "a@x.com")
	require.NoError(t, repo.CreateAccount(ctx, a))

	exp := time.Date(2026, 5, 1, 12, 10, 0, 0, time.UTC)
	require.NoError(t, repo.SetChallenge(ctx, a.ID, "012345", exp))

	got, err := repo.GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, got.HasChallenge())
	require.Equal(t, "012345", *got.ChallengeCode)
	require.True(t, exp.Equal(*got.ChallengeExpiresAt))

	// A second send overwrites the first.
	require.NoError(t, repo.SetChallenge(ctx, a.ID, "999999", exp.Add(time.Minute)))
	got, err = repo.GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "999999", *got.ChallengeCode)

	require.NoError(t, repo.ClearChallenge(ctx, a.ID))
	got, err = repo.GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.Nil(t, got.ChallengeCode)
	require.Nil(t, got.ChallengeExpiresAt)

	require.ErrorIs(t, repo.SetChallenge(ctx, idx.New().String(), "1", exp), store.ErrNotFound)
	require.ErrorIs(t, repo.ClearChallenge(ctx, idx.New().String()), store.ErrNotFound)
}

func TestMarkVerifiedClearsChallenge(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := s.Accounts()

	a := newAccount("alice", "a@x.com")
	require.NoError(t, repo.CreateAccount(ctx, a))
	require.NoError(t, repo.SetChallenge(ctx, a.ID, "123456", time.Now().Add(time.Minute)))

	require.NoError(t, repo.MarkVerified(ctx, a.ID))

	got, err := repo.GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, got.IsVerified)
	require.False(t, got.HasChallenge())

	require.ErrorIs(t, repo.MarkVerified(ctx, idx.New().String()), store.ErrNotFound)
}

func TestUpdateDetailsAndPasswordAndRole(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := s.Accounts()

	alice := newAccount("alice", "a@x.com")
	bob := newAccount("bob", "b@x.com")
	require.NoError(t, repo.CreateAccount(ctx, alice))
	require.NoError(t, repo.CreateAccount(ctx, bob))

	require.NoError(t, repo.UpdateDetails(ctx, alice.ID, "alice2", "a2@x.com"))
	require.ErrorIs(t, repo.UpdateDetails(ctx, bob.ID, "alice2", "b@x.com"), store.ErrAlreadyExists)
	require.ErrorIs(t, repo.UpdateDetails(ctx, bob.ID, "bob", "a2@x.com"), store.ErrAlreadyExists)

	require.NoError(t, repo.UpdatePasswordHash(ctx, alice.ID, "$argon2id$new"))
	require.NoError(t, repo.UpdateRole(ctx, alice.ID, domain.RoleAdmin))

	got, err := repo.GetAccountByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "alice2", got.Username)
	require.Equal(t, "a2@x.com", got.Email)
	require.Equal(t, "$argon2id$new", got.PasswordHash)
	require.Equal(t, domain.RoleAdmin, got.Role)

	require.Error(t, repo.UpdateRole(ctx, alice.ID, domain.Role("root")), "schema rejects unknown roles")
}

func TestListAccountsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := s.Accounts()

	all, err := repo.ListAccounts(ctx)
	require.NoError(t, err)
	require.Empty(t, all)

	first := newAccount("first", "1@x.com")
	second := newAccount("second", "2@x.com")
	require.NoError(t, repo.CreateAccount(ctx, first))
	require.NoError(t, repo.CreateAccount(ctx, second))

	all, err = repo.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, second.ID, all[0].ID)
	require.Equal(t, first.ID, all[1].ID)
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := s.Accounts()

	a := newAccount("alice", "a@x.com")
	require.NoError(t, repo.CreateAccount(ctx, a))
	require.NoError(t, repo.DeleteAccount(ctx, a.ID))

	_, err := repo.GetAccountByID(ctx, a.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, repo.DeleteAccount(ctx, a.ID), store.ErrNotFound)
}

func TestClearExpiredChallenges(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := s.Accounts()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	stale := newAccount("stale", "s@x.com")
	fresh := newAccount("fresh", "f@x.com")
	none := newAccount("none", "n@x.com")
	for _, a := range []domain.Account{stale, fresh, none} {
		require.NoError(t, repo.CreateAccount(ctx, a))
	}
	require.NoError(t, repo.SetChallenge(ctx, stale.ID, "111111", now.Add(-2*time.Hour)))
	require.NoError(t, repo.SetChallenge(ctx, fresh.ID, "222222", now.Add(5*time.Minute)))

	n, err := repo.ClearExpiredChallenges(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	got, err := repo.GetAccountByID(ctx, stale.ID)
	require.NoError(t, err)
	require.False(t, got.HasChallenge())

	got, err = repo.GetAccountByID(ctx, fresh.ID)
	require.NoError(t, err)
	require.True(t, got.HasChallenge())
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	t.Run("commits on success", func(t *testing.T) {
		a := newAccount("committed", "c@x.com")
		err := s.WithTx(ctx, func(tx store.Tx) error {
			return tx.Accounts().CreateAccount(ctx, a)
		})
		require.NoError(t, err)

		_, err = s.Accounts().GetAccountByID(ctx, a.ID)
		require.NoError(t, err)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		a := newAccount("rolled", "r@x.com")
		err := s.WithTx(ctx, func(tx store.Tx) error {
			require.NoError(t, tx.Accounts().CreateAccount(ctx, a))
			return store.ErrAlreadyExists
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		_, err = s.Accounts().GetAccountByID(ctx, a.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestFileStoreClockAndPersistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ekyc.db")
	fixed := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	s, err := sqlite.NewStore(path, sqlite.WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(ctx))

	a := newAccount("alice", "a@x.com")
	require.NoError(t, s.Accounts().CreateAccount(ctx, a))
	require.NoError(t, s.Close())

	s, err = sqlite.NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations(), "re-applying migrations is a no-op")

	got, err := s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, fixed.Equal(got.CreatedAt))
}
