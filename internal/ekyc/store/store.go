package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/ekyc/internal/ekyc/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Drivers implement it and expose
// sub-repositories so a transaction can't be opened from inside another.
type Store interface {
	Accounts() Accounts

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// CreateAccount inserts a new account (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the username or email is taken.
	CreateAccount(ctx context.Context, a domain.Account) error

	GetAccountByID(ctx context.Context, id string) (domain.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (domain.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// ListAccounts returns every account, newest first.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// SetChallenge replaces any outstanding challenge with code/expiresAt.
	SetChallenge(ctx context.Context, id, code string, expiresAt time.Time) error

	// ClearChallenge removes the outstanding challenge, if any.
	ClearChallenge(ctx context.Context, id string) error

	// MarkVerified sets is_verified and clears the challenge in one write.
	MarkVerified(ctx context.Context, id string) error

	// UpdateDetails changes username and email. ErrAlreadyExists on conflict.
	UpdateDetails(ctx context.Context, id, username, email string) error

	UpdatePasswordHash(ctx context.Context, id, hash string) error
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	DeleteAccount(ctx context.Context, id string) error

	// ClearExpiredChallenges drops challenges that expired before the given
	// instant and reports how many accounts were touched.
	ClearExpiredChallenges(ctx context.Context, before time.Time) (int64, error)
}
