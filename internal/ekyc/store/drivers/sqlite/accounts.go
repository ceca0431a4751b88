package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/ekyc/internal/ekyc/domain"
	"github.com/aussiebroadwan/ekyc/internal/ekyc/store/drivers/sqlite/gen"
)

type accountsRepo struct {
	q   *gen.Queries
	now func() time.Time
}

func (r *accountsRepo) stamp() time.Time { return r.now().UTC() }

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	now := r.stamp()
	role := a.Role
	if role == "" {
		role = domain.RoleUser
	}

	return mapConstraint(r.q.CreateAccount(ctx, gen.CreateAccountParams{
		ID:                 a.ID,
		Username:           a.Username,
		Email:              a.Email,
		PasswordHash:       a.PasswordHash,
		Role:               string(role),
		IsVerified:         a.IsVerified,
		ChallengeCode:      mapOptionalString(a.ChallengeCode),
		ChallengeExpiresAt: mapOptionalTime(a.ChallengeExpiresAt),
		CreatedAt:          now,
		UpdatedAt:          now,
	}))
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row, err := r.q.GetAccountByID(ctx, id)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return mapAccount(row), nil
}

func (r *accountsRepo) GetAccountByUsername(ctx context.Context, username string) (domain.Account, error) {
	row, err := r.q.GetAccountByUsername(ctx, username)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return mapAccount(row), nil
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	row, err := r.q.GetAccountByEmail(ctx, email)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return mapAccount(row), nil
}

func (r *accountsRepo) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.q.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Account, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapAccount(row))
	}
	return out, nil
}

func (r *accountsRepo) SetChallenge(ctx context.Context, id, code string, expiresAt time.Time) error {
	return expectOne(r.q.SetAccountChallenge(ctx, gen.SetAccountChallengeParams{
		ChallengeCode:      sql.NullString{String: code, Valid: true},
		ChallengeExpiresAt: sql.NullTime{Time: expiresAt.UTC(), Valid: true},
		UpdatedAt:          r.stamp(),
		ID:                 id,
	}))
}

func (r *accountsRepo) ClearChallenge(ctx context.Context, id string) error {
	return expectOne(r.q.ClearAccountChallenge(ctx, gen.ClearAccountChallengeParams{
		UpdatedAt: r.stamp(),
		ID:        id,
	}))
}

func (r *accountsRepo) MarkVerified(ctx context.Context, id string) error {
	return expectOne(r.q.MarkAccountVerified(ctx, gen.MarkAccountVerifiedParams{
		UpdatedAt: r.stamp(),
		ID:        id,
	}))
}

func (r *accountsRepo) UpdateDetails(ctx context.Context, id, username, email string) error {
	n, err := r.q.UpdateAccountDetails(ctx, gen.UpdateAccountDetailsParams{
		Username:  username,
		Email:     email,
		UpdatedAt: r.stamp(),
		ID:        id,
	})
	return expectOne(n, mapConstraint(err))
}

func (r *accountsRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return expectOne(r.q.UpdateAccountPasswordHash(ctx, gen.UpdateAccountPasswordHashParams{
		PasswordHash: hash,
		UpdatedAt:    r.stamp(),
		ID:           id,
	}))
}

func (r *accountsRepo) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	return expectOne(r.q.UpdateAccountRole(ctx, gen.UpdateAccountRoleParams{
		Role:      string(role),
		UpdatedAt: r.stamp(),
		ID:        id,
	}))
}

func (r *accountsRepo) DeleteAccount(ctx context.Context, id string) error {
	return expectOne(r.q.DeleteAccount(ctx, id))
}

func (r *accountsRepo) ClearExpiredChallenges(ctx context.Context, before time.Time) (int64, error) {
	return r.q.ClearExpiredChallenges(ctx, gen.ClearExpiredChallengesParams{
		UpdatedAt:          r.stamp(),
		ChallengeExpiresAt: sql.NullTime{Time: before.UTC(), Valid: true},
	})
}

func mapAccount(row gen.Account) domain.Account {
	return domain.Account{
		ID:                 row.ID,
		Username:           row.Username,
		Email:              row.Email,
		PasswordHash:       row.PasswordHash,
		Role:               domain.Role(row.Role),
		IsVerified:         row.IsVerified,
		ChallengeCode:      mapNullStringPtr(row.ChallengeCode),
		ChallengeExpiresAt: mapNullTimePtr(row.ChallengeExpiresAt),
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

func mapNullStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		val := ns.String
		return &val
	}
	return nil
}

func mapOptionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time.UTC()
		return &val
	}
	return nil
}

func mapOptionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
