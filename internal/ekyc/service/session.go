package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/ekyc/internal/ekyc/domain"
	"github.com/aussiebroadwan/ekyc/pkg/jwtx"
	"github.com/aussiebroadwan/ekyc/pkg/slogx"
)

// SessionService issues bearer tokens for verified accounts.
type SessionService struct {
	Signer jwtx.Signer
	Issuer string
	TTL    time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// Issue signs a session token for account.
func (s *SessionService) Issue(ctx context.Context, account domain.Account) (string, error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	claims := jwtx.NewSessionClaims(
		account.ID,
		account.Username,
		account.Role.String(),
		s.Issuer,
		s.TTL,
		now,
	)

	token, err := s.Signer.Sign(claims)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to sign session token",
			slog.String("account_id", account.ID),
			slog.Any("error", err),
		)
		return "", Internal(err)
	}
	return token, nil
}
