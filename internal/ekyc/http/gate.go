package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/ekyc/internal/ekyc/domain"
	"github.com/aussiebroadwan/ekyc/internal/ekyc/service"
	"github.com/aussiebroadwan/ekyc/pkg/httpx"
	"github.com/aussiebroadwan/ekyc/pkg/jwtx"
	"github.com/aussiebroadwan/ekyc/pkg/slogx"
)

const (
	msgNoToken       = "Authentication failed: No token provided"
	msgInvalidToken  = "Authentication failed: Invalid token"
	msgUserNotFound  = "Authentication failed: User not found"
	msgNotVerified   = "Authentication failed: Email not verified"
	msgInsufficient  = "Access denied: Insufficient permissions"
	bearerBadToken   = "invalid_token"
	bearerBadRequest = "invalid_request"
)

// IdentityResolver loads the current state of the account behind a token.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, id string) (domain.Account, error)
}

// Gate authenticates bearer tokens and re-reads the account on every
// request, so role changes apply immediately.
type Gate struct {
	Verifier jwtx.Verifier
	Accounts IdentityResolver
}

// Require returns middleware admitting verified accounts holding one of
// roles. No roles admits any verified account.
func (g *Gate) Require(roles ...domain.Role) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			// 1. Extract bearer token.
			token, ok := httpx.BearerToken(r)
			if !ok {
				httpx.SetBearerChallenge(w, "", "")
				httpx.WriteEnvelope(w, http.StatusUnauthorized, msgNoToken, nil)
				return
			}

			// 2. Verify signature and lifetime.
			claims, err := g.Verifier.Verify(token)
			if err != nil {
				log.Warn("gate: token rejected", slog.Any("error", err))
				httpx.SetBearerChallenge(w, bearerBadToken, "token is invalid or expired")
				httpx.WriteEnvelope(w, http.StatusUnauthorized, msgInvalidToken, nil)
				return
			}

			// 3. Re-resolve the account.
			account, err := g.Accounts.ResolveIdentity(ctx, claims.Subject)
			if err != nil {
				if errors.Is(err, service.ErrAccountNotFound) {
					log.Warn("gate: token for missing account", slog.String("account_id", claims.Subject))
					httpx.SetBearerChallenge(w, bearerBadToken, "account no longer exists")
					httpx.WriteEnvelope(w, http.StatusUnauthorized, msgUserNotFound, nil)
					return
				}
				writeError(w, r, err)
				return
			}

			// 4. Verified email is mandatory.
			if !account.IsVerified {
				httpx.SetBearerChallenge(w, bearerBadRequest, "email not verified")
				httpx.WriteEnvelope(w, http.StatusUnauthorized, msgNotVerified, nil)
				return
			}

			// 5. Role check.
			if !account.Role.Allows(roles...) {
				log.Warn("gate: insufficient role",
					slog.String("account_id", account.ID),
					slog.String("role", account.Role.String()),
				)
				httpx.WriteEnvelope(w, http.StatusForbidden, msgInsufficient, nil)
				return
			}

			ctx = WithIdentity(ctx, account.Identity())
			ctx = httpx.WithUserID(ctx, account.ID)
			ctx = slogx.With(ctx, "account_id", account.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type identityKey struct{}

// WithIdentity attaches the authenticated caller to ctx.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller attached by the gate.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(domain.Identity)
	return id, ok
}
