package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/ekyc/internal/ekyc/store"
	"github.com/aussiebroadwan/ekyc/pkg/authsdk"
	"github.com/aussiebroadwan/ekyc/pkg/httpx"
	"github.com/aussiebroadwan/ekyc/pkg/jwtx"
)

// Pinger is an optional dependency probed by the readiness check.
type Pinger interface {
	Ping(ctx context.Context) error
}

const readyzTimeout = 2 * time.Second

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Checks the database, the token verifier and, when configured, the Redis cache.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.Response[authsdk.HealthResponse]	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.Response[authsdk.HealthResponse]	"one or more checks failed"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	verifier jwtx.Verifier,
	cache Pinger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyzTimeout)
		defer cancel()

		checks := &authsdk.HealthChecks{
			Database: "ok",
			Signer:   "ok",
		}
		ready := true

		if err := st.Ping(ctx); err != nil {
			checks.Database = "error: " + err.Error()
			ready = false
		}

		if verifier == nil {
			checks.Signer = "error: no signing key loaded"
			ready = false
		}

		if cache != nil {
			checks.Cache = "ok"
			if err := cache.Ping(ctx); err != nil {
				checks.Cache = "error: " + err.Error()
				ready = false
			}
		}

		status, code, msg := "ok", http.StatusOK, "Service is ready"
		if !ready {
			status, code, msg = "degraded", http.StatusServiceUnavailable, "Service is not ready"
		}

		httpx.WriteEnvelope(w, code, msg, authsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
