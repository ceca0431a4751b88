package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/ekyc/internal/ekyc/service"
	"github.com/aussiebroadwan/ekyc/pkg/httpx"
	"github.com/aussiebroadwan/ekyc/pkg/slogx"
)

// writeError maps a service error onto the response envelope. Causes are
// logged, never sent.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		se = service.Internal(err)
	}

	status := se.Kind.Status()
	if status >= http.StatusInternalServerError {
		slogx.FromContext(r.Context()).Error("request failed",
			slog.String("kind", se.Kind.String()),
			slog.Any("error", err),
		)
	}

	var data any
	if len(se.Fields) > 0 {
		data = se.Fields
	}
	httpx.WriteEnvelope(w, status, se.Message, data)
}
