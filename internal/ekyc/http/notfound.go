package http

import (
	"net/http"

	"github.com/aussiebroadwan/ekyc/pkg/httpx"
)

const msgRouteNotFound = "API NOT FOUND Here!"

// NotFoundHandler answers every unmatched route.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteEnvelope(w, http.StatusNotFound, msgRouteNotFound, nil)
	}
}
