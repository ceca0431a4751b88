package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/ekyc/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func tag(name string, order *[]string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*order = append(*order, name)
			next.ServeHTTP(w, r)
		})
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), tag("outer", &order), nil, tag("inner", &order))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc", "abc", true},
		{"BEARER   abc  ", "abc", true},
		{"  Bearer abc", "abc", true},
		{"", "", false},
		{"Bearer", "", false},
		{"Bearer    ", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"abc", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.header, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			got, ok := httpx.BearerToken(req)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestSetBearerChallenge(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.SetBearerChallenge(rec, "invalid_token", "token expired")
	require.Equal(t, `Bearer realm="ekyc", error="invalid_token", error_description="token expired"`,
		rec.Header().Get("WWW-Authenticate"))

	rec = httptest.NewRecorder()
	httpx.SetBearerChallenge(rec, "", "")
	require.Equal(t, `Bearer realm="ekyc"`, rec.Header().Get("WWW-Authenticate"))
}

func TestWriteEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.WriteEnvelope(rec, http.StatusCreated, "created", map[string]string{"id": "1"})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, float64(201), body["statusCode"])
	require.Equal(t, true, body["success"])
	require.Equal(t, "created", body["message"])
	require.Equal(t, map[string]any{"id": "1"}, body["data"])

	rec = httptest.NewRecorder()
	httpx.WriteEnvelope(rec, http.StatusNotFound, "missing", nil)

	body = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, false, body["success"])
	require.Contains(t, body, "data")
	require.Nil(t, body["data"])
}
