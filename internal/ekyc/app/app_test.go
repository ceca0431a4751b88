package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/ekyc/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	dir := t.TempDir()
	return Config{
		Env:                  "test",
		LogLevel:             "error",
		Port:                 0,
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
		ChallengeRetention:   24 * time.Hour,
		DatabaseFile:         filepath.Join(dir, "ekyc.db"),
		PepperFile:           filepath.Join(dir, "pepper"),
		JWTSecret:            "0123456789abcdef0123456789abcdef",
		Issuer:               "ekyc-test",
		TokenTTL:             time.Hour,
		OTPTTL:               10 * time.Minute,
		AdminUsername:        "root",
		AdminEmail:           "root@x.com",
		AdminPassword:        "Root1234!",
	}
}

func TestApplicationWiring(t *testing.T) {
	cfg := testConfig(t)

	app, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, app.Start())
	t.Cleanup(func() {
		app.stopBackground()
		_ = app.closeAll()
	})

	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)
	client := authsdk.NewSDKClient(srv.URL)

	health, err := client.GetReadiness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.Empty(t, health.Checks.Cache, "no redis configured")

	// The seeded admin can log in straight away.
	session, err := client.Login(t.Context(), "root", "Root1234!")
	require.NoError(t, err)
	require.Equal(t, "admin", session.User().Role)

	users, err := session.ListUsers(t.Context())
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestApplicationRestartKeepsAccounts(t *testing.T) {
	cfg := testConfig(t)

	first, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, first.closeAll())

	second, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.closeAll() })

	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"username":"root","password":"Root1234!"}`))
	rec := httptest.NewRecorder()
	second.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var env authsdk.Response[authsdk.AuthResult]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotEmpty(t, env.Data.Token)
}

func TestNewRefusesLogMailInProd(t *testing.T) {
	cfg := testConfig(t)
	cfg.Env = "prod"

	_, err := New(cfg)
	require.ErrorContains(t, err, "not allowed in prod")
}
