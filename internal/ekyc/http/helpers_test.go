package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	ekychttp "github.com/aussiebroadwan/ekyc/internal/ekyc/http"
	"github.com/aussiebroadwan/ekyc/internal/ekyc/mail"
	"github.com/aussiebroadwan/ekyc/internal/ekyc/service"
	"github.com/aussiebroadwan/ekyc/internal/ekyc/store/drivers/sqlite"
	"github.com/aussiebroadwan/ekyc/pkg/cryptox"
	"github.com/aussiebroadwan/ekyc/pkg/httpx"
	"github.com/aussiebroadwan/ekyc/pkg/jwtx"
	"github.com/aussiebroadwan/ekyc/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer = "ekyc-test"
	testSecret = "0123456789abcdef0123456789abcdef"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "ekyc-http-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

// codes remembers the last verification code mailed to each address.
type codes struct {
	mu   sync.Mutex
	last map[string]string
	sent int
}

func (c *codes) SendVerificationCode(_ context.Context, msg mail.VerificationMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last[msg.To] = msg.Code
	c.sent++
	return nil
}

func (c *codes) For(email string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last[email]
}

func (c *codes) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent
}

type server struct {
	router *ekychttp.Router
	store  *sqlite.Store
	signer *jwtx.HS256Signer
	mail   *codes
}

type serverOption func(*ekychttp.Router)

func withLimits(p httpx.RateLimitProfiles) serverOption {
	return func(r *ekychttp.Router) { r.Limits = p }
}

func generousLimits() httpx.RateLimitProfiles {
	c := httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}
	return httpx.RateLimitProfiles{Strict: c, Moderate: c, Lenient: c, Public: c}
}

func newServer(t *testing.T, opts ...serverOption) *server {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.MemoryDSN)
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	signer, err := jwtx.NewSignerHS256([]byte(testSecret))
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHS256([]byte(testSecret), testIssuer)
	require.NoError(t, err)

	box := &codes{last: map[string]string{}}

	r := ekychttp.NewRouter(verifier, "test", st, slogx.Discard())
	r.Registration = &service.RegistrationService{
		Store:      st,
		Hasher:     cryptox.Argon2idHasher{},
		Challenges: cryptox.OTPGenerator{Digits: 6, TTL: 10 * time.Minute},
		Mail:       box,
	}
	r.Accounts = &service.AccountService{Store: st, Hasher: cryptox.Argon2idHasher{}}
	r.Sessions = &service.SessionService{Signer: signer, Issuer: testIssuer, TTL: time.Hour}
	r.Limits = generousLimits()
	for _, opt := range opts {
		opt(r)
	}
	r.ApplyRoutes()

	return &server{router: r, store: st, signer: signer, mail: box}
}

func (s *server) do(t *testing.T, method, path string, body any, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	require.Equal(t, rec.Code, env.StatusCode)
	return rec, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

// verifiedSession registers, verifies and returns the account id and token.
func (s *server) verifiedSession(t *testing.T, username, email string) (string, string) {
	t.Helper()

	rec, env := s.do(t, http.MethodPost, "/api/register", map[string]string{
		"username":        username,
		"email":           email,
		"password":        "Abc12345!",
		"confirmPassword": "Abc12345!",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, env.Message)
	id := decode[struct {
		ID string `json:"id"`
	}](t, env.Data).ID

	rec, env = s.do(t, http.MethodPost, "/api/verify-otp", map[string]string{
		"userId": id,
		"otp":    s.mail.For(email),
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, env.Message)
	return id, decode[struct {
		Token string `json:"token"`
	}](t, env.Data).Token
}

func (s *server) adminSession(t *testing.T) string {
	t.Helper()

	boot := &service.BootstrapService{Store: s.store, Hasher: cryptox.Argon2idHasher{}}
	_, err := boot.EnsureAdmin(context.Background(), service.AdminSeed{
		Username: "root",
		Email:    "root@x.com",
		Password: "Root1234!",
	})
	require.NoError(t, err)

	rec, env := s.do(t, http.MethodPost, "/api/login", map[string]string{
		"username": "root",
		"password": "Root1234!",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, env.Message)
	return decode[struct {
		Token string `json:"token"`
	}](t, env.Data).Token
}
