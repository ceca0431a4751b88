package http

import (
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/aussiebroadwan/ekyc/internal/ekyc/domain"
	"github.com/aussiebroadwan/ekyc/internal/ekyc/service"
	"github.com/aussiebroadwan/ekyc/internal/ekyc/store"
	"github.com/aussiebroadwan/ekyc/pkg/httpx"
	"github.com/aussiebroadwan/ekyc/pkg/jwtx"
	"github.com/aussiebroadwan/ekyc/pkg/slogx"
	"github.com/unrolled/secure"

	_ "github.com/aussiebroadwan/ekyc/api/ekyc" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	clientIP     httpx.KeyExtractor
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	Registration *service.RegistrationService
	Accounts     *service.AccountService
	Sessions     *service.SessionService

	// Cache is probed by /readyz when set.
	Cache Pinger
	// Limits defaults to DefaultRateLimitProfiles when zero.
	Limits httpx.RateLimitProfiles
	// TrustedProxies may set X-Forwarded-For. Empty means rate limits key on
	// the connection's peer address.
	TrustedProxies []netip.Prefix
	// Production enables HTTPS redirects and HSTS.
	Production bool
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	return &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}
}

// ApplyRoutes registers every route and builds the global middleware chain.
// Exported dependency fields must be set before calling it.
func (r *Router) ApplyRoutes() {
	if r.Limits == (httpx.RateLimitProfiles{}) {
		r.Limits = httpx.DefaultRateLimitProfiles()
	}
	r.clientIP = httpx.TrustedProxyIPKeyExtractor(r.TrustedProxies)

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		r.securityHeaders(),
	}

	gate := &Gate{Verifier: r.verifier, Accounts: r.Accounts}

	r.registerAuth()
	r.registerProfile(gate)
	r.registerAdmin(gate)
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpx.Chain(httpSwagger.Handler(), httpx.RateLimitByIP(r.Limits.Public, r.clientIP)))
	r.Mux.Handle("/", NotFoundHandler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			e-KYC Account Service API
//	@version		0.1.0
//	@description	Registration, email verification and session tokens for the e-KYC platform.
//	@description
//	@description				Every response is wrapped in {statusCode, success, message, data}. Session tokens are HS256 JWTs.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/ekyc
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) securityHeaders() httpx.Middleware {
	sec := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; img-src 'self' data:; style-src 'self' 'unsafe-inline'; script-src 'self' 'unsafe-inline'",
		SSLRedirect:           r.Production,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		STSSeconds:            stsSeconds(r.Production),
		STSIncludeSubdomains:  r.Production,
	})
	return sec.Handler
}

func stsSeconds(prod bool) int64 {
	if prod {
		return 31536000
	}
	return 0
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Registration: r.Registration, Sessions: r.Sessions}

	// Credential and code endpoints - strict by IP
	strict := httpx.RateLimitByIP(r.Limits.Strict, r.clientIP)

	r.Mux.Handle("POST /api/register", httpx.ChainFunc(h.HandleRegister, strict))
	r.Mux.Handle("POST /api/login", httpx.ChainFunc(h.HandleLogin, strict))
	r.Mux.Handle("POST /api/send-verification-otp", httpx.ChainFunc(h.HandleSendOTP, strict))
	r.Mux.Handle("POST /api/verify-otp", httpx.ChainFunc(h.HandleVerifyOTP, strict))
}

func (r *Router) registerProfile(gate *Gate) {
	h := &ProfileHandler{Accounts: r.Accounts}

	// Limited by user, so the gate runs first
	r.Mux.Handle("GET /api/profile",
		httpx.ChainFunc(h.HandleGet,
			gate.Require(),
			httpx.RateLimitByUser(r.Limits.Lenient, r.clientIP),
		),
	)
	r.Mux.Handle("PUT /api/profile",
		httpx.ChainFunc(h.HandleUpdate,
			gate.Require(),
			httpx.RateLimitByUser(r.Limits.Moderate, r.clientIP),
		),
	)
	r.Mux.Handle("POST /api/change-password",
		httpx.ChainFunc(h.HandleChangePassword,
			gate.Require(),
			httpx.RateLimitByUser(r.Limits.Strict, r.clientIP),
		),
	)
}

func (r *Router) registerAdmin(gate *Gate) {
	h := &AdminHandler{Accounts: r.Accounts}
	limit := httpx.RateLimitByUser(r.Limits.Moderate, r.clientIP)

	r.Mux.Handle("GET /api/all",
		httpx.ChainFunc(h.HandleList, gate.Require(domain.RoleAdmin), limit),
	)
	r.Mux.Handle("PUT /api/users/{id}/role",
		httpx.ChainFunc(h.HandleChangeRole, gate.Require(domain.RoleAdmin), limit),
	)
}

func (r *Router) registerSystem() {
	// Probes may poll frequently
	lenient := httpx.RateLimitByIP(r.Limits.Lenient, r.clientIP)

	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion), lenient),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.verifier, r.Cache), lenient),
	)
}
