package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/ekyc/internal/ekyc/http"
	"github.com/aussiebroadwan/ekyc/internal/ekyc/mail"
	"github.com/aussiebroadwan/ekyc/internal/ekyc/service"
	"github.com/aussiebroadwan/ekyc/internal/ekyc/store"
	"github.com/aussiebroadwan/ekyc/internal/ekyc/store/drivers/sqlite"
	"github.com/aussiebroadwan/ekyc/internal/ekyc/throttle"
	"github.com/aussiebroadwan/ekyc/pkg/cryptox"
	"github.com/aussiebroadwan/ekyc/pkg/httpx"
	"github.com/aussiebroadwan/ekyc/pkg/jwtx"
	"github.com/aussiebroadwan/ekyc/pkg/slogx"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Application holds the e-KYC service and everything it owns.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	signer   *jwtx.HS256Signer
	verifier *jwtx.HS256Verifier

	// Optional, present when REDIS_ADDR is set.
	redis   *redis.Client
	limiter *throttle.Limiter
	queue   *asynq.Client
	worker  *mail.Worker

	dispatcher mail.Dispatcher

	registrationService *service.RegistrationService
	accountService      *service.AccountService
	sessionService      *service.SessionService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "ekyc-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(cfg.PepperFile)
	if err := cryptox.LoadPepper(); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		_ = app.closeAll()
		return nil, err
	}
	if err := app.initKeys(); err != nil {
		_ = app.closeAll()
		return nil, err
	}
	if err := app.initRedis(); err != nil {
		_ = app.closeAll()
		return nil, err
	}
	if err := app.initMail(); err != nil {
		_ = app.closeAll()
		return nil, err
	}

	app.initServices()

	if err := app.bootstrapAdmin(); err != nil {
		_ = app.closeAll()
		return nil, err
	}

	if err := app.initHTTP(); err != nil {
		_ = app.closeAll()
		return nil, err
	}
	return app, nil
}

// Handler returns the fully wired HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Start launches the background workers without serving HTTP.
func (app *Application) Start() error {
	if app.worker != nil {
		if err := app.worker.Start(); err != nil {
			return err
		}
	}
	app.housekeepingService.Start()
	return nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	if err := app.Start(); err != nil {
		return err
	}

	app.logger.Info("ekyc service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.stopBackground()
			_ = app.closeAll()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains HTTP, stops the workers and closes every connection.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down ekyc service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.stopBackground()

	if err := app.closeAll(); err != nil {
		return err
	}

	app.logger.Info("ekyc service stopped")
	return nil
}

func (app *Application) stopBackground() {
	app.housekeepingService.Stop()
	if app.worker != nil {
		app.worker.Stop()
	}
}

// closeAll releases connections in reverse order of creation. The database
// error, if any, is returned.
func (app *Application) closeAll() error {
	if app.queue != nil {
		if err := app.queue.Close(); err != nil {
			app.logger.Error("error closing queue client", "error", err)
		}
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database", "error", err)
			return err
		}
	}
	return nil
}

func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(app.cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

func (app *Application) initKeys() error {
	secret, err := LoadSigningSecret(app.cfg, app.logger)
	if err != nil {
		return fmt.Errorf("failed to load signing secret: %w", err)
	}

	if app.signer, err = jwtx.NewSignerHS256(secret); err != nil {
		return err
	}
	if app.verifier, err = jwtx.NewVerifierHS256(secret, app.cfg.Issuer); err != nil {
		return err
	}
	app.verifier.WithLeeway(30 * time.Second)

	app.logger.Info("session signer ready", "alg", app.signer.Alg(), "issuer", app.cfg.Issuer, "ttl", app.cfg.TokenTTL)
	return nil
}

func (app *Application) initRedis() error {
	if app.cfg.RedisAddr == "" {
		app.logger.Info("redis not configured; otp throttle is per instance and mail queue is disabled")
		return nil
	}

	app.redis = redis.NewClient(&redis.Options{
		Addr:     app.cfg.RedisAddr,
		Password: app.cfg.RedisPassword,
		DB:       app.cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to reach redis at %s: %w", app.cfg.RedisAddr, err)
	}

	app.limiter = throttle.New(app.redis, app.cfg.otpLimits(), "")

	app.logger.Info("otp throttle enabled",
		"send_limit", app.cfg.OTPSendLimit,
		"verify_limit", app.cfg.OTPVerifyLimit,
		"window", app.cfg.OTPThrottleWindow,
	)
	return nil
}

func (app *Application) initMail() error {
	if app.cfg.SMTPHost == "" {
		if app.cfg.IsProduction() {
			return errors.New("log mail dispatcher is not allowed in prod")
		}
		app.logger.Warn("SMTP_HOST not set; verification codes will be written to the log")
		app.dispatcher = mail.LogDispatcher{}
		return nil
	}

	smtp, err := mail.NewSMTPDispatcher(mail.SMTPConfig{
		Host:     app.cfg.SMTPHost,
		Port:     app.cfg.SMTPPort,
		Username: app.cfg.SMTPUsername,
		Password: app.cfg.SMTPPassword,
		From:     app.cfg.MailFrom,
	})
	if err != nil {
		return err
	}

	if !app.cfg.MailQueue {
		app.dispatcher = smtp
		app.logger.Info("mail dispatcher: smtp", "host", app.cfg.SMTPHost, "port", app.cfg.SMTPPort)
		return nil
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     app.cfg.RedisAddr,
		Password: app.cfg.RedisPassword,
		DB:       app.cfg.RedisDB,
	}
	app.queue = asynq.NewClient(redisOpt)
	app.worker = mail.NewWorker(mail.WorkerConfig{
		RedisOpt: redisOpt,
		Delivery: smtp,
		Logger:   app.logger,
	})
	app.dispatcher = mail.NewQueueDispatcher(app.queue)

	app.logger.Info("mail dispatcher: queued smtp", "host", app.cfg.SMTPHost, "queue", mail.QueueMail)
	return nil
}

func (app *Application) initServices() {
	hasher := cryptox.Argon2idHasher{}

	app.registrationService = &service.RegistrationService{
		Store:      app.db,
		Hasher:     hasher,
		Challenges: cryptox.OTPGenerator{Digits: 6, TTL: app.cfg.OTPTTL},
		Mail:       app.dispatcher,
	}
	if app.limiter != nil {
		app.registrationService.Throttle = app.limiter
	} else {
		app.registrationService.Throttle = throttle.NewLocal(app.cfg.otpLimits())
		app.logger.Info("otp throttle: in-process",
			"send_limit", app.cfg.OTPSendLimit,
			"verify_limit", app.cfg.OTPVerifyLimit,
			"window", app.cfg.OTPThrottleWindow,
		)
	}

	app.accountService = &service.AccountService{Store: app.db, Hasher: hasher}
	app.sessionService = &service.SessionService{
		Signer: app.signer,
		Issuer: app.cfg.Issuer,
		TTL:    app.cfg.TokenTTL,
	}
	app.bootstrapService = &service.BootstrapService{Store: app.db, Hasher: hasher}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.ChallengeRetention,
	)
}

func (app *Application) bootstrapAdmin() error {
	if app.cfg.AdminUsername == "" {
		return nil
	}

	ctx := slogx.WithContext(context.Background(), app.logger)
	created, err := app.bootstrapService.EnsureAdmin(ctx, service.AdminSeed{
		Username: app.cfg.AdminUsername,
		Email:    app.cfg.AdminEmail,
		Password: app.cfg.AdminPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}
	if created {
		app.logger.Info("admin account created", "username", app.cfg.AdminUsername)
	}
	return nil
}

func (app *Application) initHTTP() error {
	proxies, err := app.cfg.TrustedProxyPrefixes()
	if err != nil {
		return err
	}

	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.Registration = app.registrationService
	router.Accounts = app.accountService
	router.Sessions = app.sessionService
	router.Limits = httpx.RateLimitProfilesFromEnv()
	router.Production = app.cfg.IsProduction()
	router.TrustedProxies = proxies
	if app.limiter != nil {
		router.Cache = app.limiter
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
