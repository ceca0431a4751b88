package app

import (
	"errors"
	"fmt"
	"net/netip"
	"time"

	"github.com/aussiebroadwan/ekyc/internal/ekyc/throttle"
	"github.com/aussiebroadwan/ekyc/pkg/httpx"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env                  string        `envconfig:"ENV" default:"dev"`
	LogLevel             string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat            string        `envconfig:"LOG_FORMAT" default:"json"`
	Port                 int           `envconfig:"PORT" default:"8080"`
	ShutdownGracePeriod  time.Duration `envconfig:"SHUTDOWN_GRACE_PERIOD" default:"10s"`
	HousekeepingInterval time.Duration `envconfig:"HOUSEKEEPING_INTERVAL" default:"1h"`
	ChallengeRetention   time.Duration `envconfig:"CHALLENGE_RETENTION" default:"24h"`

	DatabaseFile string `envconfig:"EKYC_DATABASE_FILE" default:"ekyc.db"`
	PepperFile   string `envconfig:"EKYC_PEPPER_FILE" default:"pepper"`

	// Session tokens. One of JWTSecret or JWTSecretFile is required in prod.
	JWTSecret     string        `envconfig:"EKYC_JWT_SECRET"`
	JWTSecretFile string        `envconfig:"EKYC_JWT_SECRET_FILE"`
	Issuer        string        `envconfig:"EKYC_TOKEN_ISSUER" default:"ekyc"`
	TokenTTL      time.Duration `envconfig:"EKYC_TOKEN_TTL" default:"24h"`
	OTPTTL        time.Duration `envconfig:"EKYC_OTP_TTL" default:"10m"`

	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	MailFrom     string `envconfig:"MAIL_FROM" default:"no-reply@ekyc.local"`
	MailQueue    bool   `envconfig:"MAIL_QUEUE_ENABLED" default:"false"`

	// Redis is optional. It backs the mail queue and the OTP throttle.
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	OTPSendLimit      int           `envconfig:"OTP_SEND_LIMIT" default:"5"`
	OTPVerifyLimit    int           `envconfig:"OTP_VERIFY_LIMIT" default:"10"`
	OTPThrottleWindow time.Duration `envconfig:"OTP_THROTTLE_WINDOW" default:"10m"`

	// Proxies allowed to set X-Forwarded-For, as CIDRs or addresses.
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`

	AdminUsername string `envconfig:"ADMIN_USERNAME"`
	AdminEmail    string `envconfig:"ADMIN_EMAIL"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
}

// LoadConfig reads the configuration from the environment and validates it.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsProduction reports whether the service runs with ENV=prod.
func (c Config) IsProduction() bool {
	return c.Env == "prod"
}

// Validate enforces the rules envconfig tags cannot express.
func (c Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("EKYC_TOKEN_TTL must be positive"))
	}
	if c.OTPTTL <= 0 {
		errs = append(errs, errors.New("EKYC_OTP_TTL must be positive"))
	}
	if c.MailQueue && c.RedisAddr == "" {
		errs = append(errs, errors.New("MAIL_QUEUE_ENABLED requires REDIS_ADDR"))
	}
	if c.MailQueue && c.SMTPHost == "" {
		errs = append(errs, errors.New("MAIL_QUEUE_ENABLED requires SMTP_HOST"))
	}

	if _, err := c.TrustedProxyPrefixes(); err != nil {
		errs = append(errs, fmt.Errorf("TRUSTED_PROXIES: %w", err))
	}

	admin := 0
	for _, v := range []string{c.AdminUsername, c.AdminEmail, c.AdminPassword} {
		if v != "" {
			admin++
		}
	}
	if admin != 0 && admin != 3 {
		errs = append(errs, errors.New("ADMIN_USERNAME, ADMIN_EMAIL and ADMIN_PASSWORD must be set together"))
	}

	if c.IsProduction() {
		if c.JWTSecret == "" && c.JWTSecretFile == "" {
			errs = append(errs, errors.New("EKYC_JWT_SECRET or EKYC_JWT_SECRET_FILE is required in prod"))
		}
		if c.SMTPHost == "" {
			errs = append(errs, errors.New("SMTP_HOST is required in prod"))
		}
	}

	return errors.Join(errs...)
}

// TrustedProxyPrefixes parses TrustedProxies.
func (c Config) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	return httpx.ParseTrustedProxies(c.TrustedProxies)
}

func (c Config) otpLimits() throttle.Limits {
	return throttle.Limits{
		Send:   c.OTPSendLimit,
		Verify: c.OTPVerifyLimit,
		Window: c.OTPThrottleWindow,
	}
}
