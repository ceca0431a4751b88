package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aussiebroadwan/ekyc/pkg/cryptox"
	"github.com/aussiebroadwan/ekyc/pkg/jwtx"
)

// LoadSigningSecret returns the HMAC secret for session tokens.
//
// Sources, in order:
//   - EKYC_JWT_SECRET
//   - the file at EKYC_JWT_SECRET_FILE (surrounding whitespace trimmed)
//   - a random secret generated at startup, outside prod only. Every
//     session is invalidated when the process restarts.
func LoadSigningSecret(cfg Config, logger *slog.Logger) ([]byte, error) {
	switch {
	case cfg.JWTSecret != "":
		return checkSecret([]byte(cfg.JWTSecret), "EKYC_JWT_SECRET")

	case cfg.JWTSecretFile != "":
		raw, err := os.ReadFile(cfg.JWTSecretFile)
		if err != nil {
			return nil, fmt.Errorf("read signing secret: %w", err)
		}
		logger.Info("signing secret loaded from file", "path", cfg.JWTSecretFile)
		return checkSecret([]byte(strings.TrimSpace(string(raw))), cfg.JWTSecretFile)

	case cfg.IsProduction():
		return nil, fmt.Errorf("no signing secret configured")

	default:
		secret, err := cryptox.GenerateToken(cryptox.TokenSize512)
		if err != nil {
			return nil, fmt.Errorf("generate signing secret: %w", err)
		}
		logger.Warn("using an ephemeral signing secret; sessions will not survive a restart")
		return []byte(secret), nil
	}
}

func checkSecret(secret []byte, source string) ([]byte, error) {
	if len(secret) < jwtx.MinSecretLength {
		return nil, fmt.Errorf("signing secret from %s: %w", source, jwtx.ErrWeakSecret)
	}
	return secret, nil
}
