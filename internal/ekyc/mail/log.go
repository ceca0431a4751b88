package mail

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/ekyc/pkg/slogx"
)

// LogDispatcher writes verification codes to the log instead of sending
// them. It is for local development only; the app refuses it in prod.
type LogDispatcher struct{}

func (LogDispatcher) SendVerificationCode(ctx context.Context, msg VerificationMessage) error {
	if err := msg.validate(); err != nil {
		return err
	}
	slogx.FromContext(ctx).Warn("verification email not sent (log dispatcher)",
		slog.String("to", msg.To),
		slog.String("username", msg.Username),
		slog.String("code", msg.Code),
		slog.Duration("expires_in", msg.ExpiresIn),
	)
	return nil
}
