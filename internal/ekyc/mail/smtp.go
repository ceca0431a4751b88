package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/ekyc/pkg/slogx"
	"gopkg.in/gomail.v2"
)

// SMTPConfig holds the outbound mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// sender is the part of *gomail.Dialer we use.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPDispatcher sends verification emails synchronously over SMTP.
type SMTPDispatcher struct {
	from   string
	dialer sender
}

// NewSMTPDispatcher creates a dispatcher dialing cfg.Host for every message.
func NewSMTPDispatcher(cfg SMTPConfig) (*SMTPDispatcher, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, fmt.Errorf("mail: smtp host and sender address are required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPDispatcher{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}, nil
}

func (d *SMTPDispatcher) SendVerificationCode(ctx context.Context, msg VerificationMessage) error {
	if err := msg.validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := d.build(msg)
	if err != nil {
		return err
	}

	if err := d.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	slogx.FromContext(ctx).Info("verification email sent", slog.String("to", slogx.MaskEmail(msg.To)))
	return nil
}

func (d *SMTPDispatcher) build(msg VerificationMessage) (*gomail.Message, error) {
	text, html, err := Render(msg)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", d.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", Subject)
	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", html)
	return m, nil
}
