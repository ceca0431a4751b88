// Package mail delivers verification codes to account holders.
package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"
)

// Subject of every verification email.
const Subject = "Email Verification OTP"

// ErrInvalidMessage is returned for messages missing a recipient or code.
var ErrInvalidMessage = errors.New("mail: invalid message")

// VerificationMessage is everything needed to render a verification email.
type VerificationMessage struct {
	To        string        `json:"to"`
	Username  string        `json:"username"`
	Code      string        `json:"code"`
	ExpiresIn time.Duration `json:"expiresIn"`
}

func (m VerificationMessage) validate() error {
	if m.To == "" || m.Code == "" {
		return ErrInvalidMessage
	}
	return nil
}

func (m VerificationMessage) expiryMinutes() int {
	mins := int(m.ExpiresIn.Round(time.Minute) / time.Minute)
	return max(mins, 1)
}

// Dispatcher sends a verification code. Implementations own their timeouts.
type Dispatcher interface {
	SendVerificationCode(ctx context.Context, msg VerificationMessage) error
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, msg VerificationMessage) error

func (f DispatcherFunc) SendVerificationCode(ctx context.Context, msg VerificationMessage) error {
	return f(ctx, msg)
}

var htmlBody = template.Must(template.New("verification").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #e0e0e0; border-radius: 5px;">
  <h2 style="color: #333;">Email Verification</h2>
  <p>Hello {{.Username}},</p>
  <p>Please use the following code to verify your email address:</p>
  <div style="background-color: #f5f5f5; padding: 10px; text-align: center; font-size: 24px; font-weight: bold; letter-spacing: 5px; margin: 20px 0;">{{.Code}}</div>
  <p>This code will expire in {{.Minutes}} minutes.</p>
  <p>If you didn't request this verification, please ignore this email.</p>
</div>`))

// Render returns the plain-text and HTML bodies for msg.
func Render(msg VerificationMessage) (text, html string, err error) {
	mins := msg.expiryMinutes()
	text = fmt.Sprintf("Your verification code is: %s. It will expire in %d minutes.", msg.Code, mins)

	var buf bytes.Buffer
	err = htmlBody.Execute(&buf, struct {
		Username string
		Code     string
		Minutes  int
	}{msg.Username, msg.Code, mins})
	if err != nil {
		return "", "", fmt.Errorf("render verification email: %w", err)
	}
	return text, buf.String(), nil
}
