package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the e-KYC service. It covers the public
// endpoints and creates authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates an unverified account. The service mails a verification
// code as a side effect.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/register", req, "")
	if err != nil {
		return nil, err
	}

	user, err := decodeEnvelope[User](resp, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates with username and password. For an unverified account
// it returns a *VerificationRequiredError and the service resends the code.
func (c *SDKClient) Login(ctx context.Context, username, password string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/login", LoginRequest{
		Username: username,
		Password: password,
	}, "")
	if err != nil {
		return nil, err
	}

	result, err := decodeEnvelope[AuthResult](resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return c.NewSession(result.Token, result.User), nil
}

// SendVerificationOTP asks the service to mail a new verification code.
func (c *SDKClient) SendVerificationOTP(ctx context.Context, userID string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/send-verification-otp", SendOTPRequest{UserID: userID}, "")
	if err != nil {
		return err
	}

	_, err = decodeEnvelope[any](resp, http.StatusOK)
	return err
}

// VerifyOTP submits a verification code. On success the account is verified
// and a session is returned.
func (c *SDKClient) VerifyOTP(ctx context.Context, userID, otp string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/verify-otp", VerifyOTPRequest{
		UserID: userID,
		OTP:    otp,
	}, "")
	if err != nil {
		return nil, err
	}

	result, err := decodeEnvelope[AuthResult](resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return c.NewSession(result.Token, result.User), nil
}

// NewSession wraps an existing token.
func (c *SDKClient) NewSession(token string, user User) *Session {
	return &Session{
		client: c,
		token:  token,
		user:   user,
	}
}
