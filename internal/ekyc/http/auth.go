package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/ekyc/internal/ekyc/domain"
	"github.com/aussiebroadwan/ekyc/internal/ekyc/service"
	"github.com/aussiebroadwan/ekyc/pkg/authsdk"
	"github.com/aussiebroadwan/ekyc/pkg/httpx"
)

const (
	msgRegistered     = "User registered successfully. Please check your email for verification code."
	msgLoggedIn       = "User login successful"
	msgPendingResent  = "Email not verified. A new verification code has been sent to your email."
	msgPendingBackoff = "Email not verified. Please use the verification code already sent to your email."
	msgCodeSent       = "Verification code sent to your email"
	msgVerified       = "Email verified successfully"
)

// AuthHandler serves the unauthenticated account lifecycle endpoints.
type AuthHandler struct {
	Registration *service.RegistrationService
	Sessions     *service.SessionService
}

// HandleRegister godoc
//
//	@Summary		Register
//	@Description	Create an unverified account and email it a 6-digit verification code.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.RegisterRequest							true	"New account"
//	@Success		201		{object}	authsdk.Response[authsdk.User]					"Registered, unverified"
//	@Failure		400		{object}	authsdk.Response[map[string]string]				"Validation failed or passwords differ"
//	@Failure		409		{object}	authsdk.Response[any]							"Username or email taken"
//	@Failure		500		{object}	authsdk.Response[any]							"Verification code could not be sent"
//	@Router			/api/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	account, err := h.Registration.Register(r.Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteEnvelope(w, http.StatusCreated, msgRegistered, toUser(account))
}

// HandleLogin godoc
//
//	@Summary		Login
//	@Description	Exchange credentials for a session token. Unverified accounts get 403 and a fresh code by email.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.LoginRequest								true	"Credentials"
//	@Success		200		{object}	authsdk.Response[authsdk.AuthResult]				"user, token"
//	@Failure		401		{object}	authsdk.Response[any]								"Invalid login credentials"
//	@Failure		403		{object}	authsdk.Response[authsdk.VerificationPending]		"userId, isVerified"
//	@Router			/api/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authsdk.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	account, err := h.Registration.Login(ctx, req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if !account.IsVerified {
		msg := msgPendingResent
		if err := h.Registration.SendChallenge(ctx, account.ID); err != nil {
			if !errors.Is(err, service.ErrThrottled) {
				writeError(w, r, err)
				return
			}
			msg = msgPendingBackoff
		}
		httpx.WriteEnvelope(w, http.StatusForbidden, msg, authsdk.VerificationPending{
			UserID:     account.ID,
			IsVerified: false,
		})
		return
	}

	h.writeSession(w, r, http.StatusOK, msgLoggedIn, account)
}

// HandleSendOTP godoc
//
//	@Summary		Send verification code
//	@Description	Generate a new verification code, replacing any outstanding one, and email it.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.SendOTPRequest	true	"Account"
//	@Success		200		{object}	authsdk.Response[any]	"Code sent"
//	@Failure		404		{object}	authsdk.Response[any]	"User not found"
//	@Failure		429		{object}	authsdk.Response[any]	"Too many requests"
//	@Router			/api/send-verification-otp [post].
func (h *AuthHandler) HandleSendOTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SendOTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Registration.SendChallenge(r.Context(), req.UserID); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteEnvelope(w, http.StatusOK, msgCodeSent, nil)
}

// HandleVerifyOTP godoc
//
//	@Summary		Verify email
//	@Description	Submit the emailed code. A wrong code may be retried until it expires.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.VerifyOTPRequest				true	"Account and code"
//	@Success		200		{object}	authsdk.Response[authsdk.AuthResult]	"user, token"
//	@Failure		400		{object}	authsdk.Response[any]					"Invalid, expired or missing code"
//	@Failure		404		{object}	authsdk.Response[any]					"User not found"
//	@Router			/api/verify-otp [post].
func (h *AuthHandler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.VerifyOTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	account, err := h.Registration.VerifyChallenge(r.Context(), req.UserID, req.OTP)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.writeSession(w, r, http.StatusOK, msgVerified, account)
}

func (h *AuthHandler) writeSession(w http.ResponseWriter, r *http.Request, code int, msg string, account domain.Account) {
	token, err := h.Sessions.Issue(r.Context(), account)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteEnvelope(w, code, msg, authsdk.AuthResult{
		User:  toUser(account),
		Token: token,
	})
}

func toUser(a domain.Account) authsdk.User {
	p := a.Public()
	return authsdk.User{
		ID:         p.ID,
		Username:   p.Username,
		Email:      p.Email,
		Role:       p.Role.String(),
		IsVerified: p.IsVerified,
	}
}
