package service

import "net/http"

// Kind classifies a service failure. The HTTP layer maps it to a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindTooManyRequests
)

// Status returns the HTTP status code for k.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindTooManyRequests:
		return "too_many_requests"
	default:
		return "internal"
	}
}

// Error is a client-presentable failure. Message and Fields are safe to show
// to callers; Err is the underlying cause and is only ever logged.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same kind and message, so a sentinel still
// matches after it has been given a cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

// Wrap returns a copy of e carrying cause.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Validation builds a 400 error with per-field reasons.
func Validation(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

// Internal hides cause behind a generic message.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: cause}
}

var (
	ErrPasswordMismatch    = newError(KindValidation, "Passwords do not match")
	ErrNewPasswordMismatch = newError(KindValidation, "New passwords do not match")
	ErrUsernameTaken       = newError(KindConflict, "Username is already taken")
	ErrEmailTaken          = newError(KindConflict, "Email is already registered")
	ErrInvalidCredentials  = newError(KindUnauthorized, "Invalid login credentials")
	ErrWrongPassword       = newError(KindUnauthorized, "Current password is incorrect")
	ErrAccountNotFound     = newError(KindNotFound, "User not found")
	ErrNoChallenge         = newError(KindValidation, "Verification code not found or has expired. Please request a new one.")
	ErrChallengeExpired    = newError(KindValidation, "Verification code has expired. Please request a new one.")
	ErrInvalidCode         = newError(KindValidation, "Invalid verification code")
	ErrThrottled           = newError(KindTooManyRequests, "Too many verification requests. Please try again later.")
	ErrCodeDispatch        = newError(KindInternal, "Error generating verification code")
	ErrInvalidRole         = newError(KindValidation, "Invalid role")
	ErrEmailNotVerified    = newError(KindForbidden, "Email not verified. A new verification code has been sent to your email.")
)

// ErrInvalidUsername is returned for usernames outside 3-30 characters once
// trimmed.
var ErrInvalidUsername = &Error{
	Kind:    KindValidation,
	Message: "Username must be between 3 and 30 characters",
	Fields:  map[string]string{"username": "must be between 3 and 30 characters"},
}
