package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-success envelope returned by the service.
type APIError struct {
	StatusCode int
	Message    string

	// Fields holds per-field reasons for validation failures.
	Fields map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// VerificationRequiredError is returned by Login when the credentials are
// right but the email has not been verified. A fresh code has been mailed.
type VerificationRequiredError struct {
	UserID  string
	Message string
}

func (e *VerificationRequiredError) Error() string {
	return fmt.Sprintf("verification required for %s: %s", e.UserID, e.Message)
}

// IsStatus reports whether err is an *APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// parseErrorResponse turns a failed response body into a typed error.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var env Response[json.RawMessage]
	if err := json.Unmarshal(body, &env); err != nil || env.Message == "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
	}

	if resp.StatusCode == http.StatusForbidden {
		var pending VerificationPending
		if err := json.Unmarshal(env.Data, &pending); err == nil && pending.UserID != "" {
			return &VerificationRequiredError{UserID: pending.UserID, Message: env.Message}
		}
	}

	apiErr := &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	if resp.StatusCode == http.StatusBadRequest && len(env.Data) > 0 {
		var fields map[string]string
		if err := json.Unmarshal(env.Data, &fields); err == nil {
			apiErr.Fields = fields
		}
	}
	return apiErr
}
