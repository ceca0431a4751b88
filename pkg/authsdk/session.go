package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"sync"
)

// Session is an authenticated handle holding a session token. Tokens are not
// refreshed; log in again once a request fails with 401.
type Session struct {
	client *SDKClient

	mu    sync.RWMutex
	token string
	user  User
}

// AccessToken returns the bearer token.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the account as last seen by this session.
func (s *Session) User() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) setUser(u User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}

// Profile fetches the caller's account.
func (s *Session) Profile(ctx context.Context) (*User, error) {
	resp, err := s.client.doRequest(ctx, http.MethodGet, "/api/profile", nil, s.AccessToken())
	if err != nil {
		return nil, err
	}

	user, err := decodeEnvelope[User](resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	s.setUser(user)
	return &user, nil
}

// UpdateProfile changes the caller's username and/or email.
func (s *Session) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*User, error) {
	resp, err := s.client.doRequest(ctx, http.MethodPut, "/api/profile", req, s.AccessToken())
	if err != nil {
		return nil, err
	}

	user, err := decodeEnvelope[User](resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	s.setUser(user)
	return &user, nil
}

// ChangePassword replaces the caller's password.
func (s *Session) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	resp, err := s.client.doRequest(ctx, http.MethodPost, "/api/change-password", req, s.AccessToken())
	if err != nil {
		return err
	}

	_, err = decodeEnvelope[any](resp, http.StatusOK)
	return err
}

// ListUsers returns every account. Requires the admin role.
func (s *Session) ListUsers(ctx context.Context) ([]User, error) {
	resp, err := s.client.doRequest(ctx, http.MethodGet, "/api/all", nil, s.AccessToken())
	if err != nil {
		return nil, err
	}

	return decodeEnvelope[[]User](resp, http.StatusOK)
}

// ChangeRole sets the role of another account. Requires the admin role.
func (s *Session) ChangeRole(ctx context.Context, userID, role string) (*User, error) {
	path := "/api/users/" + url.PathEscape(userID) + "/role"
	resp, err := s.client.doRequest(ctx, http.MethodPut, path, ChangeRoleRequest{Role: role}, s.AccessToken())
	if err != nil {
		return nil, err
	}

	user, err := decodeEnvelope[User](resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
