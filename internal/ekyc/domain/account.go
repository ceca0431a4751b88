package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Username length bounds, counted in characters after trimming.
const (
	UsernameMinLen = 3
	UsernameMaxLen = 30
)

// NormalizeUsername trims surrounding whitespace. Usernames are stored and
// compared in this form.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

// ValidUsername reports whether username is within the length bounds once
// normalized.
func ValidUsername(username string) bool {
	n := utf8.RuneCountInString(NormalizeUsername(username))
	return n >= UsernameMinLen && n <= UsernameMaxLen
}

// Account is a stored user identity. PasswordHash and the challenge fields
// never leave the service layer.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // argon2 encoded
	Role         Role
	IsVerified   bool

	// ChallengeCode and ChallengeExpiresAt are both set while a verification
	// code is outstanding and both nil otherwise.
	ChallengeCode      *string
	ChallengeExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasChallenge reports whether a verification code is outstanding.
func (a Account) HasChallenge() bool {
	return a.ChallengeCode != nil && a.ChallengeExpiresAt != nil
}

// ChallengeExpired reports whether the outstanding challenge is past its
// expiry at now. An account without a challenge is never expired.
func (a Account) ChallengeExpired(now time.Time) bool {
	return a.HasChallenge() && now.After(*a.ChallengeExpiresAt)
}

// Public returns the client-safe projection.
func (a Account) Public() PublicAccount {
	return PublicAccount{
		ID:         a.ID,
		Username:   a.Username,
		Email:      a.Email,
		Role:       a.Role,
		IsVerified: a.IsVerified,
	}
}

// Identity returns the projection handed to request handlers by the auth gate.
func (a Account) Identity() Identity {
	return Identity{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		Role:     a.Role,
	}
}

// PublicAccount is what clients get to see of an account.
type PublicAccount struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	IsVerified bool   `json:"isVerified"`
}

// Identity is the authenticated caller of a protected request.
type Identity struct {
	ID       string
	Username string
	Email    string
	Role     Role
}
