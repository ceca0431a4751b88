package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/ekyc/internal/ekyc/domain"
	"github.com/aussiebroadwan/ekyc/internal/ekyc/mail"
	"github.com/aussiebroadwan/ekyc/internal/ekyc/store"
	"github.com/aussiebroadwan/ekyc/internal/ekyc/throttle"
	"github.com/aussiebroadwan/ekyc/pkg/idx"
	"github.com/aussiebroadwan/ekyc/pkg/slogx"
)

// PasswordHasher hashes and checks account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) error
}

// ChallengeGenerator issues verification codes.
type ChallengeGenerator interface {
	Generate(now time.Time) (code string, expiresAt time.Time, err error)
}

// Throttle limits challenge sends and verification attempts per account.
type Throttle interface {
	Allow(ctx context.Context, action throttle.Action, subject string) error
}

// RegisterInput is a sign-up request.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// RegistrationService owns the account lifecycle from sign-up to a verified
// email address, and checks credentials at login.
type RegistrationService struct {
	Store      store.Store
	Hasher     PasswordHasher
	Challenges ChallengeGenerator
	Mail       mail.Dispatcher

	// Throttle is optional.
	Throttle Throttle

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *RegistrationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Register creates an unverified account and sends it a verification code.
// When only the dispatch fails the account is still returned alongside
// ErrCodeDispatch; the challenge stays stored so a resend can follow.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	username := domain.NormalizeUsername(in.Username)
	email := normalizeEmail(in.Email)

	// 1. Username bounds apply to the trimmed form; passwords must agree.
	if !domain.ValidUsername(username) {
		return domain.Account{}, ErrInvalidUsername
	}
	if in.Password != in.ConfirmPassword {
		return domain.Account{}, ErrPasswordMismatch
	}

	// 2. Friendly conflict check. The unique indexes still decide races.
	if err := checkAvailable(ctx, s.Store.Accounts(), "", username, email); err != nil {
		return domain.Account{}, err
	}

	// 3. Hash password.
	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.Account{}, Internal(err)
	}

	// 4. Create the account.
	account := domain.Account{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.Store.Accounts().CreateAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Account{}, conflictFor(ctx, s.Store.Accounts(), username)
		}
		log.Error("failed to create account", slog.Any("error", err))
		return domain.Account{}, Internal(err)
	}

	log.Info("account registered",
		slog.String("account_id", account.ID),
		slog.String("username", account.Username),
		slog.String("email", slogx.MaskEmail(account.Email)),
	)

	// 5. Kick off email verification.
	if err := s.SendChallenge(ctx, account.ID); err != nil {
		return account, err
	}

	return s.reload(ctx, account)
}

// SendChallenge issues a fresh code to the account, replacing any
// outstanding one, and mails it. Concurrent sends are last-writer-wins.
func (s *RegistrationService) SendChallenge(ctx context.Context, accountID string) error {
	log := slogx.FromContext(ctx).With(slog.String("account_id", accountID))

	// 1. Resolve account.
	account, err := loadAccount(ctx, s.Store.Accounts(), accountID)
	if err != nil {
		return err
	}

	// 2. Throttle resends.
	if err := s.allow(ctx, throttle.ActionSend, account.ID); err != nil {
		return err
	}

	// 3. Generate and persist the challenge.
	now := s.now()
	code, expiresAt, err := s.Challenges.Generate(now)
	if err != nil {
		log.Error("failed to generate verification code", slog.Any("error", err))
		return ErrCodeDispatch.Wrap(err)
	}
	if err := s.Store.Accounts().SetChallenge(ctx, account.ID, code, expiresAt); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		log.Error("failed to store verification code", slog.Any("error", err))
		return ErrCodeDispatch.Wrap(err)
	}

	// 4. Dispatch. The stored challenge survives a failed delivery.
	err = s.Mail.SendVerificationCode(ctx, mail.VerificationMessage{
		To:        account.Email,
		Username:  account.Username,
		Code:      code,
		ExpiresIn: expiresAt.Sub(now),
	})
	if err != nil {
		log.Error("failed to dispatch verification code", slog.Any("error", err))
		return ErrCodeDispatch.Wrap(err)
	}

	log.Info("verification code issued", slog.Time("expires_at", expiresAt))
	return nil
}

// VerifyChallenge checks code against the outstanding challenge. A wrong
// code leaves the challenge in place; an expired one is cleared.
func (s *RegistrationService) VerifyChallenge(ctx context.Context, accountID, code string) (domain.Account, error) {
	log := slogx.FromContext(ctx).With(slog.String("account_id", accountID))

	// 1. Resolve account.
	account, err := loadAccount(ctx, s.Store.Accounts(), accountID)
	if err != nil {
		return domain.Account{}, err
	}

	// 2. Throttle guesses.
	if err := s.allow(ctx, throttle.ActionVerify, account.ID); err != nil {
		return domain.Account{}, err
	}

	// 3. Something must be outstanding.
	if !account.HasChallenge() {
		return domain.Account{}, ErrNoChallenge
	}

	// 4. Expired challenges are dropped regardless of the code.
	if account.ChallengeExpired(s.now()) {
		if err := s.Store.Accounts().ClearChallenge(ctx, account.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Error("failed to clear expired challenge", slog.Any("error", err))
			return domain.Account{}, Internal(err)
		}
		log.Info("verification code expired")
		return domain.Account{}, ErrChallengeExpired
	}

	// 5. Compare.
	if subtle.ConstantTimeCompare([]byte(*account.ChallengeCode), []byte(code)) != 1 {
		log.Warn("verification code mismatch")
		return domain.Account{}, ErrInvalidCode
	}

	// 6. Verified.
	if err := s.Store.Accounts().MarkVerified(ctx, account.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		log.Error("failed to mark account verified", slog.Any("error", err))
		return domain.Account{}, Internal(err)
	}

	log.Info("email verified")
	return s.reload(ctx, account)
}

// Login checks credentials. An unknown username and a wrong password give
// the same error. Unverified accounts are returned as-is; the caller decides
// whether to issue a session.
func (s *RegistrationService) Login(ctx context.Context, username, password string) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	username = domain.NormalizeUsername(username)
	if username == "" || password == "" {
		return domain.Account{}, ErrInvalidCredentials
	}

	account, err := s.Store.Accounts().GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("login: unknown username")
			return domain.Account{}, ErrInvalidCredentials
		}
		log.Error("login: account lookup failed", slog.Any("error", err))
		return domain.Account{}, Internal(err)
	}

	if err := s.Hasher.Verify(password, account.PasswordHash); err != nil {
		log.Warn("login: password mismatch", slog.String("account_id", account.ID))
		return domain.Account{}, ErrInvalidCredentials
	}

	return account, nil
}

// allow consults the throttle, failing open when its backend is down.
func (s *RegistrationService) allow(ctx context.Context, action throttle.Action, subject string) error {
	if s.Throttle == nil {
		return nil
	}
	err := s.Throttle.Allow(ctx, action, subject)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, throttle.ErrLimited):
		slogx.FromContext(ctx).Warn("challenge throttled",
			slog.String("action", string(action)),
			slog.String("account_id", subject),
		)
		return ErrThrottled
	default:
		slogx.FromContext(ctx).Error("challenge throttle unavailable, allowing",
			slog.String("action", string(action)),
			slog.Any("error", err),
		)
		return nil
	}
}

func (s *RegistrationService) reload(ctx context.Context, account domain.Account) (domain.Account, error) {
	fresh, err := s.Store.Accounts().GetAccountByID(ctx, account.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, Internal(err)
	}
	return fresh, nil
}

// loadAccount resolves id, treating anything that is not a ULID as absent.
func loadAccount(ctx context.Context, accounts store.Accounts, id string) (domain.Account, error) {
	if !idx.Valid(id) {
		return domain.Account{}, ErrAccountNotFound
	}
	account, err := accounts.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		slogx.FromContext(ctx).Error("account lookup failed",
			slog.String("account_id", id),
			slog.Any("error", err),
		)
		return domain.Account{}, Internal(err)
	}
	return account, nil
}

// checkAvailable reports a conflict when username or email belongs to an
// account other than self.
func checkAvailable(ctx context.Context, accounts store.Accounts, self, username, email string) error {
	if username != "" {
		existing, err := accounts.GetAccountByUsername(ctx, username)
		switch {
		case err == nil && existing.ID != self:
			return ErrUsernameTaken
		case err != nil && !errors.Is(err, store.ErrNotFound):
			return Internal(err)
		}
	}
	if email != "" {
		existing, err := accounts.GetAccountByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != self:
			return ErrEmailTaken
		case err != nil && !errors.Is(err, store.ErrNotFound):
			return Internal(err)
		}
	}
	return nil
}

// conflictFor picks the message for a uniqueness violation that slipped
// past checkAvailable.
func conflictFor(ctx context.Context, accounts store.Accounts, username string) error {
	if _, err := accounts.GetAccountByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	}
	return ErrEmailTaken
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
