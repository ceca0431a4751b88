package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/ekyc/internal/ekyc/domain"
	"github.com/aussiebroadwan/ekyc/internal/ekyc/throttle"
	"github.com/aussiebroadwan/ekyc/pkg/idx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	account, err := f.registration.Register(ctx, alice())
	require.NoError(t, err)
	require.True(t, idx.Valid(account.ID))
	require.Equal(t, "alice", account.Username)
	require.Equal(t, "a@x.com", account.Email)
	require.Equal(t, domain.RoleUser, account.Role)
	require.False(t, account.IsVerified)
	require.True(t, account.HasChallenge())
	require.NotEqual(t, "Abc12345!", account.PasswordHash)

	msg := f.outbox.last(t)
	require.Equal(t, "a@x.com", msg.To)
	require.Equal(t, "alice", msg.Username)
	require.Len(t, msg.Code, 6)
	require.Equal(t, *account.ChallengeCode, msg.Code)
	require.Equal(t, 10*time.Minute, msg.ExpiresIn)
	require.Equal(t, f.clock.Now().Add(10*time.Minute), *account.ChallengeExpiresAt)
}

func TestRegisterNormalizesInput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	in := alice()
	in.Username = "  alice "
	in.Email = " A@X.Com "

	account, err := f.registration.Register(ctx, in)
	require.NoError(t, err)
	require.Equal(t, "alice", account.Username)
	require.Equal(t, "a@x.com", account.Email)
}

func TestRegisterUsernameBounds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, name := range []string{"   ", "  a  ", "ab", strings.Repeat("z", 31)} {
		in := alice()
		in.Username = name

		_, err := f.registration.Register(ctx, in)
		require.ErrorIs(t, err, ErrInvalidUsername, "%q", name)
		require.Equal(t, KindValidation, kindOf(err))
	}

	all, err := f.store.Accounts().ListAccounts(ctx)
	require.NoError(t, err)
	require.Empty(t, all)

	in := alice()
	in.Username = "  " + strings.Repeat("é", 30) + "  "
	account, err := f.registration.Register(ctx, in)
	require.NoError(t, err)
	require.Equal(t, strings.Repeat("é", 30), account.Username)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	in := alice()
	in.ConfirmPassword = "Abc12345?"

	_, err := f.registration.Register(ctx, in)
	require.ErrorIs(t, err, ErrPasswordMismatch)
	require.Equal(t, KindValidation, kindOf(err))

	all, err := f.store.Accounts().ListAccounts(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
	require.Zero(t, f.outbox.count())
}

func TestRegisterConflicts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.registration.Register(ctx, alice())
	require.NoError(t, err)

	t.Run("username", func(t *testing.T) {
		in := alice()
		in.Email = "other@x.com"
		_, err := f.registration.Register(ctx, in)
		require.ErrorIs(t, err, ErrUsernameTaken)
		require.Equal(t, KindConflict, kindOf(err))
	})

	t.Run("email differing only in case", func(t *testing.T) {
		in := alice()
		in.Username = "alice2"
		in.Email = "A@X.COM"
		_, err := f.registration.Register(ctx, in)
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	all, err := f.store.Accounts().ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestRegisterDispatchFailureKeepsChallenge(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.outbox.err = errors.New("smtp: connection refused")

	account, err := f.registration.Register(ctx, alice())
	require.ErrorIs(t, err, ErrCodeDispatch)
	require.Equal(t, KindInternal, kindOf(err))
	require.NotEmpty(t, account.ID)

	stored, err := f.store.Accounts().GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	require.True(t, stored.HasChallenge(), "challenge survives a failed delivery")

	// A resend succeeds once mail recovers.
	f.outbox.err = nil
	require.NoError(t, f.registration.SendChallenge(ctx, account.ID))
	require.Equal(t, 1, f.outbox.count())
}

func TestSendChallenge(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	account, err := f.registration.Register(ctx, alice())
	require.NoError(t, err)

	t.Run("replaces the outstanding code", func(t *testing.T) {
		f.clock.Advance(time.Minute)
		require.NoError(t, f.registration.SendChallenge(ctx, account.ID))

		stored, err := f.store.Accounts().GetAccountByID(ctx, account.ID)
		require.NoError(t, err)
		require.Equal(t, f.outbox.last(t).Code, *stored.ChallengeCode)
		require.Equal(t, f.clock.Now().Add(10*time.Minute), *stored.ChallengeExpiresAt)
		require.Equal(t, 2, f.outbox.count())
	})

	t.Run("unknown account", func(t *testing.T) {
		err := f.registration.SendChallenge(ctx, idx.New().String())
		require.ErrorIs(t, err, ErrAccountNotFound)
		require.Equal(t, KindNotFound, kindOf(err))
	})

	t.Run("malformed id", func(t *testing.T) {
		err := f.registration.SendChallenge(ctx, "not-an-id")
		require.ErrorIs(t, err, ErrAccountNotFound)
	})
}

func TestVerifyChallenge(t *testing.T) {
	ctx := context.Background()

	t.Run("correct code verifies once", func(t *testing.T) {
		f := newFixture(t)
		account, err := f.registration.Register(ctx, alice())
		require.NoError(t, err)

		verified, err := f.registration.VerifyChallenge(ctx, account.ID, f.outbox.last(t).Code)
		require.NoError(t, err)
		require.True(t, verified.IsVerified)
		require.False(t, verified.HasChallenge())

		_, err = f.registration.VerifyChallenge(ctx, account.ID, f.outbox.last(t).Code)
		require.ErrorIs(t, err, ErrNoChallenge)
		require.Equal(t, KindValidation, kindOf(err))
	})

	t.Run("wrong code keeps the challenge", func(t *testing.T) {
		f := newFixture(t)
		account, err := f.registration.Register(ctx, alice())
		require.NoError(t, err)

		code := f.outbox.last(t).Code
		wrong := "000000"
		if code == wrong {
			wrong = "111111"
		}

		_, err = f.registration.VerifyChallenge(ctx, account.ID, wrong)
		require.ErrorIs(t, err, ErrInvalidCode)

		stored, err := f.store.Accounts().GetAccountByID(ctx, account.ID)
		require.NoError(t, err)
		require.False(t, stored.IsVerified)
		require.True(t, stored.HasChallenge())
		require.Equal(t, code, *stored.ChallengeCode)

		// Retry with the right code still works.
		_, err = f.registration.VerifyChallenge(ctx, account.ID, code)
		require.NoError(t, err)
	})

	t.Run("expired code is cleared", func(t *testing.T) {
		f := newFixture(t)
		account, err := f.registration.Register(ctx, alice())
		require.NoError(t, err)

		f.clock.Advance(10*time.Minute + time.Second)

		_, err = f.registration.VerifyChallenge(ctx, account.ID, f.outbox.last(t).Code)
		require.ErrorIs(t, err, ErrChallengeExpired)

		stored, err := f.store.Accounts().GetAccountByID(ctx, account.ID)
		require.NoError(t, err)
		require.False(t, stored.IsVerified)
		require.False(t, stored.HasChallenge())

		_, err = f.registration.VerifyChallenge(ctx, account.ID, f.outbox.last(t).Code)
		require.ErrorIs(t, err, ErrNoChallenge)
	})

	t.Run("exactly at expiry is still valid", func(t *testing.T) {
		f := newFixture(t)
		account, err := f.registration.Register(ctx, alice())
		require.NoError(t, err)

		f.clock.Advance(10 * time.Minute)

		_, err = f.registration.VerifyChallenge(ctx, account.ID, f.outbox.last(t).Code)
		require.NoError(t, err)
	})

	t.Run("unknown account", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.registration.VerifyChallenge(ctx, idx.New().String(), "123456")
		require.ErrorIs(t, err, ErrAccountNotFound)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	account, err := f.registration.Register(ctx, alice())
	require.NoError(t, err)

	t.Run("unverified account is returned to the caller", func(t *testing.T) {
		got, err := f.registration.Login(ctx, "alice", "Abc12345!")
		require.NoError(t, err)
		require.Equal(t, account.ID, got.ID)
		require.False(t, got.IsVerified)
	})

	t.Run("unknown user and wrong password are indistinguishable", func(t *testing.T) {
		_, errWrongPassword := f.registration.Login(ctx, "alice", "nope")
		_, errUnknownUser := f.registration.Login(ctx, "mallory", "Abc12345!")

		require.ErrorIs(t, errWrongPassword, ErrInvalidCredentials)
		require.ErrorIs(t, errUnknownUser, ErrInvalidCredentials)
		require.Equal(t, errWrongPassword.Error(), errUnknownUser.Error())
		require.Equal(t, KindUnauthorized, kindOf(errUnknownUser))
	})

	t.Run("blank credentials", func(t *testing.T) {
		_, err := f.registration.Login(ctx, "  ", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("verified account", func(t *testing.T) {
		_, err := f.registration.VerifyChallenge(ctx, account.ID, f.outbox.last(t).Code)
		require.NoError(t, err)

		got, err := f.registration.Login(ctx, " alice ", "Abc12345!")
		require.NoError(t, err)
		require.True(t, got.IsVerified)
		require.Equal(t, domain.RoleUser, got.Role)
	})
}

func TestChallengeThrottle(t *testing.T) {
	ctx := context.Background()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	f := newFixture(t)
	f.registration.Throttle = throttle.New(rdb, throttle.Limits{Send: 2, Verify: 2, Window: time.Minute}, "")

	account, err := f.registration.Register(ctx, alice())
	require.NoError(t, err)

	t.Run("sends", func(t *testing.T) {
		require.NoError(t, f.registration.SendChallenge(ctx, account.ID))

		err := f.registration.SendChallenge(ctx, account.ID)
		require.ErrorIs(t, err, ErrThrottled)
		require.Equal(t, KindTooManyRequests, kindOf(err))
		require.Equal(t, 2, f.outbox.count())
	})

	t.Run("verification attempts", func(t *testing.T) {
		for range 2 {
			_, err := f.registration.VerifyChallenge(ctx, account.ID, "abcdef")
			require.ErrorIs(t, err, ErrInvalidCode)
		}
		_, err := f.registration.VerifyChallenge(ctx, account.ID, f.outbox.last(t).Code)
		require.ErrorIs(t, err, ErrThrottled)
	})

	t.Run("window expiry lifts the limit", func(t *testing.T) {
		mr.FastForward(time.Minute + time.Second)
		_, err := f.registration.VerifyChallenge(ctx, account.ID, f.outbox.last(t).Code)
		require.NoError(t, err)
	})

	t.Run("fails open when redis is down", func(t *testing.T) {
		mr.SetError("ERR simulated outage")
		defer mr.SetError("")

		require.NoError(t, f.registration.SendChallenge(ctx, account.ID))
	})
}

func TestChallengeThrottleInProcess(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	local := throttle.NewLocal(throttle.Limits{Send: 5, Verify: 3, Window: time.Minute})
	local.Now = f.clock.Now
	f.registration.Throttle = local

	account, err := f.registration.Register(ctx, alice())
	require.NoError(t, err)
	code := f.outbox.last(t).Code

	for range 3 {
		_, err := f.registration.VerifyChallenge(ctx, account.ID, "000000")
		require.ErrorIs(t, err, ErrInvalidCode)
	}

	// The right code is refused too once guesses are used up.
	_, err = f.registration.VerifyChallenge(ctx, account.ID, code)
	require.ErrorIs(t, err, ErrThrottled)

	f.clock.Advance(time.Minute)
	verified, err := f.registration.VerifyChallenge(ctx, account.ID, code)
	require.NoError(t, err)
	require.True(t, verified.IsVerified)
}

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("disk full")
	wrapped := ErrCodeDispatch.Wrap(cause)

	require.ErrorIs(t, wrapped, ErrCodeDispatch)
	require.ErrorIs(t, wrapped, cause)
	require.NotErrorIs(t, wrapped, ErrInvalidCode)
	require.Equal(t, KindInternal, kindOf(cause))

	for kind, status := range map[Kind]int{
		KindValidation:      400,
		KindUnauthorized:    401,
		KindForbidden:       403,
		KindNotFound:        404,
		KindConflict:        409,
		KindTooManyRequests: 429,
		KindInternal:        500,
	} {
		require.Equal(t, status, kind.Status(), kind.String())
	}
}
