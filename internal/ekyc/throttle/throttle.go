// Package throttle limits how often a verification code may be requested or
// tried for a single account. Limiter keeps fixed windows in Redis, shared by
// every instance of the service; Local keeps them in process memory.
package throttle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrLimited means the caller has used up the current window.
	ErrLimited = errors.New("throttle: limit reached")

	// ErrUnavailable wraps Redis failures so callers can choose to fail open.
	ErrUnavailable = errors.New("throttle: backend unavailable")
)

// Action names a throttled operation. It is part of the Redis key.
type Action string

const (
	ActionSend   Action = "send"
	ActionVerify Action = "verify"
)

// DefaultWindow is used when Limits.Window is unset.
const DefaultWindow = 10 * time.Minute

// Limits configures one window per action. A non-positive limit disables
// throttling for that action.
type Limits struct {
	Send   int
	Verify int
	Window time.Duration
}

func (l Limits) limitFor(action Action) int {
	switch action {
	case ActionSend:
		return l.Send
	case ActionVerify:
		return l.Verify
	default:
		return 0
	}
}

func (l Limits) withDefaults() Limits {
	if l.Window <= 0 {
		l.Window = DefaultWindow
	}
	return l
}

// Limiter is a Redis fixed-window counter keyed by action and subject.
type Limiter struct {
	rdb    redis.UniversalClient
	limits Limits
	prefix string
}

// New creates a Limiter. prefix namespaces keys (default "ekyc:otp").
func New(rdb redis.UniversalClient, limits Limits, prefix string) *Limiter {
	limits = limits.withDefaults()
	if prefix == "" {
		prefix = "ekyc:otp"
	}
	return &Limiter{rdb: rdb, limits: limits, prefix: prefix}
}

func (l *Limiter) key(action Action, subject string) string {
	return l.prefix + ":" + string(action) + ":" + subject
}

func (l *Limiter) limitFor(action Action) int {
	return l.limits.limitFor(action)
}

// hit increments the window counter and gives it a TTL in one step. A key
// left without a TTL, for whatever reason, gets one on the next hit.
var hit = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// Allow records one attempt of action for subject. It returns ErrLimited once
// the window's count exceeds the limit, and an ErrUnavailable-wrapped error
// when Redis can't be reached.
func (l *Limiter) Allow(ctx context.Context, action Action, subject string) error {
	limit := l.limitFor(action)
	if limit <= 0 {
		return nil
	}

	count, err := hit.Run(ctx, l.rdb, []string{l.key(action, subject)}, l.limits.Window.Milliseconds()).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if count > int64(limit) {
		return ErrLimited
	}
	return nil
}

// Ping checks the Redis connection. Used by the readiness probe.
func (l *Limiter) Ping(ctx context.Context) error {
	return l.rdb.Ping(ctx).Err()
}
