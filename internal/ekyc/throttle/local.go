package throttle

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type localEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

// Local throttles in process memory. It is meant for a single instance
// running without Redis; each action gets a token bucket per subject that
// holds limit tokens and refills fully over one window.
type Local struct {
	limits Limits

	// Now defaults to time.Now.
	Now func() time.Time

	mu        sync.Mutex
	entries   map[string]*localEntry
	lastSweep time.Time
}

// NewLocal creates an in-process throttle.
func NewLocal(limits Limits) *Local {
	return &Local{
		limits:  limits.withDefaults(),
		entries: make(map[string]*localEntry),
	}
}

func (l *Local) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

// Allow records one attempt of action for subject and returns ErrLimited when
// the bucket is empty. It never returns ErrUnavailable.
func (l *Local) Allow(_ context.Context, action Action, subject string) error {
	limit := l.limits.limitFor(action)
	if limit <= 0 {
		return nil
	}

	now := l.now()
	key := string(action) + ":" + subject

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	e, ok := l.entries[key]
	if !ok {
		e = &localEntry{lim: rate.NewLimiter(rate.Every(l.limits.Window/time.Duration(limit)), limit)}
		l.entries[key] = e
	}
	e.seen = now

	if !e.lim.AllowN(now, 1) {
		return ErrLimited
	}
	return nil
}

// sweep drops buckets idle for a full window; they would be full again anyway.
func (l *Local) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.limits.Window {
		return
	}
	l.lastSweep = now
	for key, e := range l.entries {
		if now.Sub(e.seen) >= l.limits.Window {
			delete(l.entries, key)
		}
	}
}
