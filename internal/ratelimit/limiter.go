package ratelimit

import (
	"time"
)

// Result describes the outcome of a single Check.
type Result struct {
	Allowed bool
	// Limit is the limit actually enforced, after clamping.
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

// Option customizes a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// Limiter implements fixed-window counting on top of a Store.
type Limiter struct {
	store Store
	now   func() time.Time
}

// NewLimiter creates a limiter over store. A nil store gets a fresh MemoryStore.
func NewLimiter(store Store, opts ...Option) *Limiter {
	if store == nil {
		store = NewMemoryStore()
	}
	l := &Limiter{store: store, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check counts one attempt for key and reports whether it fits in the current window.
// Denied attempts are not counted. Limits below 1 are treated as 1.
func (l *Limiter) Check(key string, window time.Duration, limit int) Result {
	limit = effectiveLimit(limit)
	now := l.now()

	var result Result
	l.store.Update(key, func(c *Counter) {
		elapsed := now.Sub(c.WindowStart)
		switch {
		case c.Count == 0 || elapsed > window:
			c.Count = 1
			c.WindowStart = now
			result = Result{Allowed: true, Limit: limit, Remaining: limit - 1, ResetIn: window}
		case c.Count >= limit:
			result = Result{Allowed: false, Limit: limit, Remaining: 0, ResetIn: window - elapsed}
		default:
			c.Count++
			result = Result{Allowed: true, Limit: limit, Remaining: limit - c.Count, ResetIn: window - elapsed}
		}
	})
	return result
}

func effectiveLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	return limit
}
