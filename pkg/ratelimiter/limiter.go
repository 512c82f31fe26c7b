package ratelimiter

import (
	"context"
	"time"
)

// Limiter is a keyed fixed-window rate limiter. Build one at startup and pass
// it to whatever needs throttling; it holds no global state.
type Limiter struct {
	store Store
}

func New(store Store) *Limiter {
	return &Limiter{store: store}
}

// Check counts one attempt for key and reports whether it fits in the quota.
// Every call consumes quota, allowed or not, so never call it speculatively.
func (l *Limiter) Check(ctx context.Context, key string, maxAttempts int, window time.Duration) (Result, error) {
	if key == "" {
		return Result{}, ErrKeyRequired
	}
	if err := validateQuota(maxAttempts, window); err != nil {
		return Result{}, err
	}

	count, resetAt, err := l.store.Hit(ctx, key, window)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Allowed:   count <= maxAttempts,
		Limit:     maxAttempts,
		Remaining: max(0, maxAttempts-count),
		ResetAt:   resetAt,
	}, nil
}

// Allow checks policy scoped to subject. See Policy.Key.
func (l *Limiter) Allow(ctx context.Context, p Policy, subject string) (Result, error) {
	if err := p.validate(); err != nil {
		return Result{}, err
	}
	return l.Check(ctx, p.Key(subject), p.MaxAttempts, p.Window)
}

func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.store.Reset(ctx, key)
}
