package ratelimiter

import (
	"context"
	"time"
)

// Store keeps one fixed-window counter per key.
type Store interface {
	// Hit counts one attempt against key. If the key's window has expired, or
	// the key is new, a fresh window of length window starts before counting.
	// It returns the attempt count inside the current window and its end.
	Hit(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)

	// Reset forgets the counter for key.
	Reset(ctx context.Context, key string) error
}
