package ratelimiter

import (
	"fmt"
	"time"
)

// Result is the verdict of a single Check.
type Result struct {
	Allowed   bool
	Limit     int       // maxAttempts for the window
	Remaining int       // never negative
	ResetAt   time.Time // when the current window ends
}

// RetryAfter returns how long to wait before the next attempt can succeed.
// Returns 0 if the attempt was allowed.
func (r Result) RetryAfter(now time.Time) time.Duration {
	if r.Allowed || !r.ResetAt.After(now) {
		return 0
	}
	return r.ResetAt.Sub(now)
}

// Policy names an action and its quota.
type Policy struct {
	Name        string
	MaxAttempts int
	Window      time.Duration
}

// Key scopes the policy to a subject such as a user id or client address.
// An empty subject yields the bare policy name.
func (p Policy) Key(subject string) string {
	if subject == "" {
		return p.Name
	}
	return p.Name + ":" + subject
}

func (p Policy) validate() error {
	return validateQuota(p.MaxAttempts, p.Window)
}

func validateQuota(maxAttempts int, window time.Duration) error {
	if maxAttempts <= 0 {
		return fmt.Errorf("%w: max attempts must be positive, got %d", ErrInvalidConfig, maxAttempts)
	}
	if window <= 0 {
		return fmt.Errorf("%w: window must be positive, got %v", ErrInvalidConfig, window)
	}
	return nil
}

// Call-site presets.
var (
	SearchPolicy        = Policy{Name: "search", MaxAttempts: 30, Window: time.Minute}
	VideoProgressPolicy = Policy{Name: "video-progress", MaxAttempts: 10, Window: 5 * time.Second}
	UploadPolicy        = Policy{Name: "upload", MaxAttempts: 10, Window: time.Minute}
)
