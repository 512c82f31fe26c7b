package ratelimiter

import "errors"

var (
	// ErrInvalidConfig indicates a non-positive attempt count or window.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrKeyRequired indicates an empty action key.
	ErrKeyRequired = errors.New("rate limit key is required")

	// ErrStoreUnavailable indicates that the store backend could not be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
)
