package learning

import (
	"errors"
	"fmt"
	"strings"

	"github.com/learnhub/courseguard/pkg/ratelimiter"
)

var (
	ErrNotFound          = errors.New("learning: not found")
	ErrUnknownUser       = errors.New("learning: unknown user")
	ErrForbidden         = errors.New("learning: forbidden")
	ErrAlreadyEnrolled   = errors.New("learning: already enrolled")
	ErrNotEnrolled       = errors.New("learning: not enrolled in course")
	ErrCourseUnavailable = errors.New("learning: course is not open for enrollment")
	ErrRateLimited       = errors.New("learning: rate limit exceeded")
	ErrUploadRejected    = errors.New("learning: upload rejected")
	ErrStorageDisabled   = errors.New("learning: file storage is not configured")
)

// RateLimitError carries the limiter verdict so the transport can set
// Retry-After.
type RateLimitError struct {
	Policy string
	Result ratelimiter.Result
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: %s", ErrRateLimited, e.Policy)
}

func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// UploadRejectedError lists every reason a file was refused.
type UploadRejectedError struct {
	Reasons []string
}

func (e *UploadRejectedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUploadRejected, strings.Join(e.Reasons, "; "))
}

func (e *UploadRejectedError) Is(target error) bool {
	return target == ErrUploadRejected
}
