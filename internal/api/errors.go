package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/learnhub/courseguard/internal/learning"
	"github.com/learnhub/courseguard/pkg/environment"
	"github.com/learnhub/courseguard/pkg/ratelimiter"
	"github.com/learnhub/courseguard/pkg/securejson"
	"github.com/learnhub/courseguard/pkg/validator"
)

// HTTPError is an error with a status code and a stable machine-readable key.
type HTTPError struct {
	Code int
	Key  string
}

func (e HTTPError) Error() string {
	return e.Key
}

var (
	ErrBadRequest            = HTTPError{Code: http.StatusBadRequest, Key: "bad_request"}
	ErrUnauthorized          = HTTPError{Code: http.StatusUnauthorized, Key: "unauthorized"}
	ErrForbidden             = HTTPError{Code: http.StatusForbidden, Key: "forbidden"}
	ErrNotFound              = HTTPError{Code: http.StatusNotFound, Key: "not_found"}
	ErrMethodNotAllowed      = HTTPError{Code: http.StatusMethodNotAllowed, Key: "method_not_allowed"}
	ErrConflict              = HTTPError{Code: http.StatusConflict, Key: "conflict"}
	ErrRequestEntityTooLarge = HTTPError{Code: http.StatusRequestEntityTooLarge, Key: "request_entity_too_large"}
	ErrUnprocessableEntity   = HTTPError{Code: http.StatusUnprocessableEntity, Key: "unprocessable_entity"}
	ErrTooManyRequests       = HTTPError{Code: http.StatusTooManyRequests, Key: "too_many_requests"}
	ErrInternalServerError   = HTTPError{Code: http.StatusInternalServerError, Key: "internal_server_error"}
	ErrServiceUnavailable    = HTTPError{Code: http.StatusServiceUnavailable, Key: "service_unavailable"}
)

// domainErrors maps service sentinels to HTTP errors. Order matters only
// for errors matching more than one sentinel.
var domainErrors = []struct {
	target error
	http   HTTPError
}{
	{learning.ErrUnknownUser, ErrUnauthorized},
	{learning.ErrForbidden, ErrForbidden},
	{learning.ErrNotFound, ErrNotFound},
	{learning.ErrNotEnrolled, HTTPError{Code: http.StatusForbidden, Key: "not_enrolled"}},
	{learning.ErrAlreadyEnrolled, HTTPError{Code: http.StatusConflict, Key: "already_enrolled"}},
	{learning.ErrCourseUnavailable, HTTPError{Code: http.StatusConflict, Key: "course_unavailable"}},
	{learning.ErrStorageDisabled, ErrServiceUnavailable},
	{securejson.ErrTooLarge, ErrRequestEntityTooLarge},
	{securejson.ErrInvalidJSON, HTTPError{Code: http.StatusBadRequest, Key: "invalid_json"}},
}

// errorResponse turns any handler error into the envelope. Messages of
// unexpected errors are only exposed outside production.
func errorResponse(r *http.Request, err error, now time.Time) Response {
	if errs := validator.ExtractValidationErrors(err); errs != nil {
		details := make(map[string][]string, len(errs))
		for _, f := range errs.Fields() {
			details[f] = errs.Get(f)
		}
		return JSONError(http.StatusUnprocessableEntity, &ErrorDetail{
			Code:    "validation_error",
			Message: "Validation failed",
			Details: details,
		})
	}

	var rejected *learning.UploadRejectedError
	if errors.As(err, &rejected) {
		return JSONError(http.StatusUnprocessableEntity, &ErrorDetail{
			Code:    "upload_rejected",
			Message: "File rejected",
			Details: map[string][]string{"file": rejected.Reasons},
		})
	}

	var limited *learning.RateLimitError
	if errors.As(err, &limited) {
		return rateLimited(limited.Result, now)
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return JSONError(httpErr.Code, &ErrorDetail{Code: httpErr.Key, Message: http.StatusText(httpErr.Code)})
	}

	for _, m := range domainErrors {
		if errors.Is(err, m.target) {
			return JSONError(m.http.Code, &ErrorDetail{Code: m.http.Key, Message: http.StatusText(m.http.Code)})
		}
	}

	detail := &ErrorDetail{Code: ErrInternalServerError.Key, Message: http.StatusText(http.StatusInternalServerError)}
	if !environment.IsProduction(r.Context()) {
		detail.Message = err.Error()
	}
	return JSONError(http.StatusInternalServerError, detail)
}

func rateLimited(res ratelimiter.Result, now time.Time) Response {
	retry := int(math.Ceil(res.RetryAfter(now).Seconds()))
	return JSONError(http.StatusTooManyRequests,
		&ErrorDetail{Code: ErrTooManyRequests.Key, Message: "Too many requests, slow down"},
		func(j *jsonResponse) { ratelimiter.SetHeaders(j.header, res) },
		WithHeader("Retry-After", strconv.Itoa(retry)),
	)
}
