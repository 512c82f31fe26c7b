package securejson

import "errors"

var (
	ErrInvalidJSON = errors.New("securejson: invalid json")
	ErrTooLarge    = errors.New("securejson: payload too large")
)
