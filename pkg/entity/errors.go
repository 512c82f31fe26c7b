package entity

import "errors"

var (
	ErrNotFound          = errors.New("entity: record not found")
	ErrUnknownCollection = errors.New("entity: unknown collection")
	ErrInvalidRecord     = errors.New("entity: invalid record")
	ErrStoreUnavailable  = errors.New("entity: store unavailable")
)
