package audit

import "errors"

var (
	// ErrInvalidEntry indicates a missing action.
	ErrInvalidEntry = errors.New("invalid audit entry")

	// ErrStorageNotAvailable indicates the storage backend is unavailable.
	ErrStorageNotAvailable = errors.New("audit storage is unavailable")

	// ErrBufferFull indicates the async buffer is full.
	ErrBufferFull = errors.New("audit buffer is full")
)
