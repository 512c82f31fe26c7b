package audit

import "context"

// Storage persists entries.
type Storage interface {
	Store(ctx context.Context, entry Entry) error
	// Recent returns up to limit entries, newest first. limit <= 0 means all.
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// BatchStorage is a Storage that can write many entries in one round trip.
// AsyncStorage uses it when available.
type BatchStorage interface {
	Storage
	StoreBatch(ctx context.Context, entries []Entry) error
}
