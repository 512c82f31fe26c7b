package entity

import "context"

// Store is the backend the services persist through. Writes are visible to
// the next read.
type Store interface {
	// Create stores rec, assigning an id when it has none and stamping
	// created_date. It returns the stored copy.
	Create(ctx context.Context, coll Collection, rec Record) (Record, error)
	// Update merges patch into the record and stamps updated_date. The id and
	// created_date fields of patch are ignored.
	Update(ctx context.Context, coll Collection, id string, patch Record) (Record, error)
	Get(ctx context.Context, coll Collection, id string) (Record, error)
	// List returns up to limit records ordered by sort. limit <= 0 means no limit.
	List(ctx context.Context, coll Collection, sort string, limit int) ([]Record, error)
	// Filter is List restricted to records whose fields equal where's.
	Filter(ctx context.Context, coll Collection, where Record, sort string, limit int) ([]Record, error)
}
