package audit

import (
	"context"
	"embed"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Migrations holds the goose migrations for the audit_log table.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// DB is the subset of *pgxpool.Pool PostgresStorage needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

const (
	insertEntrySQL = `INSERT INTO audit_log
		(id, action, resource_type, resource_id, details, severity, user_id, user_email, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	recentEntriesSQL = `SELECT id, action, resource_type, resource_id, details, severity, user_id, user_email, occurred_at
		FROM audit_log
		ORDER BY occurred_at DESC, id
		LIMIT $1`
)

// PostgresStorage writes entries to the audit_log table.
type PostgresStorage struct {
	db DB
}

func NewPostgresStorage(db DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func (s *PostgresStorage) Store(ctx context.Context, e Entry) error {
	if _, err := s.db.Exec(ctx, insertEntrySQL, entryArgs(e)...); err != nil {
		return errors.Join(ErrStorageNotAvailable, err)
	}
	return nil
}

// StoreBatch sends every insert in one round trip.
func (s *PostgresStorage) StoreBatch(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(insertEntrySQL, entryArgs(e)...)
	}

	if err := s.db.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Join(ErrStorageNotAvailable, err)
	}
	return nil
}

func (s *PostgresStorage) Recent(ctx context.Context, limit int) ([]Entry, error) {
	var lim *int
	if limit > 0 {
		lim = &limit
	}

	rows, err := s.db.Query(ctx, recentEntriesSQL, lim)
	if err != nil {
		return nil, errors.Join(ErrStorageNotAvailable, err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var (
			e        Entry
			severity string
		)
		err := row.Scan(
			&e.ID, &e.Action, &e.ResourceType, &e.ResourceID, &e.Details,
			&severity, &e.UserID, &e.UserEmail, &e.Timestamp,
		)
		e.Severity = Severity(severity)
		return e, err
	})
	if err != nil {
		return nil, errors.Join(ErrStorageNotAvailable, err)
	}
	return entries, nil
}

func entryArgs(e Entry) []any {
	details := e.Details
	if details == nil {
		details = map[string]any{}
	}
	return []any{
		e.ID, e.Action, e.ResourceType, e.ResourceID, details,
		string(e.Severity), e.UserID, e.UserEmail, e.Timestamp,
	}
}
