package audit

import (
	"context"
	"errors"

	"github.com/learnhub/courseguard/pkg/entity"
)

// EntityStorage writes entries to the AuditLog collection.
type EntityStorage struct {
	store entity.Store
}

func NewEntityStorage(store entity.Store) *EntityStorage {
	return &EntityStorage{store: store}
}

func (s *EntityStorage) Store(ctx context.Context, e Entry) error {
	if _, err := s.store.Create(ctx, entity.AuditLog, entryToRecord(e)); err != nil {
		return errors.Join(ErrStorageNotAvailable, err)
	}
	return nil
}

func (s *EntityStorage) Recent(ctx context.Context, limit int) ([]Entry, error) {
	recs, err := s.store.List(ctx, entity.AuditLog, "-timestamp", limit)
	if err != nil {
		return nil, errors.Join(ErrStorageNotAvailable, err)
	}
	out := make([]Entry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, recordToEntry(rec))
	}
	return out, nil
}

func entryToRecord(e Entry) entity.Record {
	rec := entity.Record{
		"action":        e.Action,
		"resource_type": e.ResourceType,
		"resource_id":   e.ResourceID,
		"details":       e.Details,
		"timestamp":     e.Timestamp,
		"severity":      string(e.Severity),
	}
	if e.ID != "" {
		rec[entity.FieldID] = e.ID
	}
	if e.UserID != "" {
		rec["user_id"] = e.UserID
	}
	if e.UserEmail != "" {
		rec["user_email"] = e.UserEmail
	}
	return rec
}

func recordToEntry(rec entity.Record) Entry {
	e := Entry{
		ID:           rec.ID(),
		Action:       rec.String("action"),
		ResourceType: rec.String("resource_type"),
		ResourceID:   rec.String("resource_id"),
		Severity:     Severity(rec.String("severity")),
		UserID:       rec.String("user_id"),
		UserEmail:    rec.String("user_email"),
	}
	if details, ok := rec["details"].(map[string]any); ok {
		e.Details = details
	}
	if ts, ok := rec.Time("timestamp"); ok {
		e.Timestamp = ts
	}
	if e.Severity == "" {
		e.Severity = SeverityOf(e.Action)
	}
	return e
}
