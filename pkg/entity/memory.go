package entity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[Collection]map[string]Record
	now     func() time.Time
}

type MemoryOption func(*MemoryStore)

// WithMemoryClock replaces time.Now for created_date and updated_date.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		records: make(map[Collection]map[string]Record),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Create(ctx context.Context, coll Collection, rec Record) (Record, error) {
	if err := coll.check(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stored := rec.Clone()
	if stored == nil {
		stored = Record{}
	}
	if stored.ID() == "" {
		stored[FieldID] = uuid.NewString()
	}
	if _, ok := stored[FieldCreatedDate]; !ok {
		stored[FieldCreatedDate] = s.now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.records[coll]
	if !ok {
		bucket = make(map[string]Record)
		s.records[coll] = bucket
	}
	if _, exists := bucket[stored.ID()]; exists {
		return nil, fmt.Errorf("%w: duplicate id %q in %s", ErrInvalidRecord, stored.ID(), coll)
	}
	bucket[stored.ID()] = stored

	return stored.Clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, coll Collection, id string, patch Record) (Record, error) {
	if err := coll.check(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[coll][id]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, coll, id)
	}

	for k, v := range patch.Clone() {
		if k == FieldID || k == FieldCreatedDate {
			continue
		}
		rec[k] = v
	}
	rec[FieldUpdatedDate] = s.now().UTC()

	return rec.Clone(), nil
}

func (s *MemoryStore) Get(ctx context.Context, coll Collection, id string) (Record, error) {
	if err := coll.check(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[coll][id]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, coll, id)
	}
	return rec.Clone(), nil
}

func (s *MemoryStore) List(ctx context.Context, coll Collection, sort string, limit int) ([]Record, error) {
	return s.Filter(ctx, coll, nil, sort, limit)
}

func (s *MemoryStore) Filter(ctx context.Context, coll Collection, where Record, sort string, limit int) ([]Record, error) {
	if err := coll.check(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make([]Record, 0, len(s.records[coll]))
	for _, rec := range s.records[coll] {
		if rec.Matches(where) {
			out = append(out, rec.Clone())
		}
	}
	s.mu.RUnlock()

	// Ties keep id order.
	SortRecords(out, FieldID)
	SortRecords(out, sort)

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Len returns the number of records in coll.
func (s *MemoryStore) Len(coll Collection) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records[coll])
}

// Snapshot copies every record of coll, keyed by id.
func (s *MemoryStore) Snapshot(coll Collection) map[string]Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Record, len(s.records[coll]))
	for id, rec := range s.records[coll] {
		out[id] = rec.Clone()
	}
	return out
}
