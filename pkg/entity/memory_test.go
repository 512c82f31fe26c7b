package entity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/courseguard/pkg/entity"
)

func newStore(t *testing.T) (*entity.MemoryStore, *time.Time) {
	t.Helper()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := entity.NewMemoryStore(entity.WithMemoryClock(func() time.Time {
		now = now.Add(time.Second)
		return now
	}))
	return store, &now
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newStore(t)

	in := entity.Record{"title": "Go 101", "tags": []any{"go"}}
	created, err := store.Create(ctx, entity.Course, in)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID())
	_, ok := created.Time(entity.FieldCreatedDate)
	assert.True(t, ok)
	assert.NotContains(t, in, entity.FieldID, "input is not mutated")

	got, err := store.Get(ctx, entity.Course, created.ID())
	require.NoError(t, err)
	assert.Equal(t, created, got)

	// Returned records are copies.
	got["tags"].([]any)[0] = "changed"
	again, err := store.Get(ctx, entity.Course, created.ID())
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, again.Strings("tags"))
}

func TestMemoryStore_CreateKeepsGivenID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newStore(t)

	rec, err := store.Create(ctx, entity.User, entity.Record{"id": "u1", "email": "a@b.io"})
	require.NoError(t, err)
	assert.Equal(t, "u1", rec.ID())

	_, err = store.Create(ctx, entity.User, entity.Record{"id": "u1"})
	assert.ErrorIs(t, err, entity.ErrInvalidRecord)
}

func TestMemoryStore_Update(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newStore(t)

	rec, err := store.Create(ctx, entity.Course, entity.Record{"title": "A", "total_students": 1})
	require.NoError(t, err)

	updated, err := store.Update(ctx, entity.Course, rec.ID(), entity.Record{
		"total_students": 2,
		"id":             "hijack",
		"created_date":   "never",
	})
	require.NoError(t, err)
	assert.Equal(t, rec.ID(), updated.ID())
	assert.Equal(t, 2, updated.Int("total_students"))
	assert.Equal(t, "A", updated.String("title"))
	assert.Equal(t, rec[entity.FieldCreatedDate], updated[entity.FieldCreatedDate])
	_, ok := updated.Time(entity.FieldUpdatedDate)
	assert.True(t, ok)

	_, err = store.Update(ctx, entity.Course, "missing", entity.Record{"x": 1})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestMemoryStore_ListAndFilter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newStore(t)

	for _, c := range []entity.Record{
		{"title": "old", "is_published": true, "price": 10},
		{"title": "draft", "is_published": false, "price": 0},
		{"title": "new", "is_published": true, "price": 5.5},
	} {
		_, err := store.Create(ctx, entity.Course, c)
		require.NoError(t, err)
	}

	all, err := store.List(ctx, entity.Course, "-created_date", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "draft", "old"}, titles(all))

	limited, err := store.List(ctx, entity.Course, "created_date", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"old", "draft"}, titles(limited))

	published, err := store.Filter(ctx, entity.Course, entity.Record{"is_published": true}, "price", 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "old"}, titles(published))

	free, err := store.Filter(ctx, entity.Course, entity.Record{"price": 0.0}, "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"draft"}, titles(free))
}

func TestMemoryStore_UnknownCollection(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newStore(t)

	_, err := store.Create(ctx, entity.Collection("Payment"), entity.Record{})
	assert.ErrorIs(t, err, entity.ErrUnknownCollection)
	_, err = store.List(ctx, entity.Collection(""), "", 0)
	assert.ErrorIs(t, err, entity.ErrUnknownCollection)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Get(ctx, entity.Course, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func titles(recs []entity.Record) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.String("title"))
	}
	return out
}
