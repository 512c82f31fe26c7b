package entity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStore implements Store on a MongoDB database. Each Collection maps to
// a MongoDB collection of the same name and the record id is stored as _id.
type MongoStore struct {
	db  *mongo.Database
	now func() time.Time
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db, now: time.Now}
}

func (s *MongoStore) Create(ctx context.Context, coll Collection, rec Record) (Record, error) {
	if err := coll.check(); err != nil {
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

	if _, err := s.db.Collection(string(coll)).InsertOne(ctx, toDocument(stored)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: duplicate id %q in %s", ErrInvalidRecord, stored.ID(), coll)
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return stored, nil
}

func (s *MongoStore) Update(ctx context.Context, coll Collection, id string, patch Record) (Record, error) {
	if err := coll.check(); err != nil {
		return nil, err
	}

	set := bson.M{}
	for k, v := range patch {
		if k == FieldID || k == FieldCreatedDate {
			continue
		}
		set[k] = v
	}
	set[FieldUpdatedDate] = s.now().UTC()

	var doc bson.M
	err := s.db.Collection(string(coll)).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, s.wrapFindErr(err, coll, id)
	}
	return fromDocument(doc), nil
}

func (s *MongoStore) Get(ctx context.Context, coll Collection, id string) (Record, error) {
	if err := coll.check(); err != nil {
		return nil, err
	}

	var doc bson.M
	if err := s.db.Collection(string(coll)).FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, s.wrapFindErr(err, coll, id)
	}
	return fromDocument(doc), nil
}

func (s *MongoStore) List(ctx context.Context, coll Collection, sort string, limit int) ([]Record, error) {
	return s.Filter(ctx, coll, nil, sort, limit)
}

func (s *MongoStore) Filter(ctx context.Context, coll Collection, where Record, sort string, limit int) ([]Record, error) {
	if err := coll.check(); err != nil {
		return nil, err
	}

	filter := bson.M{}
	for k, v := range where {
		if k == FieldID {
			k = "_id"
		}
		filter[k] = v
	}

	opts := options.Find()
	if field, desc := ParseSort(sort); field != "" {
		if field == FieldID {
			field = "_id"
		}
		dir := 1
		if desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: field, Value: dir}, {Key: "_id", Value: 1}})
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.db.Collection(string(coll)).Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	out := make([]Record, 0, len(docs))
	for _, doc := range docs {
		out = append(out, fromDocument(doc))
	}
	return out, nil
}

func (s *MongoStore) wrapFindErr(err error, coll Collection, id string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, coll, id)
	}
	return errors.Join(ErrStoreUnavailable, err)
}

func toDocument(rec Record) bson.M {
	doc := make(bson.M, len(rec))
	for k, v := range rec {
		if k == FieldID {
			k = "_id"
		}
		doc[k] = v
	}
	return doc
}

func fromDocument(doc bson.M) Record {
	rec := make(Record, len(doc))
	for k, v := range doc {
		if k == "_id" {
			k = FieldID
		}
		rec[k] = fromBSONValue(v)
	}
	return rec
}

// fromBSONValue turns driver types back into plain Go values so records read
// from MongoDB look the same as records from MemoryStore.
func fromBSONValue(v any) any {
	switch val := v.(type) {
	case bson.M:
		return map[string]any(fromDocument(val))
	case bson.D:
		m := make(map[string]any, len(val))
		for _, e := range val {
			m[e.Key] = fromBSONValue(e.Value)
		}
		return m
	case bson.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = fromBSONValue(item)
		}
		return out
	case bson.DateTime:
		return val.Time().UTC()
	case int32:
		return int64(val)
	default:
		return v
	}
}
