// Package entity is the generic record store the learning services read and
// write through.
//
// Records are schemaless maps grouped in named collections. Every record
// carries an "id" and a "created_date"; Update also stamps "updated_date".
// Sort keys name a field, with a leading "-" for descending order:
//
//	courses, err := store.Filter(ctx, entity.Course,
//		entity.Record{"is_published": true}, "-created_date", 100)
//
// MemoryStore keeps everything in process and is used by tests and local
// development. MongoStore persists to MongoDB, one collection per name.
package entity
