// Package audit builds and records audit log entries for security-relevant
// user actions.
//
// NewEntry is pure construction: it stamps the time, the page the request
// came from and a severity derived from the action name. A Recorder adds the
// acting user, persists the entry through a Storage and mirrors it to slog at
// a level matching its severity.
//
//	rec := audit.NewRecorder(storage,
//		audit.WithUserIDExtractor(userIDFromContext),
//		audit.WithLogger(log),
//	)
//
//	ctx = audit.WithPagePath(ctx, r.URL.Path)
//	entry, err := rec.Record(ctx, "enroll", "enrollment", courseID,
//		map[string]any{"course_title": title})
//
// # Severity
//
// A fixed table classifies actions: delete_course, permission_change,
// failed_login and suspicious_activity are critical; payment, update_course
// and password_change are warnings; anything else is info.
//
// # Storage
//
//   - MemoryStorage keeps entries in process, for tests and development.
//   - EntityStorage writes to the AuditLog collection of an entity.Store.
//   - PostgresStorage writes to the audit_log table through pgx and supports
//     batch inserts.
//   - AsyncStorage buffers entries and flushes them in batches in the
//     background.
package audit
