package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/learnhub/courseguard/pkg/logger"
)

// Recorder builds, persists and logs audit entries.
type Recorder struct {
	storage            Storage
	log                *slog.Logger
	userIDExtractor    contextExtractor
	userEmailExtractor contextExtractor
	now                func() time.Time
}

// Option configures a Recorder.
type Option func(*Recorder)

func WithUserIDExtractor(fn func(context.Context) (string, bool)) Option {
	return func(r *Recorder) {
		r.userIDExtractor = fn
	}
}

func WithUserEmailExtractor(fn func(context.Context) (string, bool)) Option {
	return func(r *Recorder) {
		r.userEmailExtractor = fn
	}
}

// WithLogger sets the logger entries are mirrored to. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(r *Recorder) {
		if l != nil {
			r.log = l
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRecorder creates a recorder over storage.
func NewRecorder(storage Storage, opts ...Option) *Recorder {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}

	r := &Recorder{
		storage: storage,
		log:     slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record builds an entry with NewEntry semantics and persists it.
func (r *Recorder) Record(ctx context.Context, action, resourceType, resourceID string, details map[string]any) (Entry, error) {
	return r.Store(ctx, newEntryAt(ctx, r.now(), action, resourceType, resourceID, details))
}

// Store persists a prebuilt entry, filling in the id and acting user when
// they are missing.
func (r *Recorder) Store(ctx context.Context, entry Entry) (Entry, error) {
	if err := entry.Validate(); err != nil {
		return Entry{}, err
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.UserID == "" && r.userIDExtractor != nil {
		if id, ok := r.userIDExtractor(ctx); ok {
			entry.UserID = id
		}
	}
	if entry.UserEmail == "" && r.userEmailExtractor != nil {
		if email, ok := r.userEmailExtractor(ctx); ok {
			entry.UserEmail = email
		}
	}
	if actor, ok := ActorFrom(ctx); ok {
		if entry.UserID == "" {
			entry.UserID = actor.ID
		}
		if entry.UserEmail == "" {
			entry.UserEmail = actor.Email
		}
	}

	if err := r.storage.Store(ctx, entry); err != nil {
		r.log.ErrorContext(ctx, "audit entry not stored",
			logger.Component("audit"),
			slog.String("action", entry.Action),
			logger.Error(err),
		)
		return Entry{}, err
	}

	r.log.Log(ctx, entry.Severity.Level(), "audit",
		logger.Component("audit"),
		slog.String("action", entry.Action),
		slog.String("severity", string(entry.Severity)),
		slog.String("resource_type", entry.ResourceType),
		slog.String("resource_id", entry.ResourceID),
		logger.UserID(nonEmpty(entry.UserID)),
	)

	return entry, nil
}

// Recent returns the newest entries first.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]Entry, error) {
	return r.storage.Recent(ctx, limit)
}

// SecurityEvents filters the newest limit entries down to security actions.
func (r *Recorder) SecurityEvents(ctx context.Context, limit int) ([]Entry, error) {
	entries, err := r.storage.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if IsSecurityEvent(e.Action) {
			out = append(out, e)
		}
	}
	return out, nil
}

func nonEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
