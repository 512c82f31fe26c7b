package learning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/learnhub/courseguard/pkg/audit"
	"github.com/learnhub/courseguard/pkg/entity"
	"github.com/learnhub/courseguard/pkg/file"
	"github.com/learnhub/courseguard/pkg/logger"
	"github.com/learnhub/courseguard/pkg/ratelimiter"
	"github.com/learnhub/courseguard/pkg/validator"
)

// Service implements the learner, instructor-facing and admin operations on
// top of the entity store. Every write that matters is audited.
type Service struct {
	store      entity.Store
	limiter    *ratelimiter.Limiter
	audit      *audit.Recorder
	files      file.Storage
	uploadOpts validator.UploadOptions
	log        *slog.Logger
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithFileStorage enables uploads.
func WithFileStorage(fs file.Storage) Option {
	return func(s *Service) {
		s.files = fs
	}
}

// WithUploadOptions overrides validator.DefaultUploadOptions.
func WithUploadOptions(opts validator.UploadOptions) Option {
	return func(s *Service) {
		s.uploadOpts = opts
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService panics if a required collaborator is missing.
func NewService(store entity.Store, limiter *ratelimiter.Limiter, recorder *audit.Recorder, opts ...Option) *Service {
	if store == nil || limiter == nil || recorder == nil {
		panic("learning: store, limiter and recorder are required")
	}

	s := &Service{
		store:      store,
		limiter:    limiter,
		audit:      recorder,
		uploadOpts: validator.DefaultUploadOptions(),
		log:        slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("learning"))
	return s
}

// throttle consumes one attempt of p for subject.
func (s *Service) throttle(ctx context.Context, p ratelimiter.Policy, subject string) error {
	res, err := s.limiter.Allow(ctx, p, subject)
	if err != nil {
		return fmt.Errorf("rate limit %s: %w", p.Name, err)
	}
	if !res.Allowed {
		return &RateLimitError{Policy: p.Name, Result: res}
	}
	return nil
}

// record writes an audit entry attributed to the given user. A failed audit
// write is logged, never surfaced: the user-facing operation has already
// happened.
func (s *Service) record(ctx context.Context, user entity.Record, action, resourceType, resourceID string, details map[string]any) {
	ctx = audit.WithActor(ctx, user.ID(), user.String("email"))
	if _, err := s.audit.Record(ctx, action, resourceType, resourceID, details); err != nil {
		s.log.ErrorContext(ctx, "audit write failed",
			logger.Action(action),
			logger.Resource(resourceType, resourceID),
			logger.Error(err),
		)
	}
}

func (s *Service) get(ctx context.Context, coll entity.Collection, id string) (entity.Record, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: %s without id", ErrNotFound, coll)
	}
	rec, err := s.store.Get(ctx, coll, id)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, coll, id)
	}
	return rec, err
}

func (s *Service) user(ctx context.Context, userID string) (entity.Record, error) {
	if userID == "" {
		return nil, ErrUnknownUser
	}
	rec, err := s.store.Get(ctx, entity.User, userID)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUser, userID)
	}
	return rec, err
}

func timePtr(rec entity.Record, key string) *time.Time {
	t, ok := rec.Time(key)
	if !ok {
		return nil
	}
	return &t
}
