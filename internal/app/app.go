package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/learnhub/courseguard/internal/api"
	"github.com/learnhub/courseguard/internal/learning"
	"github.com/learnhub/courseguard/pkg/audit"
	"github.com/learnhub/courseguard/pkg/entity"
	"github.com/learnhub/courseguard/pkg/environment"
	"github.com/learnhub/courseguard/pkg/file"
	"github.com/learnhub/courseguard/pkg/httpserver"
	"github.com/learnhub/courseguard/pkg/logger"
	"github.com/learnhub/courseguard/pkg/mongo"
	"github.com/learnhub/courseguard/pkg/pg"
	"github.com/learnhub/courseguard/pkg/ratelimiter"
	"github.com/learnhub/courseguard/pkg/redis"
	"github.com/learnhub/courseguard/pkg/validator"
)

// App is the wired service: the HTTP handler plus everything it holds open.
type App struct {
	Handler http.Handler
	Checks  []httpserver.Check

	log     *slog.Logger
	closers []closer
}

type closer struct {
	name string
	fn   func(context.Context) error
}

// New connects the configured backends and builds the handler. On failure
// every backend opened so far is closed again.
func New(ctx context.Context, cfg Config, log *slog.Logger) (_ *App, err error) {
	if log == nil {
		log = slog.Default()
	}
	a := &App{log: log.With(logger.Component("app"))}
	defer func() {
		if err != nil {
			_ = a.Close(context.WithoutCancel(ctx))
		}
	}()

	store, err := a.entityStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	limiter, err := a.rateLimiter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	auditStorage, err := a.auditStorage(ctx, cfg, store)
	if err != nil {
		return nil, err
	}
	files, err := a.fileStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	uploadOpts := validator.DefaultUploadOptions()
	if cfg.UploadMaxSize > 0 {
		uploadOpts.MaxSize = cfg.UploadMaxSize
	}

	svcOpts := []learning.Option{
		learning.WithLogger(log),
		learning.WithUploadOptions(uploadOpts),
	}
	if files != nil {
		svcOpts = append(svcOpts, learning.WithFileStorage(files))
	}
	recorder := audit.NewRecorder(auditStorage, audit.WithLogger(log))
	svc := learning.NewService(store, limiter, recorder, svcOpts...)

	apiOpts := []api.Option{
		api.WithLogger(log),
		api.WithEnvironment(environment.Parse(cfg.Env)),
		api.WithHealthChecks(a.Checks...),
		api.WithMaxUploadSize(uploadOpts.MaxSize),
	}
	// Local files are served by this process when their base URL is a path
	// on this host.
	if local, ok := files.(*file.LocalStorage); ok && isSitePath(cfg.UploadBaseURL) {
		apiOpts = append(apiOpts, api.WithMedia(cfg.UploadBaseURL, local.Handler()))
	}
	a.Handler = api.New(svc, limiter, apiOpts...).Routes()

	a.log.InfoContext(ctx, "application wired",
		slog.String("store", cfg.StoreBackend),
		slog.String("audit", cfg.AuditBackend),
		slog.String("ratelimit", cfg.RateLimitBackend),
		slog.String("files", cfg.FileBackend),
	)
	return a, nil
}

// Close releases backends in reverse order of opening.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", c.name, err))
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) onClose(name string, fn func(context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

func (a *App) check(name string, fn func(context.Context) error) {
	a.Checks = append(a.Checks, httpserver.Check{Name: name, Fn: fn})
}

func (a *App) entityStore(ctx context.Context, cfg Config) (entity.Store, error) {
	switch cfg.StoreBackend {
	case BackendMemory, "":
		return entity.NewMemoryStore(), nil
	case BackendMongo:
		db, err := mongo.NewWithDatabase(ctx, cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		a.onClose("mongo", db.Client().Disconnect)
		a.check("mongo", mongo.Healthcheck(db.Client()))
		return entity.NewMongoStore(db), nil
	default:
		return nil, fmt.Errorf("%w: STORE_BACKEND=%q", ErrUnknownBackend, cfg.StoreBackend)
	}
}

func (a *App) rateLimiter(ctx context.Context, cfg Config) (*ratelimiter.Limiter, error) {
	switch cfg.RateLimitBackend {
	case BackendMemory, "":
		store := ratelimiter.NewMemoryStore()
		a.onClose("ratelimiter", func(context.Context) error {
			store.Close()
			return nil
		})
		return ratelimiter.New(store), nil
	case BackendRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.onClose("redis", func(context.Context) error { return client.Close() })
		a.check("redis", redis.Healthcheck(client))
		return ratelimiter.New(ratelimiter.NewRedisStore(client)), nil
	default:
		return nil, fmt.Errorf("%w: RATELIMIT_BACKEND=%q", ErrUnknownBackend, cfg.RateLimitBackend)
	}
}

func (a *App) auditStorage(ctx context.Context, cfg Config, store entity.Store) (audit.Storage, error) {
	var storage audit.Storage
	switch cfg.AuditBackend {
	case BackendEntity, "":
		storage = audit.NewEntityStorage(store)
	case BackendPostgres:
		pool, err := pg.Connect(ctx, cfg.PG)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.onClose("postgres", func(context.Context) error {
			pool.Close()
			return nil
		})
		a.check("postgres", pg.Healthcheck(pool))
		if err := pg.Migrate(ctx, pool, audit.Migrations, "migrations", cfg.PG, a.log); err != nil {
			return nil, err
		}
		storage = audit.NewPostgresStorage(pool)
	default:
		return nil, fmt.Errorf("%w: AUDIT_BACKEND=%q", ErrUnknownBackend, cfg.AuditBackend)
	}

	if !cfg.AuditAsync {
		return storage, nil
	}
	async := audit.NewAsyncStorage(storage, audit.AsyncOptions{
		BatchTimeout:   time.Second,
		StorageTimeout: 5 * time.Second,
	}, a.log)
	a.onClose("audit", async.Close)
	return async, nil
}

func isSitePath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//")
}

func (a *App) fileStorage(ctx context.Context, cfg Config) (file.Storage, error) {
	switch cfg.FileBackend {
	case BackendNone:
		return nil, nil
	case BackendLocal, "":
		s, err := file.NewLocalStorage(cfg.UploadDir, cfg.UploadBaseURL)
		if err != nil {
			return nil, fmt.Errorf("local storage: %w", err)
		}
		return s, nil
	case BackendS3:
		s, err := file.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("s3 storage: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: FILE_BACKEND=%q", ErrUnknownBackend, cfg.FileBackend)
	}
}
