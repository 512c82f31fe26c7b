package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/learnhub/courseguard/internal/learning"
	"github.com/learnhub/courseguard/pkg/clientip"
	"github.com/learnhub/courseguard/pkg/environment"
	"github.com/learnhub/courseguard/pkg/httpserver"
	"github.com/learnhub/courseguard/pkg/logger"
	"github.com/learnhub/courseguard/pkg/ratelimiter"
	"github.com/learnhub/courseguard/pkg/requestid"
	"github.com/learnhub/courseguard/pkg/validator"
)

const (
	defaultMaxBodySize = 1 << 20
	multipartOverhead  = 1 << 20
	readinessTimeout   = 3 * time.Second
)

// PasswordCheckPolicy throttles the password strength endpoint per client.
var PasswordCheckPolicy = ratelimiter.Policy{Name: "password-check", MaxAttempts: 20, Window: time.Minute}

// API holds the HTTP handlers.
type API struct {
	svc       *learning.Service
	limiter   *ratelimiter.Limiter
	env       environment.Environment
	log       *slog.Logger
	checks    []httpserver.Check
	now       func() time.Time
	maxBody   int64
	maxUpload int64
	mediaPath string
	media     http.Handler
}

type Option func(*API)

func WithLogger(l *slog.Logger) Option {
	return func(a *API) {
		if l != nil {
			a.log = l
		}
	}
}

func WithEnvironment(env environment.Environment) Option {
	return func(a *API) { a.env = env }
}

// WithHealthChecks adds readiness probes served on /readyz.
func WithHealthChecks(checks ...httpserver.Check) Option {
	return func(a *API) { a.checks = append(a.checks, checks...) }
}

func WithClock(now func() time.Time) Option {
	return func(a *API) {
		if now != nil {
			a.now = now
		}
	}
}

// WithMaxUploadSize caps multipart upload bodies. It should match the
// service upload options.
func WithMaxUploadSize(n int64) Option {
	return func(a *API) {
		if n > 0 {
			a.maxUpload = n
		}
	}
}

// WithMedia serves stored files under path, e.g. "/media". It is meant for
// the local storage backend; object stores hand out their own URLs.
func WithMedia(path string, h http.Handler) Option {
	return func(a *API) {
		path = "/" + strings.Trim(path, "/")
		if h == nil || path == "/" {
			return
		}
		a.mediaPath = path
		a.media = h
	}
}

func New(svc *learning.Service, limiter *ratelimiter.Limiter, opts ...Option) *API {
	a := &API{
		svc:       svc,
		limiter:   limiter,
		env:       environment.Development,
		log:       slog.Default(),
		now:       time.Now,
		maxBody:   defaultMaxBodySize,
		maxUpload: validator.DefaultMaxUploadSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With(logger.Component("api"))
	return a
}

// Routes builds the router.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(
		requestid.Middleware,
		clientip.Middleware,
		middleware.Recoverer,
		requestLogger(a.log),
		environment.Middleware(a.env),
		securityHeaders,
		pagePath,
		identity,
	)

	r.NotFound(a.wrap(func(*http.Request) (Response, error) { return nil, ErrNotFound }))
	r.MethodNotAllowed(a.wrap(func(*http.Request) (Response, error) { return nil, ErrMethodNotAllowed }))

	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(a.log, readinessTimeout, a.checks...))

	if a.media != nil {
		r.Handle(a.mediaPath+"/*", http.StripPrefix(a.mediaPath, a.media))
	}

	r.Get("/home", a.wrap(a.home))
	r.Get("/courses", a.wrap(a.searchCourses))
	r.Get("/courses/{id}", a.wrap(a.getCourse))
	r.Post("/courses/{id}/enroll", a.wrap(a.enroll))

	r.Get("/lessons/{id}", a.wrap(a.getLesson))
	r.Post("/lessons/{id}/progress", a.wrap(a.recordProgress))
	r.Post("/lessons/{id}/complete", a.wrap(a.completeLesson))

	r.Get("/me/enrollments", a.wrap(a.myLearning))
	r.Get("/profile", a.wrap(a.getProfile))
	r.Put("/profile", a.wrap(a.updateProfile))
	r.With(limitBody(a.maxUpload+multipartOverhead)).Post("/profile/avatar", a.wrap(a.uploadAvatar))
	r.Get("/instructor/dashboard", a.wrap(a.instructorDashboard))

	r.With(limitBody(a.maxUpload+multipartOverhead)).Post("/uploads", a.wrap(a.upload))
	r.Delete("/uploads/*", a.wrap(a.deleteUpload))

	r.Post("/content/preview", a.wrap(a.previewContent))
	r.With(ratelimiter.Middleware(a.limiter, PasswordCheckPolicy, clientip.Key,
		ratelimiter.WithErrorResponder(a.rateLimitResponder),
	)).Post("/security/password-strength", a.wrap(a.passwordStrength))

	r.Route("/admin", func(r chi.Router) {
		r.Use(a.requireAdmin)
		r.Get("/users", a.wrap(a.adminUsers))
		r.Get("/audit", a.wrap(a.adminAudit))
		r.Get("/security-events", a.wrap(a.adminSecurityEvents))
		r.Get("/stats", a.wrap(a.adminStats))
	})

	return r
}

type handlerFunc func(r *http.Request) (Response, error)

// wrap renders the handler's response, or its error through errorResponse.
func (a *API) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h(r)
		if err != nil {
			a.logError(r, err)
			resp = errorResponse(r, err, a.now())
		}
		if err := resp.Render(w, r); err != nil {
			a.log.WarnContext(r.Context(), "response not written", logger.Error(err))
		}
	}
}

func (a *API) logError(r *http.Request, err error) {
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr.Code < http.StatusInternalServerError {
		return
	}
	for _, m := range domainErrors {
		if errors.Is(err, m.target) {
			return
		}
	}
	if validator.IsValidationError(err) ||
		errors.Is(err, learning.ErrRateLimited) ||
		errors.Is(err, learning.ErrUploadRejected) {
		return
	}
	a.log.ErrorContext(r.Context(), "request failed",
		slog.String("path", r.URL.Path),
		logger.Error(err),
	)
}

func (a *API) rateLimitResponder(w http.ResponseWriter, r *http.Request, result *ratelimiter.Result, err error) {
	if err != nil {
		a.logError(r, err)
		_ = errorResponse(r, err, a.now()).Render(w, r)
		return
	}
	_ = rateLimited(*result, a.now()).Render(w, r)
}

// requireAdmin rejects callers without the admin role.
func (a *API) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, _ := UserID(r.Context())
		if err := a.svc.RequireAdmin(r.Context(), uid); err != nil {
			a.logError(r, err)
			_ = errorResponse(r, err, a.now()).Render(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func limitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}
