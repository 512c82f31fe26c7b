package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/learnhub/courseguard/pkg/audit"
	"github.com/learnhub/courseguard/pkg/logger"
	"github.com/learnhub/courseguard/pkg/nonce"
)

// UserHeader carries the authenticated user id, set by the gateway.
const UserHeader = "X-User-ID"

const maxUserIDLength = 64

type userKey struct{}
type nonceKey struct{}

// UserID returns the caller id stored by the identity middleware.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userKey{}).(string)
	return id, ok && id != ""
}

// Nonce returns the CSP nonce of the current request.
func Nonce(ctx context.Context) string {
	n, _ := ctx.Value(nonceKey{}).(string)
	return n
}

// identity copies a well-formed X-User-ID into the context. Anything else
// leaves the request anonymous.
func identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(UserHeader))
		if id != "" && len(id) <= maxUserIDLength && !strings.ContainsFunc(id, isUnsafeIDRune) {
			r = r.WithContext(context.WithValue(r.Context(), userKey{}, id))
		}
		next.ServeHTTP(w, r)
	})
}

func isUnsafeIDRune(r rune) bool {
	return r < 0x21 || r > 0x7e
}

// securityHeaders issues a fresh CSP nonce per request and sets the
// hardening headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := nonce.MustGenerate()
		h := w.Header()
		h.Set("Content-Security-Policy", fmt.Sprintf(
			"default-src 'self'; script-src 'self' 'nonce-%s'; style-src 'self' 'nonce-%s'; "+
				"img-src 'self' https: data:; media-src 'self' https:; object-src 'none'; "+
				"base-uri 'self'; frame-ancestors 'none'",
			n, n,
		))
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), nonceKey{}, n)))
	})
}

// pagePath stamps audit entries with the page the request came from: the
// Referer path when present, the request path otherwise.
func pagePath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if ref, err := url.Parse(r.Referer()); err == nil && ref.Path != "" {
			path = ref.Path
		}
		next.ServeHTTP(w, r.WithContext(audit.WithPagePath(r.Context(), path)))
	})
}

// requestLogger logs one line per request at a level matching the status.
func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				logger.Duration(time.Since(start)),
			}
			if id, ok := UserID(r.Context()); ok {
				attrs = append(attrs, logger.UserID(id))
			}
			log.LogAttrs(r.Context(), level, "http request", attrs...)
		})
	}
}
