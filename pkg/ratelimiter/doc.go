// Package ratelimiter implements a keyed fixed-window rate limiter with
// in-memory and Redis storage and HTTP middleware.
//
// Each key owns a window with a counter. A call arriving after the window's
// end starts a new window of the configured length; every call then counts
// as one attempt, whether or not it is allowed:
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//	limiter := ratelimiter.New(store)
//
//	res, err := limiter.Check(ctx, "search", 30, time.Minute)
//	if err != nil {
//		return err
//	}
//	if !res.Allowed {
//		// res.ResetAt tells when the window ends
//	}
//
// Call sites usually go through a Policy, which scopes the action name to a
// subject such as the user id:
//
//	res, err := limiter.Allow(ctx, ratelimiter.SearchPolicy, userID)
//
// # Storage
//
// MemoryStore guards its table with a mutex and drops expired windows in the
// background. RedisStore keeps the counter in a Redis key whose TTL is the
// window, so several instances share one quota.
//
// # HTTP Middleware
//
//	r.With(ratelimiter.Middleware(limiter, ratelimiter.UploadPolicy,
//		ratelimiter.HeaderKey("X-User-ID"))).Post("/uploads", h)
//
// The middleware sets X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset, and answers 429 with Retry-After once the quota is
// spent.
package ratelimiter
