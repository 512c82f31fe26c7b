// Package redis connects to Redis for the rate limiter's shared store.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	store := ratelimiter.NewRedisStore(client)
//
// Healthcheck wraps PING for the /healthz endpoint.
package redis
