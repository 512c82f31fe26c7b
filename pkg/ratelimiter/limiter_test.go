package ratelimiter_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/courseguard/pkg/ratelimiter"
)

func newLimiter(t *testing.T) (*ratelimiter.Limiter, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	store := ratelimiter.NewMemoryStore(
		ratelimiter.WithClock(clock.Now),
		ratelimiter.WithCleanupInterval(0),
	)
	t.Cleanup(store.Close)
	return ratelimiter.New(store), clock
}

func TestLimiter_FixedWindow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	limiter, clock := newLimiter(t)

	var allowed []bool
	for range 4 {
		res, err := limiter.Check(ctx, "search", 3, time.Second)
		require.NoError(t, err)
		allowed = append(allowed, res.Allowed)
		clock.Advance(100 * time.Millisecond)
	}
	assert.Equal(t, []bool{true, true, true, false}, allowed)

	clock.Advance(time.Second)
	res, err := limiter.Check(ctx, "search", 3, time.Second)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 2, res.Remaining)
	assert.Equal(t, 3, res.Limit)
}

func TestLimiter_RemainingNeverNegative(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	limiter, _ := newLimiter(t)

	var remaining []int
	for range 5 {
		res, err := limiter.Check(ctx, "k", 2, time.Minute)
		require.NoError(t, err)
		remaining = append(remaining, res.Remaining)
	}
	assert.Equal(t, []int{1, 0, 0, 0, 0}, remaining)
}

func TestLimiter_DeniedCallsStillCount(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	limiter, clock := newLimiter(t)

	start := clock.Now()
	first, err := limiter.Check(ctx, "k", 1, time.Second)
	require.NoError(t, err)
	assert.Equal(t, start.Add(time.Second), first.ResetAt)

	// Denied attempts inside the window do not extend it.
	for range 3 {
		clock.Advance(200 * time.Millisecond)
		res, err := limiter.Check(ctx, "k", 1, time.Second)
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Equal(t, first.ResetAt, res.ResetAt)
	}
}

func TestLimiter_WindowBoundaryIsInclusive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	limiter, clock := newLimiter(t)

	_, err := limiter.Check(ctx, "k", 1, time.Second)
	require.NoError(t, err)

	clock.Advance(time.Second)
	res, err := limiter.Check(ctx, "k", 1, time.Second)
	require.NoError(t, err)
	assert.False(t, res.Allowed, "exactly at resetAt the window is still open")

	clock.Advance(time.Millisecond)
	res, err = limiter.Check(ctx, "k", 1, time.Second)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	limiter, _ := newLimiter(t)

	for range 3 {
		_, err := limiter.Check(ctx, "search", 3, time.Minute)
		require.NoError(t, err)
	}
	denied, err := limiter.Check(ctx, "search", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, denied.Allowed)

	other, err := limiter.Check(ctx, "video-progress", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, other.Allowed)
	assert.Equal(t, 2, other.Remaining)
}

func TestLimiter_InvalidInput(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	limiter, _ := newLimiter(t)

	_, err := limiter.Check(ctx, "", 1, time.Second)
	assert.ErrorIs(t, err, ratelimiter.ErrKeyRequired)

	_, err = limiter.Check(ctx, "k", 0, time.Second)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)

	_, err = limiter.Check(ctx, "k", 1, 0)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)

	_, err = limiter.Allow(ctx, ratelimiter.Policy{Name: "x"}, "u1")
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
}

func TestLimiter_CancelledContext(t *testing.T) {
	t.Parallel()

	limiter, _ := newLimiter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := limiter.Check(ctx, "k", 1, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLimiter_PolicyScoping(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	limiter, _ := newLimiter(t)
	policy := ratelimiter.Policy{Name: "upload", MaxAttempts: 1, Window: time.Minute}

	res, err := limiter.Allow(ctx, policy, "user-1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = limiter.Allow(ctx, policy, "user-1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	res, err = limiter.Allow(ctx, policy, "user-2")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	require.NoError(t, limiter.Reset(ctx, policy.Key("user-1")))
	res, err = limiter.Allow(ctx, policy, "user-1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestLimiter_Concurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	limiter, _ := newLimiter(t)

	const workers, limit = 50, 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := limiter.Check(ctx, "shared", limit, time.Minute)
			if err != nil || !res.Allowed {
				return
			}
			mu.Lock()
			granted++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, limit, granted)
}

func TestPolicies(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "search", ratelimiter.SearchPolicy.Name)
	assert.Equal(t, 30, ratelimiter.SearchPolicy.MaxAttempts)
	assert.Equal(t, time.Minute, ratelimiter.SearchPolicy.Window)

	assert.Equal(t, "video-progress", ratelimiter.VideoProgressPolicy.Name)
	assert.Equal(t, 10, ratelimiter.VideoProgressPolicy.MaxAttempts)
	assert.Equal(t, 5*time.Second, ratelimiter.VideoProgressPolicy.Window)

	assert.Equal(t, "search:u1", ratelimiter.SearchPolicy.Key("u1"))
	assert.Equal(t, "search", ratelimiter.SearchPolicy.Key(""))
}

func TestResult_RetryAfter(t *testing.T) {
	t.Parallel()

	now := time.Now()
	assert.Zero(t, ratelimiter.Result{Allowed: true, ResetAt: now.Add(time.Second)}.RetryAfter(now))
	assert.Zero(t, ratelimiter.Result{ResetAt: now.Add(-time.Second)}.RetryAfter(now))
	assert.Equal(t, 2*time.Second, ratelimiter.Result{ResetAt: now.Add(2 * time.Second)}.RetryAfter(now))
}
