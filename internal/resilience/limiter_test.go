package resilience

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/sells-group/outreach-cli/internal/config"
)

func TestSlidingWindow_AllowsUpToLimit(t *testing.T) {
	sw := NewSlidingWindow(3, time.Minute)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, sw.Wait(ctx))
	}
	assert.Equal(t, 3, sw.InFlight())

	ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := sw.Wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSlidingWindow_SlotFreesAfterWindow(t *testing.T) {
	now := time.Now()
	var mu sync.Mutex
	sw := NewSlidingWindow(2, time.Second)
	sw.nowFunc = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	_, ok := sw.reserve()
	require.True(t, ok)
	_, ok = sw.reserve()
	require.True(t, ok)

	wait, ok := sw.reserve()
	assert.False(t, ok)
	assert.Equal(t, time.Second, wait)

	mu.Lock()
	now = now.Add(1500 * time.Millisecond)
	mu.Unlock()

	_, ok = sw.reserve()
	assert.True(t, ok)
	assert.Equal(t, 1, sw.InFlight())
}

func TestSlidingWindow_BlocksThenProceeds(t *testing.T) {
	sw := NewSlidingWindow(1, 30*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, sw.Wait(ctx))
	start := time.Now()
	require.NoError(t, sw.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestSlidingWindow_Concurrent(t *testing.T) {
	sw := NewSlidingWindow(50, time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, sw.Wait(context.Background()))
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, sw.InFlight())
}

func TestNewLimiter(t *testing.T) {
	l, err := NewLimiter(config.RateLimitConfig{Strategy: config.StrategySlidingWindow, MaxRequests: 5, WindowSecs: 10})
	require.NoError(t, err)
	assert.IsType(t, &SlidingWindow{}, l)

	l, err = NewLimiter(config.RateLimitConfig{Strategy: config.StrategyTokenBucket, MaxRequests: 60, WindowSecs: 60, Burst: 2})
	require.NoError(t, err)
	tb, ok := l.(*rate.Limiter)
	require.True(t, ok)
	assert.Equal(t, 2, tb.Burst())
	assert.InDelta(t, 1.0, float64(tb.Limit()), 0.0001)

	l, err = NewLimiter(config.RateLimitConfig{Strategy: config.StrategyNone})
	require.NoError(t, err)
	assert.NoError(t, l.Wait(context.Background()))

	_, err = NewLimiter(config.RateLimitConfig{Strategy: config.StrategyTokenBucket})
	assert.Error(t, err)

	_, err = NewLimiter(config.RateLimitConfig{Strategy: "leaky"})
	assert.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	r := FromRetryConfig(config.RetryConfig{MaxRetries: 4, BaseDelayMs: 200, MaxDelayMs: 3000, MaxJitterMs: -1})
	assert.Equal(t, 4, r.MaxRetries)
	assert.Equal(t, 200*time.Millisecond, r.BaseDelay)
	assert.Equal(t, 3*time.Second, r.MaxDelay)
	assert.Equal(t, time.Duration(-1), r.MaxJitter)

	d := FromRetryConfig(config.RetryConfig{MaxRetries: 2})
	assert.Equal(t, DefaultRetryConfig().BaseDelay, d.BaseDelay)

	c := FromCircuitConfig(config.CircuitConfig{FailureThreshold: 2, ResetTimeoutSecs: 5})
	assert.Equal(t, 2, c.FailureThreshold)
	assert.Equal(t, 5*time.Second, c.ResetTimeout)
}
