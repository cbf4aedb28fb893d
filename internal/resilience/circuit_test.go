package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFail = errors.New("fail")

func failN(cb *CircuitBreaker, n int) {
	for i := 0; i < n; i++ {
		_ = cb.Execute(context.Background(), func(_ context.Context) error { return errFail })
	}
}

// clock is a settable time source for breakers under test.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestBreaker(threshold int, reset time.Duration) (*CircuitBreaker, *clock) {
	clk := &clock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	cb := NewCircuitBreaker("openai/web_search", CircuitBreakerConfig{FailureThreshold: threshold, ResetTimeout: reset})
	cb.now = clk.Now
	return cb, clk
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb, clk := newTestBreaker(3, time.Minute)

	failN(cb, 2)
	snap := cb.Snapshot()
	assert.Equal(t, 2, snap.Failures)
	assert.Equal(t, CircuitClosed, snap.State)
	assert.True(t, snap.RetryAt.IsZero())
	assert.True(t, cb.Allow())

	failN(cb, 1)
	assert.Equal(t, CircuitOpen, cb.State())
	assert.False(t, cb.Allow())
	assert.Equal(t, clk.Now().Add(time.Minute), cb.Snapshot().RetryAt)

	err := cb.Execute(context.Background(), func(_ context.Context) error {
		t.Error("called while open")
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Contains(t, err.Error(), "openai/web_search until 09:01:00")
}

func TestCircuitBreaker_SuccessResetsCounter(t *testing.T) {
	cb, _ := newTestBreaker(3, time.Minute)
	failN(cb, 2)
	cb.Record(nil)
	assert.Equal(t, 0, cb.Snapshot().Failures)
}

func TestCircuitBreaker_HalfOpenProbe(t *testing.T) {
	cb, clk := newTestBreaker(2, 100*time.Millisecond)

	failN(cb, 2)
	require.Equal(t, CircuitOpen, cb.State())

	clk.Advance(200 * time.Millisecond)
	assert.Equal(t, CircuitHalfOpen, cb.State())
	assert.True(t, cb.Allow())

	require.NoError(t, cb.Execute(context.Background(), func(_ context.Context) error { return nil }))
	assert.Equal(t, CircuitClosed, cb.State())
	assert.Equal(t, 0, cb.Snapshot().Failures)
}

func TestCircuitBreaker_HalfOpenNeedsAllProbes(t *testing.T) {
	clk := &clock{now: time.Now()}
	cb := NewCircuitBreaker("p", CircuitBreakerConfig{FailureThreshold: 1, ResetTimeout: time.Second, HalfOpenMaxProbes: 2})
	cb.now = clk.Now

	failN(cb, 1)
	clk.Advance(2 * time.Second)

	ok := func(_ context.Context) error { return nil }
	require.NoError(t, cb.Execute(context.Background(), ok))
	assert.Equal(t, CircuitHalfOpen, cb.State())
	require.NoError(t, cb.Execute(context.Background(), ok))
	assert.Equal(t, CircuitClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb, clk := newTestBreaker(2, 100*time.Millisecond)
	failN(cb, 2)

	clk.Advance(200 * time.Millisecond)
	failN(cb, 1)

	snap := cb.Snapshot()
	assert.Equal(t, CircuitOpen, snap.State)
	assert.Equal(t, 3, snap.Failures)
	assert.Equal(t, clk.Now().Add(100*time.Millisecond), snap.RetryAt)
}

func TestCircuitBreaker_CancelDoesNotTrip(t *testing.T) {
	cb, _ := newTestBreaker(1, time.Minute)

	cb.Record(context.Canceled)
	assert.Equal(t, CircuitClosed, cb.State())

	cb.Record(context.DeadlineExceeded)
	assert.Equal(t, CircuitOpen, cb.State())
}

func TestCircuitBreaker_OnStateChangeAndShouldTrip(t *testing.T) {
	var transitions [][2]CircuitState
	cb := NewCircuitBreaker("p", CircuitBreakerConfig{
		FailureThreshold: 2,
		ResetTimeout:     time.Minute,
		ShouldTrip:       IsTransient,
		OnStateChange: func(from, to CircuitState) {
			transitions = append(transitions, [2]CircuitState{from, to})
		},
	})

	for i := 0; i < 5; i++ {
		cb.Record(errors.New("bad request"))
	}
	assert.Equal(t, CircuitClosed, cb.State())

	for i := 0; i < 2; i++ {
		cb.Record(NewTransientError(errFail, 503))
	}
	assert.Equal(t, CircuitOpen, cb.State())
	assert.Equal(t, [][2]CircuitState{{CircuitClosed, CircuitOpen}}, transitions)

	cb.Reset()
	assert.Equal(t, CircuitClosed, cb.State())
	assert.Len(t, transitions, 2)

	cb.Reset()
	assert.Len(t, transitions, 2, "reset of a closed breaker is not a transition")
}

func TestExecuteVal(t *testing.T) {
	cb, _ := newTestBreaker(1, time.Hour)

	val, err := ExecuteVal(context.Background(), cb, func(_ context.Context) (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, val)

	failN(cb, 1)
	val, err = ExecuteVal(context.Background(), cb, func(_ context.Context) (int, error) { return 42, nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Zero(t, val)
}

func TestCircuitBreaker_ConcurrentAccess(t *testing.T) {
	cb := NewCircuitBreaker("p", CircuitBreakerConfig{FailureThreshold: 100, ResetTimeout: time.Minute})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cb.Execute(context.Background(), func(_ context.Context) error {
				if i%2 == 0 {
					return errFail
				}
				return nil
			})
			_ = cb.Snapshot()
		}()
	}
	wg.Wait()
}

func TestServiceBreakers(t *testing.T) {
	sb := NewServiceBreakers(CircuitBreakerConfig{FailureThreshold: 1, ResetTimeout: time.Hour})

	a := sb.Get("anthropic/web_search")
	assert.Same(t, a, sb.Get("anthropic/web_search"))
	assert.NotSame(t, a, sb.Get("openai/web_search"))
	assert.Equal(t, "anthropic/web_search", a.Name())

	failN(a, 1)
	states := sb.States()
	assert.Equal(t, CircuitOpen, states["anthropic/web_search"])
	assert.Equal(t, CircuitClosed, states["openai/web_search"])

	snaps := sb.Snapshots()
	require.Len(t, snaps, 2)
	assert.Equal(t, "anthropic/web_search", snaps[0].Name)
	assert.Equal(t, 1, snaps[0].Failures)
	assert.Equal(t, "openai/web_search", snaps[1].Name)
}

func TestServiceBreakers_ConcurrentGet(t *testing.T) {
	sb := NewServiceBreakers(DefaultCircuitBreakerConfig())

	got := make([]*CircuitBreaker, 50)
	var wg sync.WaitGroup
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = sb.Get("gemini/web_search")
		}()
	}
	wg.Wait()
	for _, cb := range got {
		assert.Same(t, got[0], cb)
	}
}

func TestCircuitState_String(t *testing.T) {
	assert.Equal(t, "closed", CircuitClosed.String())
	assert.Equal(t, "open", CircuitOpen.String())
	assert.Equal(t, "half-open", CircuitHalfOpen.String())
	assert.Equal(t, "unknown", CircuitState(99).String())
}
