package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/outreach-cli/internal/config"
)

// Limiter blocks until a provider call may proceed.
type Limiter interface {
	Wait(ctx context.Context) error
}

// SlidingWindow allows at most limit calls in any window-long interval. It
// remembers the timestamps of recent calls and blocks until the oldest one
// leaves the window.
type SlidingWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	calls  []time.Time

	nowFunc func() time.Time
}

// NewSlidingWindow creates a sliding-window limiter.
func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &SlidingWindow{
		limit:   limit,
		window:  window,
		calls:   make([]time.Time, 0, limit),
		nowFunc: time.Now,
	}
}

// Wait blocks until a slot is free or ctx is done.
func (s *SlidingWindow) Wait(ctx context.Context) error {
	for {
		wait, ok := s.reserve()
		if ok {
			return nil
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return eris.Wrap(ctx.Err(), "ratelimit: wait")
		case <-timer.C:
		}
	}
}

// reserve records a call if the window has room, otherwise it returns how
// long until the oldest call expires.
func (s *SlidingWindow) reserve() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	cutoff := now.Add(-s.window)
	i := 0
	for i < len(s.calls) && !s.calls[i].After(cutoff) {
		i++
	}
	s.calls = s.calls[i:]

	if len(s.calls) < s.limit {
		s.calls = append(s.calls, now)
		return 0, true
	}
	return s.calls[0].Sub(cutoff), false
}

// InFlight returns the number of calls currently inside the window.
func (s *SlidingWindow) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.nowFunc().Add(-s.window)
	n := 0
	for _, t := range s.calls {
		if t.After(cutoff) {
			n++
		}
	}
	return n
}

type noLimit struct{}

func (noLimit) Wait(context.Context) error { return nil }

// Unlimited returns a Limiter that never blocks.
func Unlimited() Limiter { return noLimit{} }

// NewLimiter builds the limiter selected by cfg.Strategy. The token bucket
// refills MaxRequests per window with the configured burst.
func NewLimiter(cfg config.RateLimitConfig) (Limiter, error) {
	window := time.Duration(cfg.WindowSecs) * time.Second
	if window <= 0 {
		window = time.Minute
	}
	switch cfg.Strategy {
	case "", config.StrategySlidingWindow:
		return NewSlidingWindow(cfg.MaxRequests, window), nil
	case config.StrategyTokenBucket:
		if cfg.MaxRequests <= 0 {
			return nil, eris.New("ratelimit: token_bucket needs max_requests > 0")
		}
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		every := window / time.Duration(cfg.MaxRequests)
		return rate.NewLimiter(rate.Every(every), burst), nil
	case config.StrategyNone:
		return Unlimited(), nil
	default:
		return nil, eris.Errorf("ratelimit: unknown strategy %q", cfg.Strategy)
	}
}
