// Package resilience provides retry, circuit breaking and rate limiting for
// provider calls.
package resilience

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// CircuitState is the state of a circuit breaker.
type CircuitState int

const (
	// CircuitClosed lets calls through.
	CircuitClosed CircuitState = iota
	// CircuitOpen rejects calls until the reset timeout has passed.
	CircuitOpen
	// CircuitHalfOpen lets probe calls through to test recovery.
	CircuitHalfOpen
)

var stateNames = map[CircuitState]string{
	CircuitClosed:   "closed",
	CircuitOpen:     "open",
	CircuitHalfOpen: "half-open",
}

func (s CircuitState) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// ErrCircuitOpen is returned when a call is rejected by an open breaker.
var ErrCircuitOpen = eris.New("circuit breaker is open")

// CircuitBreakerConfig controls breaker behavior.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the
	// circuit. Default: 5.
	FailureThreshold int

	// ResetTimeout is how long the circuit stays open. Default: 30s.
	ResetTimeout time.Duration

	// HalfOpenMaxProbes is the number of successful probes needed to close
	// the circuit again. Default: 1.
	HalfOpenMaxProbes int

	// ShouldTrip decides which errors count as failures. Default: every
	// error except a cancelled caller context.
	ShouldTrip func(err error) bool

	// OnStateChange is called on every transition, with the lock held.
	OnStateChange func(from, to CircuitState)
}

// DefaultCircuitBreakerConfig returns the defaults used for provider
// web-search paths.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold:  5,
		ResetTimeout:      30 * time.Second,
		HalfOpenMaxProbes: 1,
		ShouldTrip:        tripsOn,
	}
}

// tripsOn counts any error as a provider failure except a cancellation by
// the caller, such as an HTTP client hanging up mid-search.
func tripsOn(err error) bool {
	return err != nil && !errors.Is(err, context.Canceled)
}

func (c CircuitBreakerConfig) withDefaults() CircuitBreakerConfig {
	def := DefaultCircuitBreakerConfig()
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = def.FailureThreshold
	}
	if c.ResetTimeout <= 0 {
		c.ResetTimeout = def.ResetTimeout
	}
	if c.HalfOpenMaxProbes <= 0 {
		c.HalfOpenMaxProbes = def.HalfOpenMaxProbes
	}
	if c.ShouldTrip == nil {
		c.ShouldTrip = def.ShouldTrip
	}
	return c
}

// BreakerSnapshot is a point-in-time view of one breaker.
type BreakerSnapshot struct {
	Name     string       `json:"name"`
	State    CircuitState `json:"-"`
	Failures int          `json:"failures"`
	// RetryAt is when an open breaker admits its next probe.
	RetryAt  time.Time    `json:"retryAt,omitzero"`
}

// CircuitBreaker guards one provider call path, e.g. "openai/web_search".
type CircuitBreaker struct {
	name string
	cfg  CircuitBreakerConfig
	now  func() time.Time

	mu        sync.Mutex
	state     CircuitState
	failures  int
	probesOK  int
	openUntil time.Time
}

// NewCircuitBreaker creates a breaker named name.
func NewCircuitBreaker(name string, cfg CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{name: name, cfg: cfg.withDefaults(), now: time.Now}
}

// Name returns the breaker's name.
func (cb *CircuitBreaker) Name() string { return cb.name }

// Execute runs fn unless the circuit is open.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := ExecuteVal(ctx, cb, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// ExecuteVal is Execute for functions that return a value.
func ExecuteVal[T any](ctx context.Context, cb *CircuitBreaker, fn func(ctx context.Context) (T, error)) (T, error) {
	if err := cb.admit(); err != nil {
		var zero T
		return zero, err
	}
	val, err := fn(ctx)
	cb.Record(err)
	return val, err
}

// Allow reports whether a call would currently be let through, without
// consuming a half-open probe.
func (cb *CircuitBreaker) Allow() bool {
	return cb.State() != CircuitOpen
}

// State returns the current state. An open circuit whose timeout has passed
// reports half-open.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.current()
}

// Snapshot returns the breaker's state and consecutive failure count.
func (cb *CircuitBreaker) Snapshot() BreakerSnapshot {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	snap := BreakerSnapshot{Name: cb.name, State: cb.current(), Failures: cb.failures}
	if snap.State == CircuitOpen {
		snap.RetryAt = cb.openUntil
	}
	return snap
}

// Reset forces the circuit closed.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures, cb.probesOK = 0, 0
	cb.setState(CircuitClosed)
}

// Record feeds the outcome of a call made outside Execute into the breaker.
// A nil error counts as a success.
func (cb *CircuitBreaker) Record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil && cb.cfg.ShouldTrip(err) {
		cb.failures++
		if cb.state == CircuitHalfOpen || cb.failures >= cb.cfg.FailureThreshold {
			cb.trip()
		}
		return
	}

	switch cb.state {
	case CircuitClosed:
		cb.failures = 0
	case CircuitHalfOpen:
		cb.probesOK++
		if cb.probesOK >= cb.cfg.HalfOpenMaxProbes {
			cb.failures, cb.probesOK = 0, 0
			cb.setState(CircuitClosed)
		}
	}
}

// current must be called with mu held.
func (cb *CircuitBreaker) current() CircuitState {
	if cb.state == CircuitOpen && !cb.now().Before(cb.openUntil) {
		return CircuitHalfOpen
	}
	return cb.state
}

func (cb *CircuitBreaker) admit() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.current() {
	case CircuitOpen:
		return eris.Wrapf(ErrCircuitOpen, "%s until %s", cb.name, cb.openUntil.Format(time.TimeOnly))
	case CircuitHalfOpen:
		cb.setState(CircuitHalfOpen)
	}
	return nil
}

// trip must be called with mu held.
func (cb *CircuitBreaker) trip() {
	cb.probesOK = 0
	cb.openUntil = cb.now().Add(cb.cfg.ResetTimeout)
	cb.setState(CircuitOpen)
}

// setState must be called with mu held.
func (cb *CircuitBreaker) setState(to CircuitState) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	zap.L().Info("circuit breaker state change",
		zap.String("breaker", cb.name),
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Int("failures", cb.failures),
	)
	if cb.cfg.OnStateChange != nil {
		cb.cfg.OnStateChange(from, to)
	}
}

// ServiceBreakers holds one breaker per provider path, created on demand.
type ServiceBreakers struct {
	cfg      CircuitBreakerConfig
	breakers sync.Map // name -> *CircuitBreaker
}

// NewServiceBreakers creates an empty breaker set sharing cfg.
func NewServiceBreakers(cfg CircuitBreakerConfig) *ServiceBreakers {
	return &ServiceBreakers{cfg: cfg}
}

// Get returns the breaker for name, creating it if needed.
func (sb *ServiceBreakers) Get(name string) *CircuitBreaker {
	if cb, ok := sb.breakers.Load(name); ok {
		return cb.(*CircuitBreaker)
	}
	cb, _ := sb.breakers.LoadOrStore(name, NewCircuitBreaker(name, sb.cfg))
	return cb.(*CircuitBreaker)
}

// States returns every breaker's current state by name.
func (sb *ServiceBreakers) States() map[string]CircuitState {
	states := make(map[string]CircuitState)
	sb.breakers.Range(func(k, v any) bool {
		states[k.(string)] = v.(*CircuitBreaker).State()
		return true
	})
	return states
}

// Snapshots returns a snapshot of every breaker, sorted by name.
func (sb *ServiceBreakers) Snapshots() []BreakerSnapshot {
	var out []BreakerSnapshot
	sb.breakers.Range(func(_, v any) bool {
		out = append(out, v.(*CircuitBreaker).Snapshot())
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
