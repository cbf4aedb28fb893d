package resilience

import (
	"time"

	"github.com/sells-group/outreach-cli/internal/config"
)

// FromRetryConfig converts config values to a RetryConfig. Non-positive
// delays keep the defaults; a negative jitter disables it.
func FromRetryConfig(c config.RetryConfig) RetryConfig {
	cfg := DefaultRetryConfig()
	if c.MaxRetries >= 0 {
		cfg.MaxRetries = c.MaxRetries
	}
	if c.BaseDelayMs > 0 {
		cfg.BaseDelay = time.Duration(c.BaseDelayMs) * time.Millisecond
	}
	if c.MaxDelayMs > 0 {
		cfg.MaxDelay = time.Duration(c.MaxDelayMs) * time.Millisecond
	}
	if c.MaxJitterMs > 0 {
		cfg.MaxJitter = time.Duration(c.MaxJitterMs) * time.Millisecond
	} else if c.MaxJitterMs < 0 {
		cfg.MaxJitter = -1
	}
	return cfg
}

// FromCircuitConfig converts config values to a CircuitBreakerConfig.
func FromCircuitConfig(c config.CircuitConfig) CircuitBreakerConfig {
	cfg := DefaultCircuitBreakerConfig()
	if c.FailureThreshold > 0 {
		cfg.FailureThreshold = c.FailureThreshold
	}
	if c.ResetTimeoutSecs > 0 {
		cfg.ResetTimeout = time.Duration(c.ResetTimeoutSecs) * time.Second
	}
	return cfg
}
