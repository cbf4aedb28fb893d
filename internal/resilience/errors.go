package resilience

import (
	"errors"
	"net"
	"slices"
	"strings"
	"syscall"
	"time"
)

// TransientError marks a provider failure that is safe to retry: a 429 or
// 5xx answer, or a network failure.
type TransientError struct {
	Err        error
	StatusCode int
	// RetryAfter is the wait the provider asked for, zero when it gave none.
	RetryAfter time.Duration
}

func (e *TransientError) Error() string { return e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

// NewTransientError wraps err as transient with an optional HTTP status code.
func NewTransientError(err error, statusCode int) *TransientError {
	return &TransientError{Err: err, StatusCode: statusCode}
}

// ClassifyStatus wraps err as transient when statusCode is retryable and
// returns it unchanged otherwise.
func ClassifyStatus(err error, statusCode int) error {
	return ClassifyResponse(err, statusCode, 0)
}

// ClassifyResponse is ClassifyStatus that also keeps the provider's
// Retry-After hint.
func ClassifyResponse(err error, statusCode int, retryAfter time.Duration) error {
	if err == nil || !IsTransientHTTPStatus(statusCode) {
		return err
	}
	return &TransientError{Err: err, StatusCode: statusCode, RetryAfter: retryAfter}
}

// RetryAfter returns the Retry-After hint carried by err, or zero.
func RetryAfter(err error) time.Duration {
	var te *TransientError
	if errors.As(err, &te) && te.RetryAfter > 0 {
		return te.RetryAfter
	}
	return 0
}

// Lowercased fragments of network errors that HTTP clients wrap as strings.
var transientPatterns = []string{
	"connection reset by peer",
	"broken pipe",
	"temporary failure in name resolution",
	"no such host",
	"tls handshake timeout",
	"i/o timeout",
	"server closed idle connection",
	"transport connection broken",
	"unexpected eof",
}

var transientErrnos = []syscall.Errno{syscall.ECONNRESET, syscall.ECONNREFUSED, syscall.ECONNABORTED}

// IsTransient reports whether err (or anything it wraps) is a
// TransientError or a recognisable network-level failure.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var te *TransientError
	if errors.As(err, &te) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var errno syscall.Errno
	if errors.As(err, &errno) && slices.Contains(transientErrnos, errno) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return slices.ContainsFunc(transientPatterns, func(p string) bool {
		return strings.Contains(msg, p)
	})
}

// IsTransientHTTPStatus reports whether an HTTP status is worth retrying.
// 529 is Anthropic's "overloaded".
func IsTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case 408, 429, 500, 502, 503, 504, 529:
		return true
	default:
		return false
	}
}
