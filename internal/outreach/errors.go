package outreach

import (
	"errors"
	"fmt"
)

// ErrorKind classifies errors returned to callers. Provider failures never
// surface as an Error; they end up in Envelope.Error or a fallback.
type ErrorKind string

const (
	KindInvalidInput      ErrorKind = "invalid_input"
	KindConfig            ErrorKind = "config"
	KindWebSearchRequired ErrorKind = "web_search_required"
)

// Error is the typed error of the caller-facing contract.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err,
// ErrWebSearchRequired) holds for every web-search-required error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// ErrWebSearchRequired is returned by employee search when the provider
// cannot search the web or the caller forces the standard path.
var ErrWebSearchRequired = &Error{
	Kind:    KindWebSearchRequired,
	Message: "employee search requires a provider with web search",
}

func invalidInput(format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func configError(err error, format string, args ...any) error {
	return &Error{Kind: KindConfig, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
