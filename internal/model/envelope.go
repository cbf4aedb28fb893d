package model

import (
	"time"

	"github.com/google/uuid"
)

// State is where a request ended up in the orchestrator's fallback cascade.
type State string

const (
	StateNotStarted         State = "not_started"
	StateWebSearchAttempted State = "web_search_attempted"
	StateStandardAttempted  State = "standard_attempted"
	StateSuccess            State = "success"
	StateFallback           State = "fallback"
	StateFailed             State = "failed"
)

// Envelope is the uniform result of every search or generation call.
type Envelope[T any] struct {
	Data          []T        `json:"data"`
	Citations     []Citation `json:"citations"`
	UsedWebSearch bool       `json:"usedWebSearch"`
	RequestID     string     `json:"requestId"`
	Timestamp     time.Time  `json:"timestamp"`
	Error         string     `json:"error,omitempty"`
	State         State      `json:"state"`
	Fallback      bool       `json:"fallback,omitempty"`
	Provider      string     `json:"provider,omitempty"`
}

// NewEnvelope returns an empty envelope stamped with a fresh request id.
func NewEnvelope[T any]() *Envelope[T] {
	return &Envelope[T]{
		Data:      []T{},
		Citations: []Citation{},
		RequestID: uuid.New().String(),
		Timestamp: time.Now().UTC(),
		State:     StateNotStarted,
	}
}

// First returns the first data element, if any.
func (e *Envelope[T]) First() (T, bool) {
	var zero T
	if e == nil || len(e.Data) == 0 {
		return zero, false
	}
	return e.Data[0], true
}
