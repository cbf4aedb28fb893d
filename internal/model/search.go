package model

import (
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
)

// SearchKind names the orchestrator operation a SearchRecord came from.
type SearchKind string

const (
	KindCompanies    SearchKind = "companies"
	KindEmployees    SearchKind = "employees"
	KindEmailGuess   SearchKind = "email_guess"
	KindEmailContent SearchKind = "email_content"
	KindLinkedIn     SearchKind = "linkedin"
)

// SearchKinds lists every kind in display order.
var SearchKinds = []SearchKind{KindCompanies, KindEmployees, KindEmailGuess, KindEmailContent, KindLinkedIn}

// ParseSearchKind validates s.
func ParseSearchKind(s string) (SearchKind, error) {
	for _, k := range SearchKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", eris.Errorf("unknown search kind %q", s)
}

// SearchRecord is the persisted summary of one orchestrator call.
type SearchRecord struct {
	ID            string          `json:"id"`
	Kind          SearchKind      `json:"kind"`
	Criteria      json.RawMessage `json:"criteria"`
	Result        json.RawMessage `json:"result"`
	UsedWebSearch bool            `json:"usedWebSearch"`
	ResultCount   int             `json:"resultCount"`
	Error         string          `json:"error,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}
