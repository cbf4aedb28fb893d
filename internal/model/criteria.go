// Package model defines the records exchanged between the orchestrator, the
// API layer and persistence.
package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// SearchCriteria describes what the user is looking for. It is a pure input
// value and is never mutated after submission.
type SearchCriteria struct {
	JobTitle        string   `json:"jobTitle"`
	Location        string   `json:"location,omitempty"`
	JobType         string   `json:"jobType,omitempty"`
	Industry        string   `json:"industry,omitempty"`
	CompanySize     string   `json:"companySize,omitempty"`
	ExperienceLevel string   `json:"experienceLevel,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
	Language        string   `json:"language,omitempty"`
	ExpectedSalary  string   `json:"expectedSalary,omitempty"`
	Exclusions      []string `json:"exclusions,omitempty"`
}

// ErrMissingJobTitle is returned by Validate when no job title was given.
var ErrMissingJobTitle = eris.New("job title is required")

// Validate checks required fields.
func (c SearchCriteria) Validate() error {
	if strings.TrimSpace(c.JobTitle) == "" {
		return ErrMissingJobTitle
	}
	return nil
}

// Source tags where a record came from.
type Source string

const (
	SourceWebSearch   Source = "web_search"
	SourceAIGenerated Source = "ai_generated"
	SourceFallback    Source = "fallback"
)

// Citation is a URL the provider cited while answering.
type Citation struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}
