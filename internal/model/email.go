package model

// FormatUnknown is the format type reported when the provider did not say
// which address pattern it used.
const FormatUnknown = "unknown"

// EmailGuess is a best guess at a person's work address.
type EmailGuess struct {
	Email             string   `json:"email"`
	Confidence        float64  `json:"confidence"`
	FormatType        string   `json:"formatType"`
	AlternativeEmails []string `json:"alternativeEmails"`
	Source            Source   `json:"source"`
}

// EmailContent is a drafted outreach email.
type EmailContent struct {
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	Language string `json:"language,omitempty"`
}

// LinkedInSearch is a LinkedIn people-search URL scoped to one company.
type LinkedInSearch struct {
	URL         string `json:"url"`
	CompanySlug string `json:"companySlug"`
	GeoRegion   string `json:"geoRegion,omitempty"`
	Source      Source `json:"source"`
}
