package model

// EmployeeRelevance ranks a suggested contact. The tiers are distinct from
// CompanyRelevance.
type EmployeeRelevance string

const (
	EmployeeHighlyRelevant   EmployeeRelevance = "Highly Relevant"
	EmployeeRelevant         EmployeeRelevance = "Relevant"
	EmployeeSomewhatRelevant EmployeeRelevance = "Somewhat Relevant"
)

// DefaultEmployeeRelevance is the middle tier.
const DefaultEmployeeRelevance = EmployeeRelevant

// Employee is a person at a target company worth contacting.
type Employee struct {
	Name        string            `json:"name"`
	Title       string            `json:"title"`
	Company     string            `json:"company,omitempty"`
	Location    string            `json:"location,omitempty"`
	Relevance   EmployeeRelevance `json:"relevance"`
	LinkedInURL string            `json:"linkedinUrl,omitempty"`
	Source      Source            `json:"source"`
}
