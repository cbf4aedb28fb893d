package model

// CompanyRelevance ranks a suggested company against the search criteria.
type CompanyRelevance string

const (
	CompanyPerfectMatch   CompanyRelevance = "Perfect Match"
	CompanyGoodMatch      CompanyRelevance = "Good Match"
	CompanyPotentialMatch CompanyRelevance = "Potential Match"
)

// DefaultCompanyRelevance is the middle tier, used when the provider gives
// nothing usable.
const DefaultCompanyRelevance = CompanyGoodMatch

// Company is a company suggested for the user's search.
type Company struct {
	Name               string           `json:"name"`
	Description        string           `json:"description"`
	Relevance          CompanyRelevance `json:"relevance"`
	EstimatedEmployees string           `json:"estimatedEmployees,omitempty"`
	Location           string           `json:"location,omitempty"`
	Industry           string           `json:"industry,omitempty"`
	Website            string           `json:"website,omitempty"`
	LinkedInURL        string           `json:"linkedinUrl,omitempty"`
	Source             Source           `json:"source"`
}
