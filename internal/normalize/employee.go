package normalize

import (
	"strings"

	"github.com/sells-group/outreach-cli/internal/extract"
	"github.com/sells-group/outreach-cli/internal/model"
)

var employeeAliases = Aliases{
	"name":        {"name", "fullName", "full_name", "employeeName", "employee_name", "person"},
	"title":       {"title", "jobTitle", "job_title", "position", "role", "currentTitle", "current_title"},
	"company":     {"company", "companyName", "company_name", "organization"},
	"location":    {"location", "city", "based_in", "basedIn"},
	"relevance":   {"relevance", "relevanceScore", "relevance_score", "relevanceLevel", "relevance_level", "score"},
	"linkedinUrl": {"linkedinUrl", "linkedin_url", "linkedInUrl", "linkedin", "profileUrl", "profile_url", "url"},
}

// EmployeeOptions tunes Employees.
type EmployeeOptions struct {
	// Company fills Employee.Company when the record does not name one.
	Company string
	Source  model.Source
	Limit   int
}

// Employees validates and normalizes raw employee records. Records without a
// name or title are dropped, as are duplicate names. Profile URLs that do not
// point at linkedin.com are cleared.
func Employees(raw []map[string]any, opts EmployeeOptions) []model.Employee {
	source := opts.Source
	if source == "" {
		source = model.SourceAIGenerated
	}

	out := make([]model.Employee, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		c := Canonicalize(r, employeeAliases)
		name := str(c["name"])
		title := str(c["title"])
		if name == "" || title == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		company := str(c["company"])
		if company == "" {
			company = opts.Company
		}
		linkedIn := str(c["linkedinUrl"])
		if !extract.IsLinkedInURL(linkedIn) {
			linkedIn = ""
		}

		out = append(out, model.Employee{
			Name:        name,
			Title:       title,
			Company:     company,
			Location:    str(c["location"]),
			Relevance:   EmployeeRelevance(c["relevance"]),
			LinkedInURL: linkedIn,
			Source:      source,
		})
		if opts.Limit > 0 && len(out) >= opts.Limit {
			break
		}
	}
	return out
}
