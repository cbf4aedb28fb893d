package normalize

import (
	"strings"

	"github.com/sells-group/outreach-cli/internal/extract"
	"github.com/sells-group/outreach-cli/internal/model"
)

// DefaultDescriptionLength bounds company descriptions for rendering.
const DefaultDescriptionLength = 120

var companyAliases = Aliases{
	"name":               {"name", "companyName", "company_name", "company"},
	"description":        {"description", "companyDescription", "company_description", "summary", "desc", "about"},
	"relevance":          {"relevance", "relevanceScore", "relevance_score", "matchLevel", "match_level", "match", "score"},
	"estimatedEmployees": {"estimatedEmployees", "estimated_employees", "employeeCount", "employee_count", "employees", "companySize", "company_size", "size"},
	"location":           {"location", "headquarters", "hq", "city"},
	"industry":           {"industry", "sector"},
	"website":            {"website", "websiteUrl", "website_url", "url", "site", "domain"},
	"linkedinUrl":        {"linkedinUrl", "linkedin_url", "linkedInUrl", "linkedin"},
}

// CompanyOptions tunes Companies.
type CompanyOptions struct {
	// MaxDescription caps description length in runes. Zero means
	// DefaultDescriptionLength.
	MaxDescription int
	// Exclusions drops companies whose name contains any entry
	// (case-insensitive).
	Exclusions []string
	Source     model.Source
	// Limit caps the number of returned records. Zero means no cap.
	Limit int
}

// Companies validates and normalizes raw company records. Records without a
// name or description are dropped, as are duplicate names.
func Companies(raw []map[string]any, opts CompanyOptions) []model.Company {
	maxDesc := opts.MaxDescription
	if maxDesc <= 0 {
		maxDesc = DefaultDescriptionLength
	}
	source := opts.Source
	if source == "" {
		source = model.SourceAIGenerated
	}

	out := make([]model.Company, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		c := Canonicalize(r, companyAliases)
		name := str(c["name"])
		desc := str(c["description"])
		if name == "" || desc == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup || excluded(key, opts.Exclusions) {
			continue
		}
		seen[key] = struct{}{}

		linkedIn := str(c["linkedinUrl"])
		if !extract.IsLinkedInURL(linkedIn) {
			linkedIn = ""
		}

		out = append(out, model.Company{
			Name:               name,
			Description:        TruncateWords(desc, maxDesc),
			Relevance:          CompanyRelevance(c["relevance"]),
			EstimatedEmployees: str(c["estimatedEmployees"]),
			Location:           str(c["location"]),
			Industry:           str(c["industry"]),
			Website:            normalizeWebsite(str(c["website"])),
			LinkedInURL:        linkedIn,
			Source:             source,
		})
		if opts.Limit > 0 && len(out) >= opts.Limit {
			break
		}
	}
	return out
}

func excluded(lowerName string, exclusions []string) bool {
	for _, ex := range exclusions {
		ex = strings.ToLower(strings.TrimSpace(ex))
		if ex != "" && strings.Contains(lowerName, ex) {
			return true
		}
	}
	return false
}
