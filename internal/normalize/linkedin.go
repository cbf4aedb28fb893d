package normalize

import (
	"regexp"
	"strings"

	"github.com/sells-group/outreach-cli/internal/extract"
)

var linkedInAliases = Aliases{
	"companySlug": {"companySlug", "company_slug", "linkedinSlug", "linkedin_slug", "slug"},
	"linkedinUrl": {"linkedinUrl", "linkedin_url", "linkedInUrl", "companyUrl", "company_url", "url"},
}

var slugRe = regexp.MustCompile(`^[a-z0-9][a-z0-9\-_%.]*$`)

// LinkedInSlug returns the company page slug named by a provider record,
// either directly or through a linkedin.com/company/ URL. It returns "" when
// the record names neither.
func LinkedInSlug(raw map[string]any) string {
	rec := Canonicalize(raw, linkedInAliases)
	if v := str(rec["companySlug"]); v != "" {
		if slug := extract.LinkedInCompanySlug(v); slug != "" {
			return slug
		}
		if slug := strings.ToLower(strings.Trim(v, "/")); slugRe.MatchString(slug) {
			return slug
		}
	}
	return extract.LinkedInCompanySlug(str(rec["linkedinUrl"]))
}
