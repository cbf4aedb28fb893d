package fallback

import (
	"net/url"
	"strings"

	"github.com/sells-group/outreach-cli/internal/location"
	"github.com/sells-group/outreach-cli/internal/model"
)

const linkedInCompanyBase = "https://www.linkedin.com/company/"

// LinkedInURL builds the people-search URL of a company page filtered by job
// title, adding facetGeoRegion when the location is a known city.
func LinkedInURL(company, jobTitle, loc string) model.LinkedInSearch {
	return PeopleURL(Slugify(company), jobTitle, loc, model.SourceFallback)
}

// PeopleURL builds the people-search URL for an already known company slug.
func PeopleURL(slug, jobTitle, loc string, source model.Source) model.LinkedInSearch {
	var b strings.Builder
	b.WriteString(linkedInCompanyBase)
	b.WriteString(slug)
	b.WriteString("/people/")
	sep := "?"
	if kw := strings.TrimSpace(jobTitle); kw != "" {
		b.WriteString("?keywords=")
		b.WriteString(EncodeURIComponent(kw))
		sep = "&"
	}

	out := model.LinkedInSearch{CompanySlug: slug, Source: source}
	if code, ok := location.RegionCode(loc); ok {
		b.WriteString(sep)
		b.WriteString("facetGeoRegion=")
		b.WriteString(EncodeURIComponent(code))
		out.GeoRegion = code
	}
	out.URL = b.String()
	return out
}

// EncodeURIComponent escapes s for a query value using %20 for spaces.
func EncodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
