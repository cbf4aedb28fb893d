package outreach

import (
	"context"
	"strings"

	"github.com/sells-group/outreach-cli/internal/extract"
	"github.com/sells-group/outreach-cli/internal/fallback"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/normalize"
	"github.com/sells-group/outreach-cli/internal/prompt"
	"github.com/sells-group/outreach-cli/internal/provider"
)

// LinkedInQuery asks for a people-search URL at one company.
type LinkedInQuery struct {
	Company  string `json:"company"`
	JobTitle string `json:"jobTitle,omitempty"`
	Location string `json:"location,omitempty"`
	Mode     Mode   `json:"mode,omitempty"`
}

// LinkedInURL builds a LinkedIn people-search URL. The provider is asked for
// the company's real page slug; when it cannot tell, the slugified company
// name is used.
func (s *Service) LinkedInURL(ctx context.Context, q LinkedInQuery) (*model.Envelope[model.LinkedInSearch], error) {
	if strings.TrimSpace(q.Company) == "" {
		return nil, invalidInput("company is required")
	}
	mode, err := ParseMode(string(s.mode(q.Mode)))
	if err != nil {
		return nil, err
	}
	useWeb, err := s.useWebSearch(mode)
	if err != nil {
		return nil, err
	}

	p := plan[model.LinkedInSearch]{
		kind:  model.KindLinkedIn,
		label: "linkedin lookup",
		parse: func(resp *provider.Response, src model.Source) []model.LinkedInSearch {
			slug := parseCompanySlug(resp.Text)
			if slug == "" {
				return nil
			}
			return []model.LinkedInSearch{fallback.PeopleURL(slug, q.JobTitle, q.Location, src)}
		},
		fallback: func() []model.LinkedInSearch {
			return []model.LinkedInSearch{fallback.LinkedInURL(q.Company, q.JobTitle, q.Location)}
		},
	}
	if useWeb {
		pr := prompt.LinkedInCompany(q.Company, true)
		p.web = &path{
			timeout: s.settings.Timeouts.LinkedIn,
			call: func(ctx context.Context) (*provider.Response, error) {
				return s.provider.WebSearch(ctx, provider.WebSearchRequest{System: pr.System, Prompt: pr.User})
			},
		}
	}
	pr := prompt.LinkedInCompany(q.Company, false)
	p.standard = &path{
		timeout: s.settings.Timeouts.LinkedIn,
		call: func(ctx context.Context) (*provider.Response, error) {
			return s.provider.Complete(ctx, provider.CompletionRequest{System: pr.System, Prompt: pr.User, JSONObject: true})
		},
	}

	env := run(ctx, s, p)
	record(ctx, s, model.KindLinkedIn, q, env)
	return env, nil
}

// parseCompanySlug reads the slug from a JSON answer, then from any
// linkedin.com/company/ reference in the text.
func parseCompanySlug(text string) string {
	if obj := extract.JSONObject(text); obj != nil {
		if slug := normalize.LinkedInSlug(obj); slug != "" {
			return slug
		}
	}
	return extract.LinkedInCompanySlug(text)
}
