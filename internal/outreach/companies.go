package outreach

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/extract"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/normalize"
	"github.com/sells-group/outreach-cli/internal/prompt"
	"github.com/sells-group/outreach-cli/internal/provider"
)

// SearchCompanies suggests companies matching criteria. When both paths fail
// the envelope is empty and carries an Error.
func (s *Service) SearchCompanies(ctx context.Context, criteria model.SearchCriteria, mode Mode) (*model.Envelope[model.Company], error) {
	if err := criteria.Validate(); err != nil {
		return nil, &Error{Kind: KindInvalidInput, Message: err.Error(), Err: err}
	}
	mode = s.mode(mode)
	useWeb, err := s.useWebSearch(mode)
	if err != nil {
		return nil, err
	}

	limit := s.settings.MaxCompanies
	p := plan[model.Company]{
		kind:  model.KindCompanies,
		label: "company search",
		parse: func(resp *provider.Response, src model.Source) []model.Company {
			return normalize.Companies(extract.JSONArray(resp.Text), normalize.CompanyOptions{
				MaxDescription: s.settings.DescriptionLength,
				Exclusions:     criteria.Exclusions,
				Source:         src,
				Limit:          limit,
			})
		},
	}
	if useWeb {
		pr := prompt.Companies(criteria, limit, true)
		p.web = &path{
			timeout: s.settings.Timeouts.WebSearch,
			call: func(ctx context.Context) (*provider.Response, error) {
				return s.provider.WebSearch(ctx, provider.WebSearchRequest{
					System:   pr.System,
					Prompt:   pr.User,
					Location: s.locations.Parse(criteria.Location),
				})
			},
		}
	}
	pr := prompt.Companies(criteria, limit, false)
	p.standard = &path{
		timeout: s.settings.Timeouts.Standard,
		call: func(ctx context.Context) (*provider.Response, error) {
			return s.provider.Complete(ctx, provider.CompletionRequest{System: pr.System, Prompt: pr.User})
		},
	}

	env := run(ctx, s, p)
	record(ctx, s, model.KindCompanies, criteria, env)
	return env, nil
}

// useWebSearch resolves mode against provider support. Forcing web search
// on a provider without it is a configuration error.
func (s *Service) useWebSearch(mode Mode) (bool, error) {
	switch mode {
	case ModeStandard:
		return false, nil
	case ModeWebSearch:
		if !s.provider.SupportsWebSearch() {
			return false, configError(eris.Wrap(provider.ErrWebSearchUnsupported, s.provider.Name()),
				"provider %s does not support web search", s.provider.Name())
		}
		return true, nil
	case ModeAuto:
		return s.provider.SupportsWebSearch(), nil
	default:
		return false, invalidInput("unknown mode %q", mode)
	}
}
