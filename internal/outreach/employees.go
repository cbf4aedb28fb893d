package outreach

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/outreach-cli/internal/extract"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/normalize"
	"github.com/sells-group/outreach-cli/internal/prompt"
	"github.com/sells-group/outreach-cli/internal/provider"
)

// EmployeeQuery asks for contacts at one company.
type EmployeeQuery struct {
	Company  string `json:"company"`
	JobTitle string `json:"jobTitle"`
	Location string `json:"location,omitempty"`
	Max      int    `json:"max,omitempty"`
	Mode     Mode   `json:"mode,omitempty"`
}

func (q EmployeeQuery) validate() error {
	if strings.TrimSpace(q.Company) == "" {
		return invalidInput("company is required")
	}
	if strings.TrimSpace(q.JobTitle) == "" {
		return invalidInput("job title is required")
	}
	return nil
}

// SearchEmployees finds people to contact at q.Company. Web search is
// required to start: ErrWebSearchRequired is returned when the provider
// lacks it or the caller forces standard mode. A failed web search still
// falls back to the standard path once.
func (s *Service) SearchEmployees(ctx context.Context, q EmployeeQuery) (*model.Envelope[model.Employee], error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	mode, err := ParseMode(string(s.mode(q.Mode)))
	if err != nil {
		return nil, err
	}
	if mode == ModeStandard || !s.provider.SupportsWebSearch() {
		return nil, ErrWebSearchRequired
	}

	limit := q.Max
	if limit <= 0 || limit > s.settings.MaxEmployees {
		limit = s.settings.MaxEmployees
	}
	params := prompt.EmployeeParams{Company: q.Company, JobTitle: q.JobTitle, Location: q.Location, Max: limit}

	webPrompt := prompt.Employees(params, true)
	stdPrompt := prompt.Employees(params, false)
	p := plan[model.Employee]{
		kind:  model.KindEmployees,
		label: "employee search",
		web: &path{
			timeout: s.settings.Timeouts.WebSearch,
			call: func(ctx context.Context) (*provider.Response, error) {
				return s.provider.WebSearch(ctx, provider.WebSearchRequest{
					System:   webPrompt.System,
					Prompt:   webPrompt.User,
					Location: s.locations.Parse(q.Location),
				})
			},
		},
		standard: &path{
			timeout: s.settings.Timeouts.Standard,
			call: func(ctx context.Context) (*provider.Response, error) {
				return s.provider.Complete(ctx, provider.CompletionRequest{System: stdPrompt.System, Prompt: stdPrompt.User})
			},
		},
		parse: func(resp *provider.Response, src model.Source) []model.Employee {
			return normalize.Employees(extract.JSONArray(resp.Text), normalize.EmployeeOptions{
				Company: q.Company,
				Source:  src,
				Limit:   limit,
			})
		},
	}

	env := run(ctx, s, p)
	record(ctx, s, model.KindEmployees, q, env)
	return env, nil
}

// BatchResult is the outcome of one query of SearchEmployeesBatch.
type BatchResult struct {
	Query    EmployeeQuery                   `json:"query"`
	Envelope *model.Envelope[model.Employee] `json:"envelope,omitempty"`
	Error    string                          `json:"error,omitempty"`
}

// SearchEmployeesBatch runs SearchEmployees for every query with at most
// concurrency calls in flight. Results keep the order of queries. Per-query
// errors are reported in BatchResult.Error; ErrWebSearchRequired fails the
// whole batch before any call is made.
func (s *Service) SearchEmployeesBatch(ctx context.Context, queries []EmployeeQuery, concurrency int) ([]BatchResult, error) {
	if !s.provider.SupportsWebSearch() {
		return nil, ErrWebSearchRequired
	}
	if concurrency <= 0 {
		concurrency = s.settings.BatchConcurrency
	}

	results := make([]BatchResult, len(queries))
	var mu sync.Mutex
	done := 0

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, q := range queries {
		g.Go(func() error {
			env, err := s.SearchEmployees(gCtx, q)
			res := BatchResult{Query: q, Envelope: env}
			if err != nil {
				res.Error = err.Error()
			}
			results[i] = res

			mu.Lock()
			done++
			n := done
			mu.Unlock()
			zap.L().Debug("outreach: batch progress",
				zap.String("company", q.Company),
				zap.Int("done", n),
				zap.Int("total", len(queries)),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
