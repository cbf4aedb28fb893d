package provider

import (
	"context"

	"github.com/sells-group/outreach-cli/internal/config"
	"github.com/sells-group/outreach-cli/internal/cost"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/resilience"
	"github.com/sells-group/outreach-cli/pkg/anthropic"
)

// Anthropic adapts the Messages API with the server-side web_search tool.
type Anthropic struct {
	client anthropic.Client
	cfg    config.AnthropicConfig
}

// NewAnthropic creates an Anthropic provider.
func NewAnthropic(client anthropic.Client, cfg config.AnthropicConfig) *Anthropic {
	return &Anthropic{client: client, cfg: cfg}
}

func (p *Anthropic) Name() string            { return config.ProviderAnthropic }
func (p *Anthropic) SupportsWebSearch() bool { return true }

func (p *Anthropic) WebSearch(ctx context.Context, req WebSearchRequest) (*Response, error) {
	ws := &anthropic.WebSearchTool{MaxUses: int64(p.cfg.WebSearchMaxUses)}
	if loc := req.Location; !loc.IsZero() {
		ws.UserLocation = &anthropic.UserLocation{
			City:     loc.City,
			Region:   loc.Region,
			Country:  loc.Country,
			Timezone: loc.Timezone,
		}
	}

	resp, err := p.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       p.cfg.Model,
		MaxTokens:   int64(pick(req.MaxTokens, p.cfg.MaxTokens)),
		System:      req.System,
		Messages:    []anthropic.Message{{Role: "user", Content: req.Prompt}},
		Temperature: temperature(req.Temperature, p.cfg.Temperature),
		WebSearch:   ws,
	})
	if err != nil {
		return nil, classifyAnthropic(err)
	}

	var cites citations
	for _, c := range resp.Citations() {
		cites.add(c.URL, c.Title)
	}
	// Without inline citations, fall back to the pages the tool returned.
	if len(cites.list) == 0 {
		for _, b := range resp.Content {
			for _, r := range b.Results {
				cites.add(r.URL, r.Title)
			}
		}
	}

	return &Response{
		Text:          resp.Text(),
		Citations:     cites.result(),
		UsedWebSearch: resp.UsedWebSearch(),
		Model:         resp.Model,
		Usage: cost.Usage{
			InputTokens:    resp.Usage.InputTokens,
			OutputTokens:   resp.Usage.OutputTokens,
			WebSearchCalls: resp.Usage.WebSearchRequests,
		},
	}, nil
}

func (p *Anthropic) Complete(ctx context.Context, req CompletionRequest) (*Response, error) {
	resp, err := p.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       p.cfg.Model,
		MaxTokens:   int64(pick(req.MaxTokens, p.cfg.MaxTokens)),
		System:      req.System,
		Messages:    []anthropic.Message{{Role: "user", Content: req.Prompt}},
		Temperature: temperature(req.Temperature, p.cfg.Temperature),
	})
	if err != nil {
		return nil, classifyAnthropic(err)
	}
	return &Response{
		Text:      resp.Text(),
		Citations: []model.Citation{},
		Model:     resp.Model,
		Usage: cost.Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
	}, nil
}

func classifyAnthropic(err error) error {
	return resilience.ClassifyStatus(err, anthropic.StatusCode(err))
}
