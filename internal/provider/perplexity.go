package provider

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/config"
	"github.com/sells-group/outreach-cli/internal/cost"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/pkg/perplexity"
)

// Perplexity adapts Sonar chat completions. Sonar searches on every call
// unless search is disabled, so Complete turns it off.
type Perplexity struct {
	client perplexity.Client
	cfg    config.PerplexityConfig
}

// NewPerplexity creates a Perplexity provider.
func NewPerplexity(client perplexity.Client, cfg config.PerplexityConfig) *Perplexity {
	return &Perplexity{client: client, cfg: cfg}
}

func (p *Perplexity) Name() string            { return config.ProviderPerplexity }
func (p *Perplexity) SupportsWebSearch() bool { return true }

func (p *Perplexity) WebSearch(ctx context.Context, req WebSearchRequest) (*Response, error) {
	opts := &perplexity.WebSearchOptions{SearchContextSize: p.cfg.SearchContextSize}
	if loc := req.Location; !loc.IsZero() {
		opts.UserLocation = &perplexity.UserLocation{Country: loc.Country, City: loc.City, Region: loc.Region}
	}

	resp, err := p.chat(ctx, req.System, req.Prompt, req.MaxTokens, req.Temperature, func(r *perplexity.ChatCompletionRequest) {
		r.WebSearchOptions = opts
	})
	if err != nil {
		return nil, classifyHTTP(eris.Wrap(err, "perplexity web search"))
	}

	var cites citations
	for _, sr := range resp.SearchResults {
		cites.add(sr.URL, sr.Title)
	}
	for _, u := range resp.Citations {
		cites.add(u, "")
	}
	searched := len(cites.list) > 0

	out := p.response(resp, cites.result())
	out.UsedWebSearch = searched
	if searched {
		out.Usage.WebSearchCalls = 1
	}
	return out, nil
}

func (p *Perplexity) Complete(ctx context.Context, req CompletionRequest) (*Response, error) {
	resp, err := p.chat(ctx, req.System, req.Prompt, req.MaxTokens, req.Temperature, func(r *perplexity.ChatCompletionRequest) {
		r.DisableSearch = true
	})
	if err != nil {
		return nil, classifyHTTP(eris.Wrap(err, "perplexity completion"))
	}
	return p.response(resp, []model.Citation{}), nil
}

func (p *Perplexity) chat(ctx context.Context, system, prompt string, maxTokens int, temp *float64, mutate func(*perplexity.ChatCompletionRequest)) (*perplexity.ChatCompletionResponse, error) {
	mt := pick(maxTokens, p.cfg.MaxTokens)
	req := perplexity.ChatCompletionRequest{
		Model: p.cfg.Model,
		Messages: []perplexity.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: temperature(temp, p.cfg.Temperature),
		MaxTokens:   &mt,
	}
	mutate(&req)
	return p.client.ChatCompletion(ctx, req)
}

func (p *Perplexity) response(resp *perplexity.ChatCompletionResponse, cites []model.Citation) *Response {
	return &Response{
		Text:      resp.Content(),
		Citations: cites,
		Model:     resp.Model,
		Usage: cost.Usage{
			InputTokens:  int64(resp.Usage.PromptTokens),
			OutputTokens: int64(resp.Usage.CompletionTokens),
		},
	}
}
