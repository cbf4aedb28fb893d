package provider

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/config"
	"github.com/sells-group/outreach-cli/internal/cost"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/resilience"
	"github.com/sells-group/outreach-cli/pkg/jsonapi"
	"github.com/sells-group/outreach-cli/pkg/openai"
)

// OpenAI adapts the Responses API (web search) and Chat Completions.
type OpenAI struct {
	client openai.Client
	cfg    config.OpenAIConfig
}

// NewOpenAI creates an OpenAI provider.
func NewOpenAI(client openai.Client, cfg config.OpenAIConfig) *OpenAI {
	return &OpenAI{client: client, cfg: cfg}
}

func (p *OpenAI) Name() string            { return config.ProviderOpenAI }
func (p *OpenAI) SupportsWebSearch() bool { return true }

func (p *OpenAI) WebSearch(ctx context.Context, req WebSearchRequest) (*Response, error) {
	mdl := p.cfg.SearchModel
	if mdl == "" {
		mdl = p.cfg.Model
	}
	loc := req.Location
	maxTokens := pick(req.MaxTokens, p.cfg.MaxTokens)

	resp, err := p.client.CreateResponse(ctx, openai.ResponseRequest{
		Model:           mdl,
		Instructions:    req.System,
		Input:           []openai.InputItem{{Role: "user", Content: req.Prompt}},
		Tools:           []openai.Tool{openai.WebSearchTool(p.cfg.SearchContextSize, loc.Country, loc.City, loc.Region, loc.Timezone)},
		Temperature:     temperature(req.Temperature, p.cfg.Temperature),
		MaxOutputTokens: &maxTokens,
	})
	if err != nil {
		return nil, classifyHTTP(eris.Wrap(err, "openai web search"))
	}

	var cites citations
	for _, a := range resp.Annotations() {
		cites.add(a.URL, a.Title)
	}
	calls := len(resp.SearchCalls())
	return &Response{
		Text:          resp.OutputText(),
		Citations:     cites.result(),
		UsedWebSearch: calls > 0,
		Model:         resp.Model,
		Usage: cost.Usage{
			InputTokens:    int64(resp.Usage.InputTokens),
			OutputTokens:   int64(resp.Usage.OutputTokens),
			WebSearchCalls: int64(calls),
		},
	}, nil
}

func (p *OpenAI) Complete(ctx context.Context, req CompletionRequest) (*Response, error) {
	maxTokens := pick(req.MaxTokens, p.cfg.MaxTokens)
	cr := openai.ChatCompletionRequest{
		Model: p.cfg.Model,
		Messages: []openai.Message{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: temperature(req.Temperature, p.cfg.Temperature),
		MaxTokens:   &maxTokens,
	}
	if req.JSONObject {
		cr.ResponseFormat = &openai.ResponseFormat{Type: "json_object"}
	}

	resp, err := p.client.ChatCompletion(ctx, cr)
	if err != nil {
		return nil, classifyHTTP(eris.Wrap(err, "openai completion"))
	}
	return &Response{
		Text:      resp.Content(),
		Citations: []model.Citation{},
		Model:     resp.Model,
		Usage: cost.Usage{
			InputTokens:  int64(resp.Usage.PromptTokens),
			OutputTokens: int64(resp.Usage.CompletionTokens),
		},
	}, nil
}

// classifyHTTP marks retryable answers of the hand-written JSON clients as
// transient, keeping the Retry-After hint.
func classifyHTTP(err error) error {
	var se *jsonapi.StatusError
	if errors.As(err, &se) {
		return resilience.ClassifyResponse(err, se.StatusCode, se.RetryAfter)
	}
	return err
}
