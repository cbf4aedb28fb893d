package provider

import (
	"context"

	"github.com/sells-group/outreach-cli/internal/config"
	"github.com/sells-group/outreach-cli/internal/cost"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/resilience"
	"github.com/sells-group/outreach-cli/pkg/gemini"
)

// Gemini adapts generateContent with Google Search grounding. Gemini has no
// location parameter for grounding, so the location only reaches the model
// through the prompt.
type Gemini struct {
	client gemini.Client
	cfg    config.GeminiConfig
}

// NewGemini creates a Gemini provider.
func NewGemini(client gemini.Client, cfg config.GeminiConfig) *Gemini {
	return &Gemini{client: client, cfg: cfg}
}

func (p *Gemini) Name() string            { return config.ProviderGemini }
func (p *Gemini) SupportsWebSearch() bool { return true }

func (p *Gemini) WebSearch(ctx context.Context, req WebSearchRequest) (*Response, error) {
	resp, err := p.client.Generate(ctx, gemini.Request{
		Model:           p.cfg.Model,
		System:          req.System,
		Prompt:          req.Prompt,
		Temperature:     temperature(req.Temperature, p.cfg.Temperature),
		MaxOutputTokens: int32(pick(req.MaxTokens, p.cfg.MaxTokens)),
		GoogleSearch:    true,
	})
	if err != nil {
		return nil, classifyGemini(err)
	}

	var cites citations
	for _, s := range resp.Sources {
		cites.add(s.URL, s.Title)
	}
	out := p.response(resp, cites.result())
	out.UsedWebSearch = resp.Grounded()
	out.Usage.WebSearchCalls = int64(len(resp.WebSearchQueries))
	return out, nil
}

func (p *Gemini) Complete(ctx context.Context, req CompletionRequest) (*Response, error) {
	resp, err := p.client.Generate(ctx, gemini.Request{
		Model:           p.cfg.Model,
		System:          req.System,
		Prompt:          req.Prompt,
		Temperature:     temperature(req.Temperature, p.cfg.Temperature),
		MaxOutputTokens: int32(pick(req.MaxTokens, p.cfg.MaxTokens)),
	})
	if err != nil {
		return nil, classifyGemini(err)
	}
	return p.response(resp, []model.Citation{}), nil
}

func (p *Gemini) response(resp *gemini.Response, cites []model.Citation) *Response {
	return &Response{
		Text:      resp.Text,
		Citations: cites,
		Model:     resp.Model,
		Usage: cost.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CandidateTokens,
		},
	}
}

func classifyGemini(err error) error {
	return resilience.ClassifyStatus(err, gemini.StatusCode(err))
}
