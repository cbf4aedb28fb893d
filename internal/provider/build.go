package provider

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/config"
	"github.com/sells-group/outreach-cli/pkg/anthropic"
	"github.com/sells-group/outreach-cli/pkg/gemini"
	"github.com/sells-group/outreach-cli/pkg/openai"
	"github.com/sells-group/outreach-cli/pkg/perplexity"
)

// ErrMissingCredentials is returned by Build when the selected provider has
// no API key.
var ErrMissingCredentials = eris.New("provider: missing credentials")

// Build registers every provider that has an API key configured. The
// provider selected by cfg.Provider.Name must be among them.
func Build(ctx context.Context, cfg *config.Config) (*Registry, error) {
	reg := NewRegistry()

	if cfg.OpenAI.Key != "" {
		client := openai.NewClient(cfg.OpenAI.Key,
			openai.WithBaseURL(cfg.OpenAI.BaseURL),
			openai.WithModel(cfg.OpenAI.Model),
			openai.WithOrganization(cfg.OpenAI.Organization),
		)
		reg.Register(NewOpenAI(client, cfg.OpenAI))
	}
	if cfg.Anthropic.Key != "" {
		client := anthropic.NewClient(cfg.Anthropic.Key, anthropic.WithBaseURL(cfg.Anthropic.BaseURL))
		reg.Register(NewAnthropic(client, cfg.Anthropic))
	}
	if cfg.Perplexity.Key != "" {
		client := perplexity.NewClient(cfg.Perplexity.Key,
			perplexity.WithBaseURL(cfg.Perplexity.BaseURL),
			perplexity.WithModel(cfg.Perplexity.Model),
		)
		reg.Register(NewPerplexity(client, cfg.Perplexity))
	}
	if cfg.Gemini.Key != "" {
		client, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:  cfg.Gemini.Key,
			Model:   cfg.Gemini.Model,
			BaseURL: cfg.Gemini.BaseURL,
		})
		if err != nil {
			return nil, eris.Wrap(err, "provider: build gemini")
		}
		reg.Register(NewGemini(client, cfg.Gemini))
	}

	selected := strings.TrimSpace(cfg.Provider.Name)
	if reg.Get(selected) == nil {
		return nil, eris.Wrapf(ErrMissingCredentials, "%s.key is not set", selected)
	}

	zap.L().Debug("providers configured",
		zap.Strings("providers", reg.List()),
		zap.String("selected", selected),
	)
	return reg, nil
}
