package cost

import (
	"sort"
	"strings"

	"github.com/sells-group/outreach-cli/internal/config"
)

// ModelRate holds per-model token pricing (USD per million tokens).
type ModelRate struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// ProviderRates holds one provider's model rates and its flat web-search fee.
type ProviderRates struct {
	Models       map[string]ModelRate `yaml:"models" mapstructure:"models"`
	WebSearchFee float64              `yaml:"web_search_fee" mapstructure:"web_search_fee"`
}

// Rates holds pricing keyed by provider name.
type Rates map[string]ProviderRates

// Usage is the billable part of one provider call.
type Usage struct {
	InputTokens    int64 `json:"inputTokens"`
	OutputTokens   int64 `json:"outputTokens"`
	// WebSearchCalls counts billed searches. Providers that do not report it
	// leave it at zero and are charged one fee per web-search call.
	WebSearchCalls int64 `json:"webSearchCalls,omitempty"`
}

// Calculator computes costs for API usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Tokens computes token cost for a model. Unknown models cost 0.
func (c *Calculator) Tokens(provider, model string, input, output int64) float64 {
	rate, ok := c.lookup(provider, model)
	if !ok {
		return 0
	}
	return (float64(input)/1e6)*rate.Input + (float64(output)/1e6)*rate.Output
}

// WebSearchFee returns the flat per-search fee for a provider.
func (c *Calculator) WebSearchFee(provider string) float64 {
	return c.rates[provider].WebSearchFee
}

// Estimate returns the estimated USD cost of one call.
func (c *Calculator) Estimate(provider, model string, usage Usage, webSearch bool) float64 {
	total := c.Tokens(provider, model, usage.InputTokens, usage.OutputTokens)
	if webSearch {
		calls := usage.WebSearchCalls
		if calls < 1 {
			calls = 1
		}
		total += float64(calls) * c.WebSearchFee(provider)
	}
	return total
}

// lookup matches the model exactly, then by the longest configured prefix so
// dated snapshots ("gpt-4o-mini-2024-07-18") price like their family.
func (c *Calculator) lookup(provider, model string) (ModelRate, bool) {
	pr, ok := c.rates[provider]
	if !ok {
		return ModelRate{}, false
	}
	if r, ok := pr.Models[model]; ok {
		return r, true
	}
	keys := make([]string, 0, len(pr.Models))
	for k := range pr.Models {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	for _, k := range keys {
		if strings.HasPrefix(model, k) {
			return pr.Models[k], true
		}
	}
	return ModelRate{}, false
}

// DefaultRates returns the default pricing rates.
func DefaultRates() Rates {
	return Rates{
		config.ProviderOpenAI: {
			Models: map[string]ModelRate{
				"gpt-4o-mini":  {Input: 0.15, Output: 0.60},
				"gpt-4o":       {Input: 2.50, Output: 10.00},
				"gpt-4.1-mini": {Input: 0.40, Output: 1.60},
				"gpt-4.1":      {Input: 2.00, Output: 8.00},
			},
			WebSearchFee: 0.025,
		},
		config.ProviderAnthropic: {
			Models: map[string]ModelRate{
				"claude-haiku-4-5-20251001":  {Input: 1.00, Output: 5.00},
				"claude-sonnet-4-5-20250929": {Input: 3.00, Output: 15.00},
				"claude-opus-4-6":            {Input: 15.00, Output: 75.00},
			},
			WebSearchFee: 0.01,
		},
		config.ProviderPerplexity: {
			Models: map[string]ModelRate{
				"sonar":     {Input: 1.00, Output: 1.00},
				"sonar-pro": {Input: 3.00, Output: 15.00},
			},
			WebSearchFee: 0.005,
		},
		config.ProviderGemini: {
			Models: map[string]ModelRate{
				"gemini-2.5-flash": {Input: 0.30, Output: 2.50},
				"gemini-2.5-pro":   {Input: 1.25, Output: 10.00},
			},
			WebSearchFee: 0.035,
		},
	}
}

// FromConfig layers configured pricing over DefaultRates. Configured models
// replace or extend the defaults; a configured fee of zero keeps the default.
func FromConfig(p config.PricingConfig) Rates {
	rates := DefaultRates()
	merge := func(name string, pp config.ProviderPricing) {
		pr := rates[name]
		if pr.Models == nil {
			pr.Models = make(map[string]ModelRate)
		}
		for m, mp := range pp.Models {
			pr.Models[m] = ModelRate{Input: mp.Input, Output: mp.Output}
		}
		if pp.WebSearchFee > 0 {
			pr.WebSearchFee = pp.WebSearchFee
		}
		rates[name] = pr
	}
	merge(config.ProviderOpenAI, p.OpenAI)
	merge(config.ProviderAnthropic, p.Anthropic)
	merge(config.ProviderPerplexity, p.Perplexity)
	merge(config.ProviderGemini, p.Gemini)
	return rates
}
