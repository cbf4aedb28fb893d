// Package perplexity is a minimal client for the Perplexity Sonar chat API.
package perplexity

import (
	"context"
	"net/http"

	"github.com/sells-group/outreach-cli/pkg/jsonapi"
)

const (
	defaultBaseURL = "https://api.perplexity.ai"
	defaultModel   = "sonar-pro"
)

// Client performs chat completions against the Perplexity API.
type Client interface {
	ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// ChatCompletionRequest is the request body for POST /chat/completions.
type ChatCompletionRequest struct {
	Model            string            `json:"model"`
	Messages         []Message         `json:"messages"`
	Temperature      *float64          `json:"temperature,omitempty"`
	MaxTokens        *int              `json:"max_tokens,omitempty"`
	WebSearchOptions *WebSearchOptions `json:"web_search_options,omitempty"`
	// DisableSearch turns Sonar's built-in retrieval off for plain
	// completions.
	DisableSearch bool `json:"disable_search,omitempty"`
}

// WebSearchOptions tunes Sonar retrieval.
type WebSearchOptions struct {
	SearchContextSize string        `json:"search_context_size,omitempty"`
	UserLocation      *UserLocation `json:"user_location,omitempty"`
}

// UserLocation biases search results toward a country or city.
type UserLocation struct {
	Country string `json:"country,omitempty"`
	City    string `json:"city,omitempty"`
	Region  string `json:"region,omitempty"`
}

// Message represents a single message in the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionResponse is the response from POST /chat/completions.
type ChatCompletionResponse struct {
	ID            string         `json:"id"`
	Model         string         `json:"model"`
	Choices       []Choice       `json:"choices"`
	Usage         Usage          `json:"usage"`
	Citations     []string       `json:"citations"`
	SearchResults []SearchResult `json:"search_results"`
}

// Content returns the first choice's message content.
func (r *ChatCompletionResponse) Content() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// Choice is a single completion choice.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// SearchResult is one source Sonar retrieved.
type SearchResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Date  string `json:"date,omitempty"`
}

// Usage reports token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// APIError is returned for non-200 responses.
type APIError = jsonapi.StatusError

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		if url != "" {
			c.api.BaseURL = url
		}
	}
}

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *httpClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.api.HTTP = hc }
}

type httpClient struct {
	api   jsonapi.Caller
	model string
}

// NewClient creates a Perplexity API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		api: jsonapi.Caller{
			Service: "perplexity",
			BaseURL: defaultBaseURL,
			APIKey:  apiKey,
			HTTP:    jsonapi.DefaultHTTPClient(),
		},
		model: defaultModel,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if req.Model == "" {
		req.Model = c.model
	}
	var out ChatCompletionResponse
	if err := c.api.Post(ctx, "/chat/completions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
