// Package openai is a minimal client for the OpenAI Responses and Chat
// Completions APIs.
package openai

import (
	"context"
	"net/http"

	"github.com/sells-group/outreach-cli/pkg/jsonapi"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
)

// Client calls the OpenAI API.
type Client interface {
	// CreateResponse calls POST /responses, the endpoint that supports the
	// hosted web search tool.
	CreateResponse(ctx context.Context, req ResponseRequest) (*Response, error)
	// ChatCompletion calls POST /chat/completions.
	ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error)
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

// WithOrganization sets the OpenAI-Organization header.
func WithOrganization(org string) Option {
	return func(c *httpClient) {
		if org != "" {
			c.api.Header.Set("OpenAI-Organization", org)
		}
	}
}

type httpClient struct {
	api   jsonapi.Caller
	model string
}

// NewClient creates an OpenAI API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		api: jsonapi.Caller{
			Service: "openai",
			BaseURL: defaultBaseURL,
			APIKey:  apiKey,
			Header:  make(http.Header),
			HTTP:    jsonapi.DefaultHTTPClient(),
		},
		model: defaultModel,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) CreateResponse(ctx context.Context, req ResponseRequest) (*Response, error) {
	if req.Model == "" {
		req.Model = c.model
	}
	var out Response
	if err := c.api.Post(ctx, "/responses", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
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
