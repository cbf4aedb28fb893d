// Package anthropic wraps the Anthropic Messages API behind request and
// response types owned by this module.
package anthropic

import (
	"context"
	"errors"
	"net/http"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
)

// Content block and citation types returned by the Messages API.
const (
	BlockText                = "text"
	BlockServerToolUse       = "server_tool_use"
	BlockWebSearchToolResult = "web_search_tool_result"
	CitationWebSearch        = "web_search_result_location"
)

// Client defines the Anthropic API operations used by the providers.
type Client interface {
	CreateMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error)
}

// MessageRequest is our own request type for CreateMessage.
type MessageRequest struct {
	Model       string
	MaxTokens   int64
	System      string
	Messages    []Message
	Temperature *float64
	// WebSearch attaches the server-side web_search tool when set.
	WebSearch *WebSearchTool
}

// WebSearchTool configures the web_search_20250305 server tool.
type WebSearchTool struct {
	MaxUses        int64
	AllowedDomains []string
	UserLocation   *UserLocation
}

// UserLocation is the approximate location hint for web search.
type UserLocation struct {
	City     string
	Region   string
	Country  string
	Timezone string
}

// Message represents a single conversational message.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// MessageResponse is our own response type from CreateMessage.
type MessageResponse struct {
	ID           string
	Model        string
	Content      []ContentBlock
	StopReason   string
	StopSequence string
	Usage        TokenUsage
}

// ContentBlock is a block of content in a response.
type ContentBlock struct {
	Type      string
	Text      string
	Citations []Citation
	// Results holds the pages of a web_search_tool_result block.
	Results []SearchResult
}

// Citation is a web page cited by a text block.
type Citation struct {
	Type      string
	URL       string
	Title     string
	CitedText string
}

// SearchResult is one page returned by the web search tool.
type SearchResult struct {
	URL     string
	Title   string
	PageAge string
}

// TokenUsage tracks token consumption.
type TokenUsage struct {
	InputTokens       int64
	OutputTokens      int64
	WebSearchRequests int64
}

// Text concatenates all text blocks.
func (r *MessageResponse) Text() string {
	if r == nil {
		return ""
	}
	var out string
	for _, b := range r.Content {
		if b.Type == BlockText {
			out += b.Text
		}
	}
	return out
}

// Citations returns the web citations of all text blocks.
func (r *MessageResponse) Citations() []Citation {
	if r == nil {
		return nil
	}
	var out []Citation
	for _, b := range r.Content {
		for _, c := range b.Citations {
			if c.Type == CitationWebSearch && c.URL != "" {
				out = append(out, c)
			}
		}
	}
	return out
}

// UsedWebSearch reports whether the model actually ran a web search.
func (r *MessageResponse) UsedWebSearch() bool {
	if r == nil {
		return false
	}
	if r.Usage.WebSearchRequests > 0 {
		return true
	}
	for _, b := range r.Content {
		if b.Type == BlockServerToolUse || b.Type == BlockWebSearchToolResult {
			return true
		}
	}
	return false
}

// Option configures the client.
type Option func(*[]option.RequestOption)

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) Option {
	return func(opts *[]option.RequestOption) {
		if url != "" {
			*opts = append(*opts, option.WithBaseURL(url))
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(opts *[]option.RequestOption) {
		*opts = append(*opts, option.WithHTTPClient(hc))
	}
}

// WithMaxRetries sets the SDK's own retry count. NewClient disables SDK
// retries by default; callers retry through internal/resilience.
func WithMaxRetries(n int) Option {
	return func(opts *[]option.RequestOption) {
		*opts = append(*opts, option.WithMaxRetries(n))
	}
}

// sdkClient implements Client using the official anthropic-sdk-go.
type sdkClient struct {
	client sdk.Client
}

// NewClient creates a new Anthropic client backed by the SDK.
func NewClient(apiKey string, opts ...Option) Client {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	for _, o := range opts {
		o(&reqOpts)
	}
	return &sdkClient{client: sdk.NewClient(reqOpts...)}
}

func (c *sdkClient) CreateMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(req.Model),
		MaxTokens: req.MaxTokens,
		Messages:  toSDKMessages(req.Messages),
	}
	if req.System != "" {
		params.System = []sdk.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature != nil {
		params.Temperature = sdk.Float(*req.Temperature)
	}
	if req.WebSearch != nil {
		params.Tools = []sdk.ToolUnionParam{{OfWebSearchTool20250305: toSDKWebSearch(req.WebSearch)}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, eris.Wrap(err, "anthropic: create message")
	}

	return fromSDKMessage(msg), nil
}

// StatusCode extracts the HTTP status of an SDK error, or 0.
func StatusCode(err error) int {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func toSDKMessages(msgs []Message) []sdk.MessageParam {
	out := make([]sdk.MessageParam, len(msgs))
	for i, m := range msgs {
		block := sdk.NewTextBlock(m.Content)
		switch m.Role {
		case "assistant":
			out[i] = sdk.NewAssistantMessage(block)
		default:
			out[i] = sdk.NewUserMessage(block)
		}
	}
	return out
}

func toSDKWebSearch(ws *WebSearchTool) *sdk.WebSearchTool20250305Param {
	p := &sdk.WebSearchTool20250305Param{AllowedDomains: ws.AllowedDomains}
	if ws.MaxUses > 0 {
		p.MaxUses = sdk.Int(ws.MaxUses)
	}
	if loc := ws.UserLocation; loc != nil {
		if loc.City != "" {
			p.UserLocation.City = sdk.String(loc.City)
		}
		if loc.Region != "" {
			p.UserLocation.Region = sdk.String(loc.Region)
		}
		if loc.Country != "" {
			p.UserLocation.Country = sdk.String(loc.Country)
		}
		if loc.Timezone != "" {
			p.UserLocation.Timezone = sdk.String(loc.Timezone)
		}
	}
	return p
}

func fromSDKMessage(msg *sdk.Message) *MessageResponse {
	blocks := make([]ContentBlock, 0, len(msg.Content))
	for _, b := range msg.Content {
		block := ContentBlock{Type: b.Type, Text: b.Text}
		for _, c := range b.Citations {
			block.Citations = append(block.Citations, Citation{
				Type:      c.Type,
				URL:       c.URL,
				Title:     c.Title,
				CitedText: c.CitedText,
			})
		}
		if b.Type == BlockWebSearchToolResult {
			for _, r := range b.Content.OfWebSearchResultBlockArray {
				block.Results = append(block.Results, SearchResult{URL: r.URL, Title: r.Title, PageAge: r.PageAge})
			}
		}
		blocks = append(blocks, block)
	}

	return &MessageResponse{
		ID:           msg.ID,
		Model:        string(msg.Model),
		Content:      blocks,
		StopReason:   string(msg.StopReason),
		StopSequence: msg.StopSequence,
		Usage: TokenUsage{
			InputTokens:       msg.Usage.InputTokens,
			OutputTokens:      msg.Usage.OutputTokens,
			WebSearchRequests: msg.Usage.ServerToolUse.WebSearchRequests,
		},
	}
}
