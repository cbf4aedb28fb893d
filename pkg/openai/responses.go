package openai

import "strings"

// Output item and tool type names used by the Responses API.
const (
	ItemMessage       = "message"
	ItemWebSearchCall = "web_search_call"
	ContentOutputText = "output_text"
	AnnotationURL     = "url_citation"
	ToolWebSearch     = "web_search_preview"
)

// ResponseRequest is the request body for POST /responses.
type ResponseRequest struct {
	Model           string      `json:"model"`
	Instructions    string      `json:"instructions,omitempty"`
	Input           []InputItem `json:"input"`
	Tools           []Tool      `json:"tools,omitempty"`
	ToolChoice      string      `json:"tool_choice,omitempty"`
	Temperature     *float64    `json:"temperature,omitempty"`
	MaxOutputTokens *int        `json:"max_output_tokens,omitempty"`
}

// InputItem is one input message.
type InputItem struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Tool is a hosted tool definition.
type Tool struct {
	Type              string        `json:"type"`
	SearchContextSize string        `json:"search_context_size,omitempty"`
	UserLocation      *UserLocation `json:"user_location,omitempty"`
}

// UserLocation is the approximate location hint for web search.
type UserLocation struct {
	Type     string `json:"type"`
	Country  string `json:"country,omitempty"`
	City     string `json:"city,omitempty"`
	Region   string `json:"region,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// WebSearchTool returns the hosted web search tool with an approximate
// location. Empty location fields are omitted.
func WebSearchTool(contextSize, country, city, region, timezone string) Tool {
	t := Tool{Type: ToolWebSearch, SearchContextSize: contextSize}
	if country != "" || city != "" || region != "" || timezone != "" {
		t.UserLocation = &UserLocation{
			Type:     "approximate",
			Country:  country,
			City:     city,
			Region:   region,
			Timezone: timezone,
		}
	}
	return t
}

// Response is the body returned by POST /responses.
type Response struct {
	ID     string        `json:"id"`
	Model  string        `json:"model"`
	Status string        `json:"status"`
	Output []OutputItem  `json:"output"`
	Usage  ResponseUsage `json:"usage"`
}

// OutputItem is one entry of Response.Output. Only the fields of message
// and web_search_call items are decoded.
type OutputItem struct {
	Type    string          `json:"type"`
	ID      string          `json:"id"`
	Status  string          `json:"status,omitempty"`
	Role    string          `json:"role,omitempty"`
	Content []OutputContent `json:"content,omitempty"`
	Action  *SearchAction   `json:"action,omitempty"`
}

// SearchAction describes what a web_search_call did.
type SearchAction struct {
	Type  string `json:"type"`
	Query string `json:"query,omitempty"`
}

// OutputContent is one part of a message item.
type OutputContent struct {
	Type        string       `json:"type"`
	Text        string       `json:"text"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Annotation marks a span of output text; url_citation annotations carry
// the cited page.
type Annotation struct {
	Type       string `json:"type"`
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
	URL        string `json:"url,omitempty"`
	Title      string `json:"title,omitempty"`
}

// ResponseUsage reports token consumption.
type ResponseUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// OutputText concatenates the text of every output_text part.
func (r *Response) OutputText() string {
	if r == nil {
		return ""
	}
	var parts []string
	for _, item := range r.Output {
		if item.Type != ItemMessage {
			continue
		}
		for _, c := range item.Content {
			if c.Type == ContentOutputText {
				parts = append(parts, c.Text)
			}
		}
	}
	return strings.Join(parts, "\n")
}

// Annotations returns the url_citation annotations of all message items.
func (r *Response) Annotations() []Annotation {
	if r == nil {
		return nil
	}
	var out []Annotation
	for _, item := range r.Output {
		for _, c := range item.Content {
			for _, a := range c.Annotations {
				if a.Type == AnnotationURL && a.URL != "" {
					out = append(out, a)
				}
			}
		}
	}
	return out
}

// SearchCalls returns the web_search_call items.
func (r *Response) SearchCalls() []OutputItem {
	if r == nil {
		return nil
	}
	var out []OutputItem
	for _, item := range r.Output {
		if item.Type == ItemWebSearchCall {
			out = append(out, item)
		}
	}
	return out
}
