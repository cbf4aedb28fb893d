// Package gemini wraps google.golang.org/genai for grounded and plain text
// generation.
package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// Client generates content with Gemini.
type Client interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Request is a single-turn generation request.
type Request struct {
	Model           string
	System          string
	Prompt          string
	Temperature     *float64
	MaxOutputTokens int32
	// GoogleSearch enables search grounding.
	GoogleSearch bool
}

// Source is a web page the answer was grounded on.
type Source struct {
	URL   string
	Title string
}

// Usage holds token counts from the usage metadata.
type Usage struct {
	PromptTokens    int64
	CandidateTokens int64
	TotalTokens     int64
}

// Response is the flattened result of a generation call.
type Response struct {
	Text             string
	Model            string
	Sources          []Source
	WebSearchQueries []string
	Usage            Usage
}

// Grounded reports whether the answer came back with search grounding.
func (r *Response) Grounded() bool {
	return r != nil && (len(r.Sources) > 0 || len(r.WebSearchQueries) > 0)
}

// Config configures the client.
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

type client struct {
	models *genai.Models
	model  string
}

// NewClient creates a Gemini API client.
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, eris.New("gemini: api key is required")
	}
	cc := &genai.ClientConfig{
		APIKey:     strings.TrimSpace(cfg.APIKey),
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		cc.HTTPOptions.BaseURL = strings.TrimSpace(cfg.BaseURL)
	}

	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: new client")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	return &client{models: gc.Models, model: model}, nil
}

func (c *client) Generate(ctx context.Context, req Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	gcfg := &genai.GenerateContentConfig{CandidateCount: 1}
	if req.System != "" {
		gcfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	if req.Temperature != nil {
		t := float32(*req.Temperature)
		gcfg.Temperature = &t
	}
	if req.MaxOutputTokens > 0 {
		gcfg.MaxOutputTokens = req.MaxOutputTokens
	}
	if req.GoogleSearch {
		gcfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: req.Prompt}},
	}}

	resp, err := c.models.GenerateContent(ctx, model, contents, gcfg)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: generate content")
	}

	out := &Response{
		Text:             resp.Text(),
		Model:            model,
		Sources:          extractSources(resp),
		WebSearchQueries: extractWebSearchQueries(resp),
	}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = Usage{
			PromptTokens:    int64(u.PromptTokenCount),
			CandidateTokens: int64(u.CandidatesTokenCount),
			TotalTokens:     int64(u.TotalTokenCount),
		}
	}
	return out, nil
}

// StatusCode extracts the HTTP status code of a Gemini API error, or 0.
func StatusCode(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code
	}
	return 0
}

func extractSources(resp *genai.GenerateContentResponse) []Source {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil
	}
	gm := resp.Candidates[0].GroundingMetadata
	if gm == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var out []Source
	for _, chunk := range gm.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		uri := strings.TrimSpace(chunk.Web.URI)
		if uri == "" {
			continue
		}
		if _, ok := seen[uri]; ok {
			continue
		}
		seen[uri] = struct{}{}
		out = append(out, Source{URL: uri, Title: strings.TrimSpace(chunk.Web.Title)})
	}
	return out
}

func extractWebSearchQueries(resp *genai.GenerateContentResponse) []string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil
	}
	gm := resp.Candidates[0].GroundingMetadata
	if gm == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(gm.WebSearchQueries))
	var out []string
	for _, q := range gm.WebSearchQueries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}
