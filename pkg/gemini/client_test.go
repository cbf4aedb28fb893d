package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	c, err := NewClient(context.Background(), Config{APIKey: "test-key", BaseURL: ts.URL})
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), Config{APIKey: "  "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key is required")
}

func TestGenerate_Grounded(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-2.5-flash:generateContent")
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": `[{"name":"Mistral AI"}]`}},
				},
				"groundingMetadata": map[string]any{
					"webSearchQueries": []string{"AI startups Paris", "AI startups Paris", " "},
					"groundingChunks": []map[string]any{
						{"web": map[string]any{"uri": "https://mistral.ai", "title": "Mistral AI"}},
						{"web": map[string]any{"uri": "https://mistral.ai", "title": "dup"}},
						{"web": map[string]any{"uri": ""}},
					},
				},
			}},
			"usageMetadata": map[string]any{
				"promptTokenCount":     12,
				"candidatesTokenCount": 8,
				"totalTokenCount":      20,
			},
			"modelVersion": "gemini-2.5-flash-001",
		})
	})

	temp := 0.3
	resp, err := c.Generate(context.Background(), Request{
		System:          "Return JSON only.",
		Prompt:          "Find AI companies in Paris",
		Temperature:     &temp,
		MaxOutputTokens: 512,
		GoogleSearch:    true,
	})
	require.NoError(t, err)

	assert.Contains(t, body, "tools")
	assert.Contains(t, body, "systemInstruction")

	assert.Equal(t, `[{"name":"Mistral AI"}]`, resp.Text)
	assert.Equal(t, "gemini-2.5-flash-001", resp.Model)
	assert.Equal(t, []Source{{URL: "https://mistral.ai", Title: "Mistral AI"}}, resp.Sources)
	assert.Equal(t, []string{"AI startups Paris"}, resp.WebSearchQueries)
	assert.Equal(t, int64(20), resp.Usage.TotalTokens)
	assert.True(t, resp.Grounded())
}

func TestGenerate_PlainHasNoTools(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"candidates": []map[string]any{{
				"content": map[string]any{"role": "model", "parts": []map[string]any{{"text": "hello"}}},
			}},
		})
	})

	resp, err := c.Generate(context.Background(), Request{Model: "gemini-2.5-pro", Prompt: "hi"})
	require.NoError(t, err)
	assert.NotContains(t, body, "tools")
	assert.Equal(t, "hello", resp.Text)
	assert.Equal(t, "gemini-2.5-pro", resp.Model)
	assert.False(t, resp.Grounded())
}

func TestGenerate_Error(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"error": map[string]any{"code": 400, "message": "bad request", "status": "INVALID_ARGUMENT"},
		})
	})

	_, err := c.Generate(context.Background(), Request{Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini: generate content")
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "plain", err: errors.New("boom"), want: 0},
		{name: "value", err: genai.APIError{Code: 429}, want: 429},
		{name: "wrapped value", err: eris.Wrap(genai.APIError{Code: 503}, "gemini"), want: 503},
		{name: "pointer", err: &genai.APIError{Code: 500}, want: 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestExtract_NilSafe(t *testing.T) {
	assert.Nil(t, extractSources(nil))
	assert.Nil(t, extractWebSearchQueries(&genai.GenerateContentResponse{}))
	assert.Nil(t, extractSources(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}))
}
