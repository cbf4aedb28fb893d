// Package provider puts the LLM vendors behind one interface with a
// web-search call shape and a plain completion call shape.
package provider

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/cost"
	"github.com/sells-group/outreach-cli/internal/location"
	"github.com/sells-group/outreach-cli/internal/model"
)

// ErrWebSearchUnsupported is returned by WebSearch on providers without a
// hosted search tool.
var ErrWebSearchUnsupported = eris.New("provider: web search not supported")

// WebSearchRequest is a tool-augmented request. Location biases the search.
type WebSearchRequest struct {
	System      string
	Prompt      string
	Location    location.Location
	MaxTokens   int
	Temperature *float64
}

// CompletionRequest is a plain system+user chat request.
type CompletionRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature *float64
	// JSONObject asks for a single JSON object where the vendor supports a
	// response format switch.
	JSONObject bool
}

// Response is the vendor-neutral result of either call shape.
type Response struct {
	Text      string
	Citations []model.Citation
	// UsedWebSearch reports whether the vendor actually ran a search.
	UsedWebSearch bool
	Model         string
	Usage         cost.Usage
}

// Provider is an LLM vendor.
type Provider interface {
	Name() string
	SupportsWebSearch() bool
	WebSearch(ctx context.Context, req WebSearchRequest) (*Response, error)
	Complete(ctx context.Context, req CompletionRequest) (*Response, error)
}

// Registry holds the configured providers by name.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider, replacing any provider with the same name.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get returns a provider by name, or nil if not found.
func (r *Registry) Get(name string) Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[name]
}

// MustGet returns the named provider or an error listing the registered
// ones.
func (r *Registry) MustGet(name string) (Provider, error) {
	if p := r.Get(name); p != nil {
		return p, nil
	}
	return nil, eris.Errorf("provider: %q is not configured (available: %s)", name, strings.Join(r.List(), ", "))
}

// List returns all registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// citations collects deduplicated citations in first-seen order.
type citations struct {
	seen map[string]struct{}
	list []model.Citation
}

func (c *citations) add(url, title string) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	if c.seen == nil {
		c.seen = make(map[string]struct{})
	}
	if _, ok := c.seen[url]; ok {
		return
	}
	c.seen[url] = struct{}{}
	c.list = append(c.list, model.Citation{URL: url, Title: strings.TrimSpace(title)})
}

func (c *citations) result() []model.Citation {
	if c.list == nil {
		return []model.Citation{}
	}
	return c.list
}

func pick(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func temperature(req *float64, def float64) *float64 {
	if req != nil {
		return req
	}
	return &def
}
