package provider

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
)

// FakeResult is one scripted reply.
type FakeResult struct {
	Response *Response
	Err      error
}

// Fake is a scripted Provider for tests. Each call consumes the next
// scripted result of its kind; the last one repeats once the script runs
// out.
type Fake struct {
	name       string
	webSearch  bool
	mu         sync.Mutex
	webScript  []FakeResult
	compScript []FakeResult
	webReqs    []WebSearchRequest
	compReqs   []CompletionRequest
}

// NewFake creates a fake provider that advertises web search.
func NewFake(name string) *Fake {
	return &Fake{name: name, webSearch: true}
}

// WithoutWebSearch makes the fake report no web search support.
func (f *Fake) WithoutWebSearch() *Fake {
	f.webSearch = false
	return f
}

// OnWebSearch appends a scripted web-search reply.
func (f *Fake) OnWebSearch(resp *Response, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.webScript = append(f.webScript, FakeResult{Response: resp, Err: err})
	return f
}

// OnComplete appends a scripted completion reply.
func (f *Fake) OnComplete(resp *Response, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.compScript = append(f.compScript, FakeResult{Response: resp, Err: err})
	return f
}

func (f *Fake) Name() string            { return f.name }
func (f *Fake) SupportsWebSearch() bool { return f.webSearch }

func (f *Fake) WebSearch(_ context.Context, req WebSearchRequest) (*Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.webReqs = append(f.webReqs, req)
	if !f.webSearch {
		return nil, ErrWebSearchUnsupported
	}
	return next(&f.webScript, "web search")
}

func (f *Fake) Complete(_ context.Context, req CompletionRequest) (*Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.compReqs = append(f.compReqs, req)
	return next(&f.compScript, "completion")
}

// WebSearchCalls returns the number of WebSearch calls.
func (f *Fake) WebSearchCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.webReqs)
}

// CompleteCalls returns the number of Complete calls.
func (f *Fake) CompleteCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.compReqs)
}

// WebSearchRequests returns a copy of the recorded web-search requests.
func (f *Fake) WebSearchRequests() []WebSearchRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]WebSearchRequest(nil), f.webReqs...)
}

// CompleteRequests returns a copy of the recorded completion requests.
func (f *Fake) CompleteRequests() []CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CompletionRequest(nil), f.compReqs...)
}

func next(script *[]FakeResult, kind string) (*Response, error) {
	if len(*script) == 0 {
		return nil, eris.Errorf("fake: no scripted %s reply", kind)
	}
	r := (*script)[0]
	if len(*script) > 1 {
		*script = (*script)[1:]
	}
	return r.Response, r.Err
}

// Text returns a scripted response holding text.
func Text(text string) *Response {
	return &Response{Text: text, Model: "fake"}
}
