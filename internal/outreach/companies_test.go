package outreach

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/provider"
	"github.com/sells-group/outreach-cli/internal/resilience"
)

const companiesJSON = "```json\n" + `[
  {"name": "Acme Analytics", "description": "Data platform for retailers", "relevance_score": "Perfect Match", "website": "acme.io"},
  {"company_name": "Globex", "description": "Logistics software", "relevanceScore": "Potential Match"},
  {"name": "No Description Inc"}
]` + "\n```"

func criteria() model.SearchCriteria {
	return model.SearchCriteria{JobTitle: "Data Analyst", Location: "Austin, TX"}
}

func webReply(text string) *provider.Response {
	return &provider.Response{
		Text:          text,
		Model:         "fake-search",
		UsedWebSearch: true,
		Citations:     []model.Citation{{URL: "https://acme.io/about", Title: "About Acme"}},
	}
}

func TestSearchCompanies_WebSearch(t *testing.T) {
	fake := provider.NewFake("fake").OnWebSearch(webReply(companiesJSON), nil)
	s := newTestService(t, fake)

	env, err := s.SearchCompanies(context.Background(), criteria(), "")
	require.NoError(t, err)

	assert.Equal(t, model.StateSuccess, env.State)
	assert.True(t, env.UsedWebSearch)
	assert.Empty(t, env.Error)
	assert.Equal(t, "fake", env.Provider)
	assert.NotEmpty(t, env.RequestID)
	require.Len(t, env.Data, 2)
	assert.Equal(t, "Acme Analytics", env.Data[0].Name)
	assert.Equal(t, model.CompanyPerfectMatch, env.Data[0].Relevance)
	assert.Equal(t, model.SourceWebSearch, env.Data[0].Source)
	assert.Equal(t, []model.Citation{{URL: "https://acme.io/about", Title: "About Acme"}}, env.Citations)

	assert.Equal(t, 0, fake.CompleteCalls())
	reqs := fake.WebSearchRequests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Austin", reqs[0].Location.City)
	assert.Contains(t, reqs[0].Prompt, "Data Analyst")
}

func TestSearchCompanies_UnparseableLocationUsesDefault(t *testing.T) {
	fake := provider.NewFake("fake").OnWebSearch(webReply(companiesJSON), nil)
	s := newTestService(t, fake)

	c := criteria()
	c.Location = "Nowhereville"
	_, err := s.SearchCompanies(context.Background(), c, ModeAuto)
	require.NoError(t, err)
	assert.Equal(t, "Paris", fake.WebSearchRequests()[0].Location.City)
}

func TestSearchCompanies_Cascade(t *testing.T) {
	tests := []struct {
		name         string
		fake         *provider.Fake
		mode         Mode
		wantState    model.State
		wantWeb      int
		wantComplete int
		wantCount    int
		wantErr      string
		wantSource   model.Source
	}{
		{
			name: "web error falls back to standard",
			fake: provider.NewFake("fake").
				OnWebSearch(nil, errors.New("bad request")).
				OnComplete(provider.Text(companiesJSON), nil),
			wantState: model.StateSuccess, wantWeb: 1, wantComplete: 1, wantCount: 2,
			wantSource: model.SourceAIGenerated,
		},
		{
			name: "empty web result falls back to standard",
			fake: provider.NewFake("fake").
				OnWebSearch(webReply("I could not find anything."), nil).
				OnComplete(provider.Text(companiesJSON), nil),
			wantState: model.StateSuccess, wantWeb: 1, wantComplete: 1, wantCount: 2,
			wantSource: model.SourceAIGenerated,
		},
		{
			name: "both paths fail",
			fake: provider.NewFake("fake").
				OnWebSearch(nil, errors.New("bad request")).
				OnComplete(provider.Text("[]"), nil),
			wantState: model.StateFailed, wantWeb: 1, wantComplete: 1,
			wantErr: "company search failed: web_search: bad request; standard: no usable results",
		},
		{
			name: "transient errors are retried",
			fake: provider.NewFake("fake").
				OnWebSearch(nil, transient()).
				OnWebSearch(nil, transient()).
				OnWebSearch(webReply(companiesJSON), nil),
			wantState: model.StateSuccess, wantWeb: 3, wantComplete: 0, wantCount: 2,
			wantSource: model.SourceWebSearch,
		},
		{
			name: "exhausted retries fall back once",
			fake: provider.NewFake("fake").
				OnWebSearch(nil, transient()).
				OnComplete(provider.Text(companiesJSON), nil),
			wantState: model.StateSuccess, wantWeb: 3, wantComplete: 1, wantCount: 2,
			wantSource: model.SourceAIGenerated,
		},
		{
			name:      "standard mode skips web search",
			fake:      provider.NewFake("fake").OnComplete(provider.Text(companiesJSON), nil),
			mode:      ModeStandard,
			wantState: model.StateSuccess, wantWeb: 0, wantComplete: 1, wantCount: 2,
			wantSource: model.SourceAIGenerated,
		},
		{
			name:      "auto without web support uses standard",
			fake:      provider.NewFake("fake").WithoutWebSearch().OnComplete(provider.Text(companiesJSON), nil),
			wantState: model.StateSuccess, wantWeb: 0, wantComplete: 1, wantCount: 2,
			wantSource: model.SourceAIGenerated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t, tt.fake)
			env, err := s.SearchCompanies(context.Background(), criteria(), tt.mode)
			require.NoError(t, err)

			assert.Equal(t, tt.wantState, env.State)
			assert.Equal(t, tt.wantWeb, tt.fake.WebSearchCalls())
			assert.Equal(t, tt.wantComplete, tt.fake.CompleteCalls())
			assert.Len(t, env.Data, tt.wantCount)
			assert.NotNil(t, env.Data)
			assert.NotNil(t, env.Citations)
			assert.Equal(t, tt.wantErr, env.Error)
			assert.False(t, env.Fallback)
			if tt.wantCount > 0 {
				assert.Equal(t, tt.wantSource, env.Data[0].Source)
			}
		})
	}
}

func TestSearchCompanies_StandardPromptDemandsJSON(t *testing.T) {
	fake := provider.NewFake("fake").OnComplete(provider.Text(companiesJSON), nil)
	s := newTestService(t, fake)

	_, err := s.SearchCompanies(context.Background(), criteria(), ModeStandard)
	require.NoError(t, err)
	reqs := fake.CompleteRequests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].System, "valid JSON only")
}

func TestSearchCompanies_Errors(t *testing.T) {
	s := newTestService(t, provider.NewFake("fake").WithoutWebSearch())

	_, err := s.SearchCompanies(context.Background(), model.SearchCriteria{}, ModeAuto)
	require.Error(t, err)
	assert.Equal(t, KindInvalidInput, KindOf(err))
	assert.True(t, errors.Is(err, model.ErrMissingJobTitle))

	_, err = s.SearchCompanies(context.Background(), criteria(), ModeWebSearch)
	require.Error(t, err)
	assert.Equal(t, KindConfig, KindOf(err))
	assert.True(t, errors.Is(err, provider.ErrWebSearchUnsupported))

	_, err = s.SearchCompanies(context.Background(), criteria(), Mode("turbo"))
	require.Error(t, err)
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestSearchCompanies_ExclusionsAndLimit(t *testing.T) {
	fake := provider.NewFake("fake").OnWebSearch(webReply(companiesJSON), nil)
	settings := DefaultSettings()
	settings.MaxCompanies = 1
	s, err := New(fake, settings, WithRetry(fastRetry()))
	require.NoError(t, err)

	c := criteria()
	c.Exclusions = []string{"acme"}
	env, err := s.SearchCompanies(context.Background(), c, ModeAuto)
	require.NoError(t, err)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "Globex", env.Data[0].Name)
}

func TestSearchCompanies_OpenBreakerSkipsWebSearch(t *testing.T) {
	fake := provider.NewFake("fake").
		OnWebSearch(nil, errors.New("bad request")).
		OnComplete(provider.Text(companiesJSON), nil)
	breakers := resilience.NewServiceBreakers(resilience.CircuitBreakerConfig{
		FailureThreshold: 1,
		ResetTimeout:     time.Hour,
	})
	s := newTestService(t, fake, WithBreakers(breakers))

	_, err := s.SearchCompanies(context.Background(), criteria(), ModeAuto)
	require.NoError(t, err)
	assert.Equal(t, resilience.CircuitOpen, s.Breakers()["fake/web_search"])

	env, err := s.SearchCompanies(context.Background(), criteria(), ModeAuto)
	require.NoError(t, err)
	assert.Equal(t, model.StateSuccess, env.State)
	assert.Equal(t, 1, fake.WebSearchCalls())
	assert.Equal(t, 2, fake.CompleteCalls())
}

func TestSearchCompanies_TimeoutFallsBack(t *testing.T) {
	slow := &slowProvider{Fake: provider.NewFake("slow").OnComplete(provider.Text(companiesJSON), nil)}
	settings := DefaultSettings()
	settings.Timeouts.WebSearch = 5 * time.Millisecond
	s, err := New(slow, settings, WithRetry(fastRetry()))
	require.NoError(t, err)

	env, err := s.SearchCompanies(context.Background(), criteria(), ModeAuto)
	require.NoError(t, err)
	assert.Equal(t, model.StateSuccess, env.State)
	assert.False(t, env.UsedWebSearch)
	assert.Len(t, env.Data, 2)
}

// slowProvider blocks web search until the context is done.
type slowProvider struct {
	*provider.Fake
}

func (p *slowProvider) WebSearch(ctx context.Context, _ provider.WebSearchRequest) (*provider.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
