package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/outreach"
	"github.com/sells-group/outreach-cli/internal/provider"
	"github.com/sells-group/outreach-cli/internal/resilience"
	"github.com/sells-group/outreach-cli/internal/store"
)

const companiesJSON = `[{"name": "Acme Analytics", "description": "Data platform", "relevance": "Perfect Match"}]`

func newSQLite(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func newServer(t *testing.T, fake *provider.Fake, st store.Store) *httptest.Server {
	t.Helper()
	opts := []outreach.Option{outreach.WithRetry(resilience.RetryConfig{
		MaxRetries: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, MaxJitter: -1,
	})}
	if st != nil {
		opts = append(opts, outreach.WithStore(st))
	}
	svc, err := outreach.New(fake, outreach.DefaultSettings(), opts...)
	require.NoError(t, err)
	srv := httptest.NewServer(NewRouter(svc, Config{RequestTimeout: 5 * time.Second}))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func get(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	srv := newServer(t, provider.NewFake("fake"), nil)

	resp := get(t, srv, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[healthResponse](t, resp)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "fake", body.Provider)
	assert.True(t, body.WebSearch)
	assert.Equal(t, "disabled", body.Store)
}

func TestHealth_StoreDown(t *testing.T) {
	st := newSQLite(t)
	require.NoError(t, st.Close())
	srv := newServer(t, provider.NewFake("fake"), st)

	resp := get(t, srv, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	body := decodeBody[healthResponse](t, resp)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "unreachable", body.Store)
}

func TestSearchCompanies(t *testing.T) {
	fake := provider.NewFake("fake").WithoutWebSearch().OnComplete(provider.Text(companiesJSON), nil)
	srv := newServer(t, fake, nil)

	resp := post(t, srv, "/api/companies/search", `{"jobTitle": "Data Analyst", "location": "Austin, TX", "mode": "standard"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	env := decodeBody[model.Envelope[model.Company]](t, resp)
	assert.Equal(t, model.StateSuccess, env.State)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "Acme Analytics", env.Data[0].Name)
}

func TestSearchCompanies_FailedIsStill200(t *testing.T) {
	fake := provider.NewFake("fake").WithoutWebSearch().OnComplete(provider.Text("nothing"), nil)
	srv := newServer(t, fake, nil)

	resp := post(t, srv, "/api/companies/search", `{"jobTitle": "Data Analyst"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	env := decodeBody[model.Envelope[model.Company]](t, resp)
	assert.Empty(t, env.Data)
	assert.Contains(t, env.Error, "company search failed")
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name       string
		fake       *provider.Fake
		path       string
		body       string
		wantStatus int
		wantKind   string
	}{
		{"missing job title", provider.NewFake("fake"), "/api/companies/search", `{"location": "Paris"}`, http.StatusBadRequest, "invalid_input"},
		{"malformed json", provider.NewFake("fake"), "/api/companies/search", `{"jobTitle":`, http.StatusBadRequest, ""},
		{"unknown field", provider.NewFake("fake"), "/api/emails/guess", `{"fullName": "Jane Doe", "company": "Acme", "shoeSize": 42}`, http.StatusBadRequest, ""},
		{"bad mode", provider.NewFake("fake"), "/api/linkedin/url", `{"company": "Acme", "mode": "turbo"}`, http.StatusBadRequest, "invalid_input"},
		{"employees need web search", provider.NewFake("fake").WithoutWebSearch(), "/api/employees/search", `{"company": "Acme", "jobTitle": "Data"}`, http.StatusUnprocessableEntity, "web_search_required"},
		{"forced web search unsupported", provider.NewFake("fake").WithoutWebSearch(), "/api/companies/search", `{"jobTitle": "Data", "mode": "web_search"}`, http.StatusUnprocessableEntity, "config"},
		{"empty batch", provider.NewFake("fake"), "/api/employees/batch", `{"queries": []}`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.fake, nil)
			resp := post(t, srv, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body := decodeBody[errorBody](t, resp)
			assert.NotEmpty(t, body.Error)
			assert.NotEmpty(t, body.RequestID)
			assert.Equal(t, tt.wantKind, body.Kind)
		})
	}
}

func TestUnsupportedContentType(t *testing.T) {
	srv := newServer(t, provider.NewFake("fake"), nil)
	resp, err := http.Post(srv.URL+"/api/emails/guess", "text/plain", strings.NewReader("hi"))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestGuessEmail_Fallback(t *testing.T) {
	fake := provider.NewFake("fake").WithoutWebSearch().OnComplete(provider.Text("no idea"), nil)
	srv := newServer(t, fake, nil)

	resp := post(t, srv, "/api/emails/guess", `{"fullName": "Jane Doe", "company": "PwC"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	env := decodeBody[model.Envelope[model.EmailGuess]](t, resp)
	assert.True(t, env.Fallback)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "jane.doe@pwc.com", env.Data[0].Email)
}

func TestGenerateEmail(t *testing.T) {
	draft := "Subject: Hello from Sam\n\nDear Jane, I would love to talk about the data analyst role at Acme next week."
	fake := provider.NewFake("fake").OnComplete(provider.Text(draft), nil)
	srv := newServer(t, fake, nil)

	resp := post(t, srv, "/api/emails/generate", `{"recipientName": "Jane", "companyName": "Acme"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	env := decodeBody[model.Envelope[model.EmailContent]](t, resp)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "Hello from Sam", env.Data[0].Subject)
}

func TestLinkedInURL(t *testing.T) {
	fake := provider.NewFake("fake").WithoutWebSearch().OnComplete(provider.Text(`{"companySlug": "acme"}`), nil)
	srv := newServer(t, fake, nil)

	resp := post(t, srv, "/api/linkedin/url", `{"company": "Acme", "jobTitle": "Engineer"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	env := decodeBody[model.Envelope[model.LinkedInSearch]](t, resp)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "https://www.linkedin.com/company/acme/people/?keywords=Engineer", env.Data[0].URL)
}

func TestSearchEmployeesBatch(t *testing.T) {
	employees := `[{"name": "Marie Curie", "title": "Head of Data"}]`
	fake := provider.NewFake("fake").OnWebSearch(&provider.Response{Text: employees, UsedWebSearch: true}, nil)
	srv := newServer(t, fake, nil)

	resp := post(t, srv, "/api/employees/batch", `{"queries": [{"company": "Acme", "jobTitle": "Data"}, {"company": "Globex", "jobTitle": "Data"}], "concurrency": 2}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[batchResponse](t, resp)
	require.Len(t, body.Results, 2)
	assert.Equal(t, "Acme", body.Results[0].Query.Company)
	assert.Equal(t, "Globex", body.Results[1].Envelope.Data[0].Company)
}

func TestSearches(t *testing.T) {
	st := newSQLite(t)
	fake := provider.NewFake("fake").WithoutWebSearch().OnComplete(provider.Text(companiesJSON), nil)
	srv := newServer(t, fake, st)

	resp := post(t, srv, "/api/companies/search", `{"jobTitle": "Data Analyst"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	env := decodeBody[model.Envelope[model.Company]](t, resp)

	resp = get(t, srv, "/api/searches?kind=companies&limit=10")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[searchesResponse](t, resp)
	require.Len(t, list.Searches, 1)
	assert.Equal(t, env.RequestID, list.Searches[0].ID)

	resp = get(t, srv, "/api/searches?kind=employees")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody[searchesResponse](t, resp).Searches)

	resp = get(t, srv, "/api/searches/"+env.RequestID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rec := decodeBody[model.SearchRecord](t, resp)
	assert.Equal(t, 1, rec.ResultCount)

	resp = get(t, srv, "/api/searches/does-not-exist")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSearches_BadQuery(t *testing.T) {
	srv := newServer(t, provider.NewFake("fake"), newSQLite(t))
	for _, q := range []string{"kind=jobs", "since=yesterday", "limit=-1", "offset=abc"} {
		t.Run(q, func(t *testing.T) {
			resp := get(t, srv, "/api/searches?"+q)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestSearches_Disabled(t *testing.T) {
	srv := newServer(t, provider.NewFake("fake"), nil)
	resp := get(t, srv, "/api/searches")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	resp = get(t, srv, "/api/searches/abc")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusOf(store.ErrNotFound))
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(outreach.ErrWebSearchRequired))
	assert.Equal(t, http.StatusBadRequest, statusOf(badRequest("x")))
	assert.Equal(t, http.StatusInternalServerError, statusOf(assert.AnError))
}
