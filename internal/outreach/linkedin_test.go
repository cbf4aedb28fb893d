package outreach

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/provider"
)

func TestLinkedInURL(t *testing.T) {
	tests := []struct {
		name       string
		fake       *provider.Fake
		wantURL    string
		wantSlug   string
		wantSource model.Source
		wantState  model.State
	}{
		{
			name:       "slug from json",
			fake:       provider.NewFake("fake").OnWebSearch(webReply(`{"companySlug": "acme-robotics"}`), nil),
			wantURL:    "https://www.linkedin.com/company/acme-robotics/people/?keywords=Data%20Analyst",
			wantSlug:   "acme-robotics",
			wantSource: model.SourceWebSearch,
			wantState:  model.StateSuccess,
		},
		{
			name: "slug from cited url",
			fake: provider.NewFake("fake").WithoutWebSearch().OnComplete(provider.Text(
				`Their page is https://www.linkedin.com/company/acmerobotics/ on LinkedIn.`), nil),
			wantURL:    "https://www.linkedin.com/company/acmerobotics/people/?keywords=Data%20Analyst",
			wantSlug:   "acmerobotics",
			wantSource: model.SourceAIGenerated,
			wantState:  model.StateSuccess,
		},
		{
			name: "fallback slugifies the name",
			fake: provider.NewFake("fake").
				OnWebSearch(nil, errors.New("bad request")).
				OnComplete(provider.Text(`{"companySlug": ""}`), nil),
			wantURL:    "https://www.linkedin.com/company/acme-robotics-co/people/?keywords=Data%20Analyst",
			wantSlug:   "acme-robotics-co",
			wantSource: model.SourceFallback,
			wantState:  model.StateFallback,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t, tt.fake)
			env, err := s.LinkedInURL(context.Background(), LinkedInQuery{Company: "Acme Robotics & Co.", JobTitle: "Data Analyst"})
			require.NoError(t, err)

			got, ok := env.First()
			require.True(t, ok)
			assert.Equal(t, tt.wantState, env.State)
			assert.Equal(t, tt.wantURL, got.URL)
			assert.Equal(t, tt.wantSlug, got.CompanySlug)
			assert.Equal(t, tt.wantSource, got.Source)
		})
	}
}

func TestLinkedInURL_Validation(t *testing.T) {
	s := newTestService(t, provider.NewFake("fake"))
	_, err := s.LinkedInURL(context.Background(), LinkedInQuery{JobTitle: "Data"})
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestParseCompanySlug(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{`{"companySlug": "Acme-Robotics/"}`, "acme-robotics"},
		{`{"company_slug": "acme-robotics"}`, "acme-robotics"},
		{`{"linkedinUrl": "https://linkedin.com/company/globex"}`, "globex"},
		{`{"linkedin_url": "https://linkedin.com/company/globex"}`, "globex"},
		{`{"companySlug": "not a slug", "url": "https://www.linkedin.com/company/initech/about"}`, "initech"},
		{"see linkedin.com/company/hooli", "hooli"},
		{"nothing here", ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCompanySlug(tt.text))
		})
	}
}
