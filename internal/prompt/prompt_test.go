package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/outreach-cli/internal/model"
)

func TestCompanies(t *testing.T) {
	c := model.SearchCriteria{
		JobTitle:   "Data Analyst",
		Location:   "Paris, France",
		Industry:   "Fintech",
		Keywords:   []string{"python", "sql"},
		Exclusions: []string{"Qonto"},
	}

	std := Companies(c, 10, false)
	assert.Contains(t, std.User, "Find up to 10 companies that are likely to hire a Data Analyst in Paris, France.")
	assert.Contains(t, std.User, "- Industry: Fintech")
	assert.Contains(t, std.User, "- Keywords: python, sql")
	assert.Contains(t, std.User, "- Exclude these companies: Qonto")
	assert.NotContains(t, std.User, "Company size")
	assert.Contains(t, std.System, "Respond with valid JSON only")
	assert.NotContains(t, std.System, "web search")

	web := Companies(c, 5, true)
	assert.Contains(t, web.System, "Use web search")
	assert.NotContains(t, web.System, "Respond with valid JSON only")
	assert.Equal(t, std.User[len("Find up to 10"):], web.User[len("Find up to 5"):])
}

func TestEmployees(t *testing.T) {
	p := Employees(EmployeeParams{Company: "Datadog", JobTitle: "SRE", Location: "New York", Max: 8}, true)
	assert.Contains(t, p.User, "Find up to 8 people who work at Datadog")
	assert.Contains(t, p.User, "as SRE")
	assert.Contains(t, p.User, "Prefer people based in New York.")
	assert.Contains(t, p.User, "Highly Relevant")

	noLoc := Employees(EmployeeParams{Company: "Datadog", JobTitle: "SRE", Max: 8}, true)
	assert.NotContains(t, noLoc.User, "Prefer people based")
}

func TestEmailGuess(t *testing.T) {
	web := EmailGuess(EmailGuessParams{FullName: "Jane Doe", Company: "PwC", Domain: "pwc.com"}, true)
	assert.Contains(t, web.User, "Jane Doe at PwC")
	assert.Contains(t, web.User, "probably pwc.com")
	assert.Contains(t, web.User, "Search for the email format")

	std := EmailGuess(EmailGuessParams{FullName: "Jane Doe", Company: "PwC", Title: "Manager"}, false)
	assert.Contains(t, std.User, "Their title is Manager.")
	assert.NotContains(t, std.User, "Search for")
	assert.Contains(t, std.System, "Respond with valid JSON only")
}

func TestEmailContent(t *testing.T) {
	p := EmailContent(DraftParams{RecipientName: "Marie", CompanyName: "Doctolib", JobTitle: "Data Analyst", Language: "French"})
	assert.Contains(t, p.System, "Subject: <subject line>")
	assert.Contains(t, p.User, "Write an outreach email to Marie at Doctolib about Data Analyst opportunities.")
	assert.Contains(t, p.User, "write the whole email in French")
	assert.Contains(t, p.User, "- Tone: professional and warm")

	bare := EmailContent(DraftParams{})
	assert.Contains(t, bare.User, "to the hiring team at the company about career opportunities")
	assert.Contains(t, bare.User, "in English")
}

func TestLinkedInCompany(t *testing.T) {
	p := LinkedInCompany("Acme Robotics", false)
	assert.Contains(t, p.User, "LinkedIn company page of Acme Robotics")
	assert.Contains(t, p.User, "companySlug")
	assert.Contains(t, p.System, "Respond with valid JSON only")
}
