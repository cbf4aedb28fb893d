// Package prompt builds the system and user prompts for each search family.
package prompt

import (
	"fmt"
	"strings"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Prompt is a system instruction plus the user message.
type Prompt struct {
	System string
	User   string
}

// jsonOnly is appended to every system prompt on the standard path.
const jsonOnly = `Respond with valid JSON only. Do not wrap the JSON in markdown code fences and do not add any text before or after it.`

const researcherSystem = `You are a job-search research assistant. You help candidates find companies and people to contact for a job search.

Rules:
- Only suggest real, currently operating companies and real people
- Prefer recent, verifiable information
- Never invent LinkedIn URLs; leave the field empty when you are not sure`

const webSearchRules = `
- Use web search to verify every suggestion before returning it
- Cite the pages you relied on`

func system(webSearch bool) string {
	if webSearch {
		return researcherSystem + webSearchRules + "\n\nReturn the final answer as JSON."
	}
	return researcherSystem + "\n\n" + jsonOnly
}

// Companies builds the company search prompt.
func Companies(c model.SearchCriteria, limit int, webSearch bool) Prompt {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Find up to %d companies that are likely to hire a %s", limit, strings.TrimSpace(c.JobTitle))
	if c.Location != "" {
		fmt.Fprintf(&sb, " in %s", c.Location)
	}
	sb.WriteString(".\n\nSearch criteria:\n")
	writeField(&sb, "Job type", c.JobType)
	writeField(&sb, "Industry", c.Industry)
	writeField(&sb, "Company size", c.CompanySize)
	writeField(&sb, "Experience level", c.ExperienceLevel)
	writeField(&sb, "Expected salary", c.ExpectedSalary)
	if len(c.Keywords) > 0 {
		writeField(&sb, "Keywords", strings.Join(c.Keywords, ", "))
	}
	if len(c.Exclusions) > 0 {
		writeField(&sb, "Exclude these companies", strings.Join(c.Exclusions, ", "))
	}

	sb.WriteString(`
Return a JSON array. Each element must have:
- name (string)
- description (string, one or two sentences)
- relevance (one of "Perfect Match", "Good Match", "Potential Match")
- estimatedEmployees (string, e.g. "50-200")
- location (string)
- industry (string)
- website (string)
- linkedinUrl (string, empty if unknown)`)

	return Prompt{System: system(webSearch), User: sb.String()}
}

// EmployeeParams describes an employee search.
type EmployeeParams struct {
	Company  string
	JobTitle string
	Location string
	Max      int
}

// Employees builds the employee search prompt.
func Employees(p EmployeeParams, webSearch bool) Prompt {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Find up to %d people who work at %s and would be good contacts for a candidate applying as %s.", p.Max, p.Company, p.JobTitle)
	if p.Location != "" {
		fmt.Fprintf(&sb, " Prefer people based in %s.", p.Location)
	}
	sb.WriteString(` Prioritise hiring managers, team leads in the same function and recruiters.

Return a JSON array. Each element must have:
- name (string, full name)
- title (string, current job title)
- company (string)
- location (string)
- relevance (one of "Highly Relevant", "Relevant", "Somewhat Relevant")
- linkedinUrl (string, a linkedin.com/in/ profile URL, empty if unknown)`)

	return Prompt{System: system(webSearch), User: sb.String()}
}

// EmailGuessParams describes an email address guess.
type EmailGuessParams struct {
	FullName string
	Company  string
	Domain   string
	Title    string
}

// EmailGuess builds the email address guess prompt.
func EmailGuess(p EmailGuessParams, webSearch bool) Prompt {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Guess the most likely work email address of %s at %s.", p.FullName, p.Company)
	if p.Title != "" {
		fmt.Fprintf(&sb, " Their title is %s.", p.Title)
	}
	if p.Domain != "" {
		fmt.Fprintf(&sb, " The company's email domain is probably %s.", p.Domain)
	}
	if webSearch {
		sb.WriteString(" Search for the email format the company uses (for example first.last or flast).")
	}
	sb.WriteString(`

Return a single JSON object with:
- email (string)
- confidence (number between 0 and 1)
- formatType (string, e.g. "first.last", "flast", "first")
- alternativeEmails (array of strings)`)

	return Prompt{System: system(webSearch), User: sb.String()}
}

// DraftParams describes an outreach email to draft.
type DraftParams struct {
	RecipientName    string
	RecipientTitle   string
	CompanyName      string
	JobTitle         string
	SenderName       string
	SenderBackground string
	Language         string
	Tone             string
}

const writerSystem = `You write short, personal job-search outreach emails. The email must be specific to the recipient and company, under 200 words, and end with a clear, low-pressure request for a conversation.

Format your answer exactly as:
Subject: <subject line>

<email body>`

// EmailContent builds the outreach email prompt.
func EmailContent(p DraftParams) Prompt {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write an outreach email to %s", orDefault(p.RecipientName, "the hiring team"))
	if p.RecipientTitle != "" {
		fmt.Fprintf(&sb, " (%s)", p.RecipientTitle)
	}
	fmt.Fprintf(&sb, " at %s about %s opportunities.\n", orDefault(p.CompanyName, "the company"), orDefault(p.JobTitle, "career"))
	writeField(&sb, "Sender", p.SenderName)
	writeField(&sb, "Sender background", p.SenderBackground)
	writeField(&sb, "Tone", orDefault(p.Tone, "professional and warm"))
	fmt.Fprintf(&sb, "- Language: write the whole email in %s\n", orDefault(p.Language, "English"))

	return Prompt{System: writerSystem, User: sb.String()}
}

// LinkedInCompany builds the prompt that looks up a company's LinkedIn page.
func LinkedInCompany(company string, webSearch bool) Prompt {
	user := fmt.Sprintf(`What is the official LinkedIn company page of %s?

Return a single JSON object with:
- linkedinUrl (string, https://www.linkedin.com/company/<slug>/)
- companySlug (string, the <slug> part)`, company)
	return Prompt{System: system(webSearch), User: user}
}

func writeField(sb *strings.Builder, label, value string) {
	if v := strings.TrimSpace(value); v != "" {
		fmt.Fprintf(sb, "- %s: %s\n", label, v)
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}
