package outreach

import (
	"context"
	"strings"

	"github.com/sells-group/outreach-cli/internal/extract"
	"github.com/sells-group/outreach-cli/internal/fallback"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/normalize"
	"github.com/sells-group/outreach-cli/internal/prompt"
	"github.com/sells-group/outreach-cli/internal/provider"
)

// EmailQuery identifies the person whose address to guess.
type EmailQuery struct {
	FullName string `json:"fullName"`
	Company  string `json:"company"`
	Domain   string `json:"domain,omitempty"`
	Title    string `json:"title,omitempty"`
	Mode     Mode   `json:"mode,omitempty"`
}

// GuessEmail guesses a work address. The envelope always holds one guess:
// when the provider fails, the first.last@domain fallback is used.
func (s *Service) GuessEmail(ctx context.Context, q EmailQuery) (*model.Envelope[model.EmailGuess], error) {
	if strings.TrimSpace(q.FullName) == "" {
		return nil, invalidInput("full name is required")
	}
	if strings.TrimSpace(q.Company) == "" {
		return nil, invalidInput("company is required")
	}
	mode, err := ParseMode(string(s.mode(q.Mode)))
	if err != nil {
		return nil, err
	}
	useWeb, err := s.useWebSearch(mode)
	if err != nil {
		return nil, err
	}

	params := prompt.EmailGuessParams{FullName: q.FullName, Company: q.Company, Domain: q.Domain, Title: q.Title}
	p := plan[model.EmailGuess]{
		kind:  model.KindEmailGuess,
		label: "email guess",
		parse: func(resp *provider.Response, src model.Source) []model.EmailGuess {
			g, ok := parseEmailGuess(resp.Text)
			if !ok {
				return nil
			}
			g.Source = src
			return []model.EmailGuess{g}
		},
		fallback: func() []model.EmailGuess {
			g := fallback.GuessEmail(q.FullName, q.Company)
			if d := strings.ToLower(strings.TrimSpace(q.Domain)); d != "" {
				g.Email = withDomain(g.Email, d)
				for i, alt := range g.AlternativeEmails {
					g.AlternativeEmails[i] = withDomain(alt, d)
				}
			}
			return []model.EmailGuess{g}
		},
	}
	if useWeb {
		pr := prompt.EmailGuess(params, true)
		p.web = &path{
			timeout: s.settings.Timeouts.EmailGuess,
			call: func(ctx context.Context) (*provider.Response, error) {
				return s.provider.WebSearch(ctx, provider.WebSearchRequest{System: pr.System, Prompt: pr.User})
			},
		}
	}
	pr := prompt.EmailGuess(params, false)
	p.standard = &path{
		timeout: s.settings.Timeouts.EmailGuess,
		call: func(ctx context.Context) (*provider.Response, error) {
			return s.provider.Complete(ctx, provider.CompletionRequest{System: pr.System, Prompt: pr.User, JSONObject: true})
		},
	}

	env := run(ctx, s, p)
	record(ctx, s, model.KindEmailGuess, q, env)
	return env, nil
}

func withDomain(email, domain string) string {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 {
		return email
	}
	return email[:at+1] + domain
}

// parseEmailGuess reads a guess from a JSON object, or failing that from
// the first addresses found anywhere in the text.
func parseEmailGuess(text string) (model.EmailGuess, bool) {
	if obj := extract.JSONObject(text); obj != nil {
		if g, ok := normalize.EmailGuess(obj); ok {
			return g, true
		}
	}
	found := extract.Emails(text)
	if len(found) == 0 {
		return model.EmailGuess{}, false
	}
	alts := make([]any, 0, len(found)-1)
	for _, e := range found[1:] {
		alts = append(alts, e)
	}
	return normalize.EmailGuess(map[string]any{"email": found[0], "alternativeEmails": alts})
}

// DraftRequest describes an outreach email to write.
type DraftRequest struct {
	RecipientName    string `json:"recipientName"`
	RecipientTitle   string `json:"recipientTitle,omitempty"`
	CompanyName      string `json:"companyName"`
	JobTitle         string `json:"jobTitle,omitempty"`
	SenderName       string `json:"senderName,omitempty"`
	SenderBackground string `json:"senderBackground,omitempty"`
	Language         string `json:"language,omitempty"`
	Tone             string `json:"tone,omitempty"`
}

// GenerateEmail drafts an outreach email on the standard path. Drafts that
// are missing a subject or have a too-short body are replaced by the canned
// template for the requested language.
func (s *Service) GenerateEmail(ctx context.Context, r DraftRequest) (*model.Envelope[model.EmailContent], error) {
	if strings.TrimSpace(r.RecipientName) == "" {
		return nil, invalidInput("recipient name is required")
	}
	if strings.TrimSpace(r.CompanyName) == "" {
		return nil, invalidInput("company name is required")
	}

	lang := fallback.LanguageCode(r.Language)
	pr := prompt.EmailContent(prompt.DraftParams{
		RecipientName:    r.RecipientName,
		RecipientTitle:   r.RecipientTitle,
		CompanyName:      r.CompanyName,
		JobTitle:         r.JobTitle,
		SenderName:       r.SenderName,
		SenderBackground: r.SenderBackground,
		Language:         r.Language,
		Tone:             r.Tone,
	})
	p := plan[model.EmailContent]{
		kind:  model.KindEmailContent,
		label: "email generation",
		standard: &path{
			timeout: s.settings.Timeouts.EmailContent,
			call: func(ctx context.Context) (*provider.Response, error) {
				return s.provider.Complete(ctx, provider.CompletionRequest{System: pr.System, Prompt: pr.User})
			},
		},
		parse: func(resp *provider.Response, _ model.Source) []model.EmailContent {
			c, ok := normalize.EmailContent(resp.Text, s.settings.MinEmailBody)
			if !ok {
				return nil
			}
			c.Language = lang
			return []model.EmailContent{c}
		},
		fallback: func() []model.EmailContent {
			return []model.EmailContent{fallback.EmailTemplate(lang, fallback.TemplateData{
				RecipientName: r.RecipientName,
				CompanyName:   r.CompanyName,
				JobTitle:      r.JobTitle,
				SenderName:    r.SenderName,
			})}
		},
	}

	env := run(ctx, s, p)
	record(ctx, s, model.KindEmailContent, r, env)
	return env, nil
}
