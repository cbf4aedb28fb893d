package fallback

import (
	"bytes"
	_ "embed"
	"strings"
	"sync"
	"text/template"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/textutil"
)

//go:embed templates.yaml
var templatesYAML []byte

// TemplateData fills the placeholders of a canned email.
type TemplateData struct {
	RecipientName string
	CompanyName   string
	JobTitle      string
	SenderName    string
}

type cannedEmail struct {
	Subject string `yaml:"subject"`
	Body    string `yaml:"body"`
}

var supported = []language.Tag{language.English, language.French, language.Spanish, language.German}

var (
	matcher = language.NewMatcher(supported)

	// Language names users type instead of codes.
	languageNames = map[string]string{
		"english": "en", "anglais": "en", "ingles": "en", "englisch": "en",
		"french": "fr", "francais": "fr", "frances": "fr", "franzosisch": "fr",
		"spanish": "es", "espanol": "es", "espagnol": "es", "spanisch": "es",
		"german": "de", "deutsch": "de", "allemand": "de", "aleman": "de",
	}

	loadOnce sync.Once
	canned   map[string]cannedEmail
	loadErr  error
)

func loadTemplates() (map[string]cannedEmail, error) {
	loadOnce.Do(func() {
		if err := yaml.Unmarshal(templatesYAML, &canned); err != nil {
			loadErr = eris.Wrap(err, "fallback: parse email templates")
		}
	})
	return canned, loadErr
}

// LanguageCode resolves a language name or BCP 47 tag to one of the
// supported template languages, defaulting to English.
func LanguageCode(lang string) string {
	folded := textutil.Fold(lang)
	if folded == "" {
		return "en"
	}
	if code, ok := languageNames[folded]; ok {
		return code
	}
	tag, err := language.Parse(folded)
	if err != nil {
		return "en"
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return "en"
	}
	base, _ := supported[idx].Base()
	return base.String()
}

// EmailTemplate renders the canned email for lang. Unknown languages use
// English.
func EmailTemplate(lang string, data TemplateData) model.EmailContent {
	code := LanguageCode(lang)
	if data.CompanyName == "" {
		data.CompanyName = companyPlaceholder[code]
	}
	if data.JobTitle == "" {
		data.JobTitle = jobPlaceholder[code]
	}

	out := model.EmailContent{Language: code}
	templates, err := loadTemplates()
	if err != nil {
		return out
	}
	t, ok := templates[code]
	if !ok {
		t = templates["en"]
	}
	out.Subject = render(t.Subject, data)
	out.Body = strings.TrimSpace(render(t.Body, data))
	return out
}

var companyPlaceholder = map[string]string{
	"en": "your company", "fr": "votre entreprise", "es": "su empresa", "de": "Ihrem Unternehmen",
}

var jobPlaceholder = map[string]string{
	"en": "career", "fr": "carrière", "es": "carrera", "de": "Karriere",
}

func render(text string, data TemplateData) string {
	tmpl, err := template.New("email").Parse(text)
	if err != nil {
		return text
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return text
	}
	return buf.String()
}
