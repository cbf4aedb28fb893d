package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sells-group/outreach-cli/internal/extract"
	"github.com/sells-group/outreach-cli/internal/model"
)

// DefaultGuessConfidence is used when the provider omits a confidence score.
const DefaultGuessConfidence = 0.5

var emailAliases = Aliases{
	"email":             {"email", "emailAddress", "email_address", "address", "mostLikelyEmail", "most_likely_email"},
	"confidence":        {"confidence", "confidenceScore", "confidence_score", "probability"},
	"formatType":        {"formatType", "format_type", "format", "pattern"},
	"alternativeEmails": {"alternativeEmails", "alternative_emails", "alternatives", "otherEmails", "other_emails"},
}

var contentAliases = Aliases{
	"subject": {"subject", "subjectLine", "subject_line"},
	"body":    {"body", "emailBody", "email_body", "content", "message"},
}

var (
	subjectLineRe = regexp.MustCompile(`(?im)^[ \t]*[*_#]*[ \t]*(?:subject|objet|asunto|betreff|oggetto)[ \t]*[*_]*[ \t]*:[ \t]*[*_]*[ \t]*(.+?)[ \t]*$`)
	bodyLabelRe   = regexp.MustCompile(`(?i)^[*_]*(?:body|corps|cuerpo|text|message)[*_]*[ \t]*:[ \t]*`)
	fenceLineRe   = regexp.MustCompile("(?m)^```[a-zA-Z]*[ \t]*$")
)

// EmailGuess validates and normalizes one raw guess. It reports false when
// no usable address can be found in the record.
func EmailGuess(raw map[string]any) (model.EmailGuess, bool) {
	c := Canonicalize(raw, emailAliases)

	email := strings.ToLower(str(c["email"]))
	if !extract.IsEmail(email) {
		found := extract.Emails(email)
		if len(found) == 0 {
			return model.EmailGuess{}, false
		}
		email = found[0]
	}

	confidence := DefaultGuessConfidence
	if f, ok := num(c["confidence"]); ok {
		confidence = Clamp01(f)
	}

	format := str(c["formatType"])
	if format == "" {
		format = model.FormatUnknown
	}

	alternatives := []string{}
	for _, alt := range strSlice(c["alternativeEmails"]) {
		alt = strings.ToLower(alt)
		if alt != email && extract.IsEmail(alt) {
			alternatives = append(alternatives, alt)
		}
	}

	return model.EmailGuess{
		Email:             email,
		Confidence:        confidence,
		FormatType:        format,
		AlternativeEmails: alternatives,
		Source:            model.SourceAIGenerated,
	}, true
}

// EmailContent splits a drafted email into subject and body. It accepts the
// "Subject: ...\n\n<body>" convention or a JSON object with subject/body, and
// reports false when either part is missing or the body is shorter than
// minBody runes.
func EmailContent(text string, minBody int) (model.EmailContent, bool) {
	if obj := extract.JSONObject(text); obj != nil {
		c := Canonicalize(obj, contentAliases)
		subject, body := str(c["subject"]), str(c["body"])
		if subject != "" && body != "" {
			return checkContent(subject, body, minBody)
		}
	}

	text = strings.TrimSpace(fenceLineRe.ReplaceAllString(text, ""))
	loc := subjectLineRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return model.EmailContent{}, false
	}
	subject := strings.Trim(text[loc[2]:loc[3]], "*_\"' \r")
	body := strings.TrimSpace(text[loc[1]:])
	body = strings.TrimSpace(bodyLabelRe.ReplaceAllString(body, ""))
	return checkContent(subject, body, minBody)
}

func checkContent(subject, body string, minBody int) (model.EmailContent, bool) {
	ec := model.EmailContent{Subject: subject, Body: extract.PlainText(body)}
	return ec, subject != "" && utf8.RuneCountInString(ec.Body) >= minBody
}
