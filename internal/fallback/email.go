// Package fallback produces deterministic, non-AI answers used when every
// provider path has failed.
package fallback

import (
	"strings"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/textutil"
)

// GuessConfidence is the fixed confidence of a pattern-based guess.
const GuessConfidence = 0.75

// FormatFirstDotLast is the format reported for pattern-based guesses.
const FormatFirstDotLast = "first.last"

const defaultDomain = "company.com"

// Professional-services firms whose domains cannot be derived from the name.
var knownDomains = map[string]string{
	"pwc":                         "pwc.com",
	"pricewaterhousecoopers":      "pwc.com",
	"deloitte":                    "deloitte.com",
	"ey":                          "ey.com",
	"ernst young":                 "ey.com",
	"kpmg":                        "kpmg.com",
	"accenture":                   "accenture.com",
	"mckinsey":                    "mckinsey.com",
	"mckinsey company":            "mckinsey.com",
	"bcg":                         "bcg.com",
	"boston consulting group":     "bcg.com",
	"the boston consulting group": "bcg.com",
	"bain":                        "bain.com",
	"bain company":                "bain.com",
	"capgemini":                   "capgemini.com",
}

var legalSuffixes = map[string]bool{
	"inc": true, "incorporated": true, "llc": true, "llp": true, "ltd": true,
	"limited": true, "corp": true, "corporation": true, "co": true,
	"company": true, "sa": true, "sas": true, "sasu": true, "sarl": true,
	"gmbh": true, "ag": true, "plc": true, "bv": true, "nv": true,
	"srl": true, "spa": true, "sl": true, "ab": true, "oy": true,
	"group": true, "groupe": true, "holding": true, "holdings": true,
}

// GuessEmail builds first.last@domain from a person's name and company.
// It never fails.
func GuessEmail(fullName, company string) model.EmailGuess {
	domain := Domain(company)
	first, last := splitName(fullName)

	guess := model.EmailGuess{
		Confidence:        GuessConfidence,
		FormatType:        FormatFirstDotLast,
		AlternativeEmails: []string{},
		Source:            model.SourceFallback,
	}

	switch {
	case first == "":
		guess.Email = "contact@" + domain
		guess.FormatType = model.FormatUnknown
	case last == "":
		guess.Email = first + "@" + domain
		guess.FormatType = "first"
	default:
		guess.Email = first + "." + last + "@" + domain
		guess.AlternativeEmails = []string{
			first + last + "@" + domain,
			string([]rune(first)[:1]) + "." + last + "@" + domain,
			first + "@" + domain,
		}
	}
	return guess
}

// Domain derives a likely email domain from a company name.
func Domain(company string) string {
	words := textutil.Words(company)
	if len(words) == 0 {
		return defaultDomain
	}
	if len(words) > 1 && words[0] == "the" {
		words = words[1:]
	}
	// Known firms are matched before and after each suffix is removed:
	// "group" is both a legal suffix and part of "boston consulting group".
	for {
		if d, ok := knownDomains[strings.Join(words, " ")]; ok {
			return d
		}
		if len(words) == 1 || !legalSuffixes[words[len(words)-1]] {
			break
		}
		words = words[:len(words)-1]
	}
	if d, ok := knownDomains[words[0]]; ok {
		return d
	}
	return strings.Join(words, "") + ".com"
}

// splitName returns the first and last name tokens, lowercased and
// diacritic-free. Hyphenated and particle last names are joined.
func splitName(fullName string) (string, string) {
	fields := strings.Fields(fullName)
	clean := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.Join(textutil.Words(f), "")
		if w != "" {
			clean = append(clean, w)
		}
	}
	switch len(clean) {
	case 0:
		return "", ""
	case 1:
		return clean[0], ""
	default:
		return clean[0], strings.Join(clean[1:], "")
	}
}
