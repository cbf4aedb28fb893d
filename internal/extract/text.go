package extract

import (
	"regexp"
	"strings"
)

var (
	emailRe          = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	urlRe            = regexp.MustCompile(`https?://[^\s"'<>()\[\]]+`)
	linkedInCompRe   = regexp.MustCompile(`(?i)linkedin\.com/company/([a-z0-9][a-z0-9\-_.%]*)`)
	linkedInAnyURLRe = regexp.MustCompile(`(?i)^https?://([a-z]{2,3}\.)?(www\.)?linkedin\.com/`)
)

// Emails returns the addresses found in text, lowercased, deduplicated and in
// order of first appearance.
func Emails(text string) []string {
	matches := emailRe.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		m = strings.ToLower(strings.TrimRight(m, "."))
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// IsEmail reports whether s is exactly one plausible email address.
func IsEmail(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && emailRe.FindString(s) == s
}

// FirstURL returns the first http(s) URL in text, or "".
func FirstURL(text string) string {
	return strings.TrimRight(urlRe.FindString(text), ".,;")
}

// LinkedInCompanySlug returns the company slug of the first
// linkedin.com/company/<slug> reference in text.
func LinkedInCompanySlug(text string) string {
	m := linkedInCompRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.ToLower(strings.TrimRight(m[1], "."))
}

// IsLinkedInURL reports whether u points at linkedin.com.
func IsLinkedInURL(u string) bool {
	return linkedInAnyURLRe.MatchString(strings.TrimSpace(u))
}
