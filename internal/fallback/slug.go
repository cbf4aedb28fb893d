package fallback

import (
	"regexp"
	"strings"

	"github.com/sells-group/outreach-cli/internal/textutil"
)

var (
	slugStripRe  = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaceRe  = regexp.MustCompile(`\s+`)
	slugHyphenRe = regexp.MustCompile(`-+`)
)

// Slugify lowercases name, drops accents and punctuation, and joins words
// with single hyphens: "Acme Robotics & Co." → "acme-robotics-co".
func Slugify(name string) string {
	s := strings.ToLower(textutil.StripDiacritics(name))
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugSpaceRe.ReplaceAllString(strings.TrimSpace(s), "-")
	s = slugHyphenRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
