package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var htmlTagRe = regexp.MustCompile(`(?i)<(p|br|div|ul|ol|li|h[1-6]|strong|b|em|i|a|span)[\s/>]`)

// LooksLikeHTML reports whether text carries HTML markup.
func LooksLikeHTML(text string) bool {
	return htmlTagRe.MatchString(text)
}

// PlainText renders an HTML fragment as plain text: block elements become
// paragraphs, <br> a line break and list items "- " lines. Text without
// markup is returned unchanged.
func PlainText(text string) string {
	if !LooksLikeHTML(text) {
		return text
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return text
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("- ")
		s.AppendHtml("\n")
	})
	doc.Find("p, div, ul, ol, h1, h2, h3, h4, h5, h6").AppendHtml("\n\n")

	var paras []string
	var cur []string
	for _, line := range strings.Split(doc.Find("body").Text(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			cur = append(cur, line)
			continue
		}
		if len(cur) > 0 {
			paras = append(paras, strings.Join(cur, "\n"))
			cur = nil
		}
	}
	if len(cur) > 0 {
		paras = append(paras, strings.Join(cur, "\n"))
	}
	return strings.Join(paras, "\n\n")
}
