package parse

import (
	"regexp"
	"strings"
)

// Gemini activity answers arrive as small HTML fragments. The transforms
// below run in a fixed order: structural tags become Markdown-ish text,
// every remaining tag is stripped, then entities are decoded.
var (
	brTagRe      = regexp.MustCompile(`(?i)<br\s*/?>`)
	pTagRe       = regexp.MustCompile(`(?i)</?p(\s[^>]*)?>`)
	liOpenRe     = regexp.MustCompile(`(?i)<li(\s[^>]*)?>`)
	liCloseRe    = regexp.MustCompile(`(?i)</li>`)
	headOpenRe   = regexp.MustCompile(`(?i)<h[1-6](\s[^>]*)?>`)
	headCloseRe  = regexp.MustCompile(`(?i)</h[1-6]>`)
	hrTagRe      = regexp.MustCompile(`(?i)<hr(\s[^>]*)?/?>`)
	anyTagRe     = regexp.MustCompile(`<[^>]+>`)
	blankRunsRe  = regexp.MustCompile(`\n{3,}`)
	htmlEntities = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&amp;", "&",
		"&quot;", `"`,
		"&#39;", "'",
	)
)

// htmlToText flattens an HTML fragment into plain text suitable for a
// Markdown body. Lists keep a leading "- ", every heading level becomes
// "### ", and entities are decoded after tags are gone.
func htmlToText(fragment string) string {
	if fragment == "" {
		return ""
	}
	s := brTagRe.ReplaceAllString(fragment, "\n")
	s = pTagRe.ReplaceAllString(s, "\n")
	s = liOpenRe.ReplaceAllString(s, "- ")
	s = liCloseRe.ReplaceAllString(s, "\n")
	s = headOpenRe.ReplaceAllString(s, "### ")
	s = headCloseRe.ReplaceAllString(s, "\n")
	s = hrTagRe.ReplaceAllString(s, "\n---\n")
	s = anyTagRe.ReplaceAllString(s, "")
	s = htmlEntities.Replace(s)
	s = blankRunsRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
