package analyzer

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	scriptPattern     = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	stylePattern      = regexp.MustCompile(`(?is)<style\b.*?</style>`)
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// ExtractText strips markup from raw HTML and bounds the result for a single
// model prompt. Deliberately a best-effort regex strip, not a tree parse:
// malformed markup degrades prompt quality only, never control flow.
func ExtractText(html string, maxChars int) string {
	text := scriptPattern.ReplaceAllString(html, "")
	text = stylePattern.ReplaceAllString(text, "")
	text = tagPattern.ReplaceAllString(text, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	if len(text) > maxChars {
		text = text[:maxChars]
	}

	return text
}

// ExtractTitle pulls the page title for prompt context, falling back to the
// first h1 heading.
func ExtractTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "Untitled"
	}

	title := doc.Find("title").First().Text()
	if title == "" {
		title = doc.Find("h1").First().Text()
	}
	if title == "" {
		title = "Untitled"
	}

	return strings.TrimSpace(title)
}
