package scraper

import (
	"html"
	"regexp"
	"strings"
)

var (
	titleTag    = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptTag   = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag    = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag     = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag      = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	comments    = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockTags   = regexp.MustCompile(`(?i)</?(p|div|br|hr|h[1-6]|li|tr|td|th|blockquote|pre|table|section|article|header|footer|nav)[^>]*>`)
	allTags     = regexp.MustCompile(`<[^>]+>`)
)

// ExtractText returns the readable text of an HTML page as a single line.
// Scripts, styles and markup are dropped, entities are decoded and whitespace is collapsed.
func ExtractText(page string) string {
	page = scriptTag.ReplaceAllString(page, " ")
	page = styleTag.ReplaceAllString(page, " ")
	page = noscriptTag.ReplaceAllString(page, " ")
	page = headTag.ReplaceAllString(page, " ")
	page = svgTag.ReplaceAllString(page, " ")
	page = comments.ReplaceAllString(page, " ")
	page = blockTags.ReplaceAllString(page, "\n")
	page = allTags.ReplaceAllString(page, "")
	page = html.UnescapeString(page)
	return strings.Join(strings.Fields(page), " ")
}

// ExtractTitle returns the decoded <title> of a page, or "" when there is none.
func ExtractTitle(page string) string {
	m := titleTag.FindStringSubmatch(page)
	if len(m) < 2 {
		return ""
	}
	return strings.Join(strings.Fields(html.UnescapeString(m[1])), " ")
}
