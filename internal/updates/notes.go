package updates

import (
	"strings"

	"golang.org/x/net/html"
)

// blockTags are elements that force a line break in the plain-text
// rendering of a release-notes fragment.
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "br": true,
	"h1": true, "h2": true, "h3": true, "h4": true,
	"ul": true, "ol": true, "tr": true,
}

// SanitizeHTML converts a release-notes HTML fragment into plain text
// suitable for terminals and notifications. Script and style contents
// are dropped, block elements become newlines, and runs of whitespace
// collapse to single spaces.
//
// Malformed HTML is handled gracefully: the parser never fails on
// fragments, so the worst case is slightly odd text.
func SanitizeHTML(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		// html.Parse only errors on reader failure, which cannot
		// happen with strings.Reader. Return the input stripped of
		// angle brackets as a safety net.
		return strings.NewReplacer("<", "", ">", "").Replace(fragment)
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
			if blockTags[n.Data] {
				sb.WriteByte('\n')
			}
		case html.TextNode:
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return collapseWhitespace(sb.String())
}

// collapseWhitespace trims lines, collapses intra-line whitespace,
// and drops blank lines. Notification surfaces have no room for
// vertical spacing.
func collapseWhitespace(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
