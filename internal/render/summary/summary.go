// Package summary flattens the HTML fragments servers put in article
// summaries and descriptions into single-line plain text for list rows.
package summary

import (
	"strings"

	nethtml "golang.org/x/net/html"
)

// Flatten strips markup from an HTML fragment and collapses whitespace.
// Script and style contents are dropped. If the fragment cannot be parsed
// the input is returned with whitespace collapsed.
func Flatten(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	doc, err := nethtml.Parse(strings.NewReader("<html><body>" + fragment + "</body></html>"))
	if err != nil {
		return collapse(fragment)
	}

	var b strings.Builder
	collectText(doc, &b)
	return collapse(b.String())
}

func collectText(n *nethtml.Node, b *strings.Builder) {
	if n.Type == nethtml.ElementNode {
		switch n.Data {
		case "script", "style":
			return
		case "br", "p", "div", "li":
			b.WriteByte(' ')
		}
	}
	if n.Type == nethtml.TextNode {
		b.WriteString(n.Data)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, b)
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to at most max runes, appending an ellipsis when it
// cuts.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return strings.Repeat(".", max)
	}
	return string(runes[:max-3]) + "..."
}
