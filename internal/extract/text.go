// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// noiseSelector matches elements dropped before extracting long-form text.
const noiseSelector = "script, style, nav, footer, .references, .ref-list"

var multiBlank = regexp.MustCompile(`\n{3,}`)

// CleanText collapses runs of whitespace into single spaces and trims.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CleanBlock normalizes long-form text: each line is trimmed and runs of
// three or more newlines collapse to one blank line.
func CleanBlock(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	s = strings.Join(lines, "\n")
	s = multiBlank.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// BlockText returns the text of sel with noise elements removed and one
// line per text node. The document is not modified.
func BlockText(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	clone := sel.First().Clone()
	clone.Find(noiseSelector).Remove()

	var parts []string
	for _, n := range clone.Nodes {
		collectText(n, &parts)
	}
	return CleanBlock(strings.Join(parts, "\n"))
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			*parts = append(*parts, t)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// LongText returns the cleaned block text of the first element matching
// selector.
func LongText(selector string) Locator {
	return func(sel *goquery.Selection) string {
		return BlockText(sel.Find(selector).First())
	}
}
