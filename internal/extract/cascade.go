// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract implements field extraction over parsed HTML as ordered
// cascades of locators. A locator is a pure function from a document to a
// candidate value; a cascade returns the first non-empty candidate.
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Locator yields a candidate value for one field, or "" if it finds nothing.
type Locator func(sel *goquery.Selection) string

// ListLocator yields candidate values for a list-valued field.
type ListLocator func(sel *goquery.Selection) []string

// First evaluates locators left to right and returns the first non-empty
// result after whitespace normalization. Later locators are not evaluated
// once one succeeds. A locator that panics counts as empty.
func First(sel *goquery.Selection, locators ...Locator) string {
	if sel == nil {
		return ""
	}
	for _, loc := range locators {
		if v := CleanText(safeCall(loc, sel)); v != "" {
			return v
		}
	}
	return ""
}

// All evaluates list locators left to right and returns the values from
// the first one that yields any non-empty value, de-duplicated in order.
func All(sel *goquery.Selection, locators ...ListLocator) []string {
	if sel == nil {
		return nil
	}
	for _, loc := range locators {
		vals := dedupe(safeCallList(loc, sel))
		if len(vals) > 0 {
			return vals
		}
	}
	return nil
}

func safeCall(loc Locator, sel *goquery.Selection) (v string) {
	defer func() {
		if recover() != nil {
			v = ""
		}
	}()
	return loc(sel)
}

func safeCallList(loc ListLocator, sel *goquery.Selection) (v []string) {
	defer func() {
		if recover() != nil {
			v = nil
		}
	}()
	return loc(sel)
}

func dedupe(vals []string) []string {
	seen := make(map[string]bool, len(vals))
	var out []string
	for _, v := range vals {
		v = CleanText(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// Text tries each selector in turn and returns the text of the first
// matching element whose text is non-empty.
func Text(selectors ...string) Locator {
	return func(sel *goquery.Selection) string {
		for _, s := range selectors {
			var out string
			sel.Find(s).EachWithBreak(func(_ int, el *goquery.Selection) bool {
				out = CleanText(el.Text())
				return out == ""
			})
			if out != "" {
				return out
			}
		}
		return ""
	}
}

// Attr returns the first non-empty attribute among attrs on the first
// element matching selector that has one.
func Attr(selector string, attrs ...string) Locator {
	return func(sel *goquery.Selection) string {
		var out string
		sel.Find(selector).EachWithBreak(func(_ int, el *goquery.Selection) bool {
			for _, a := range attrs {
				if v, ok := el.Attr(a); ok && strings.TrimSpace(v) != "" {
					out = strings.TrimSpace(v)
					return false
				}
			}
			return true
		})
		return out
	}
}

// Meta returns the content of <meta name=name>.
func Meta(name string) Locator {
	return Attr(`meta[name="`+name+`"]`, "content")
}

// MetaProperty returns the content of <meta property=property>.
func MetaProperty(property string) Locator {
	return Attr(`meta[property="`+property+`"]`, "content")
}

// MetaAll returns the content of every <meta name=name>.
func MetaAll(name string) ListLocator {
	return func(sel *goquery.Selection) []string {
		var out []string
		sel.Find(`meta[name="` + name + `"]`).Each(func(_ int, el *goquery.Selection) {
			out = append(out, el.AttrOr("content", ""))
		})
		return out
	}
}

// TextsOf returns the text of every element matching selector.
func TextsOf(selector string) ListLocator {
	return func(sel *goquery.Selection) []string {
		return sel.Find(selector).Map(func(_ int, el *goquery.Selection) string {
			return CleanText(el.Text())
		})
	}
}

// LinkMatching returns the href of the first element matching selector
// whose href contains substr. An empty substr accepts any href.
func LinkMatching(selector, substr string) Locator {
	return func(sel *goquery.Selection) string {
		var out string
		sel.Find(selector).EachWithBreak(func(_ int, el *goquery.Selection) bool {
			href := strings.TrimSpace(el.AttrOr("href", ""))
			if href != "" && strings.Contains(href, substr) {
				out = href
				return false
			}
			return true
		})
		return out
	}
}

// Regex applies re to the output of loc and returns the given group.
func Regex(loc Locator, re *regexp.Regexp, group int) Locator {
	return func(sel *goquery.Selection) string {
		m := re.FindStringSubmatch(loc(sel))
		if len(m) <= group {
			return ""
		}
		return m[group]
	}
}

// Map transforms the output of loc with fn when it is non-empty.
func Map(loc Locator, fn func(string) string) Locator {
	return func(sel *goquery.Selection) string {
		v := loc(sel)
		if v == "" {
			return ""
		}
		return fn(v)
	}
}

// Within evaluates loc against the first element matching selector.
func Within(selector string, loc Locator) Locator {
	return func(sel *goquery.Selection) string {
		scope := sel.Find(selector).First()
		if scope.Length() == 0 {
			return ""
		}
		return loc(scope)
	}
}
