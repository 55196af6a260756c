// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal scrapes the current (or a given) issue of each
// supported journal and returns its cover story as a RawRecord. Every
// journal is a Profile of locator cascades run by one shared scraper.
package journal

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/scicover/internal/extract"
	"github.com/pdiddy/scicover/pkg/types"
)

// Source scrapes one journal. Both methods return (nil, false) when no
// usable record could be produced; they never return errors.
type Source interface {
	Name() string
	Slug() string
	ScrapeCurrentIssue(ctx context.Context) (*types.RawRecord, bool)
	ScrapeIssue(ctx context.Context, volume, issue string) (*types.RawRecord, bool)
}

// Profile describes where a journal's pages live and how to read them.
type Profile struct {
	// Name is the journal name written into records (e.g. "Science").
	Name string

	// Slug is the short identifier used in config and on the command line.
	Slug string

	// Aliases are extra lookup names accepted by the registry.
	Aliases []string

	// BaseURL is the site root, e.g. "https://www.science.org".
	BaseURL string

	// CurrentPaths are tried in order until one yields a record.
	CurrentPaths []string

	// IssuePath is a format string taking volume and issue.
	IssuePath string

	// RequireCover drops the record when no cover image was found.
	RequireCover bool

	// Preprints lists the repository domains searched on the article page.
	Preprints []string

	Listing ListingRules
	Article ArticleRules
}

// ListingRules are the cascades applied to the table-of-contents page.
type ListingRules struct {
	Volume []extract.Locator
	Issue  []extract.Locator
	Date   []extract.Locator

	// CoverImages are CSS selectors for the cover <img>, most specific first.
	CoverImages []string

	// CoverCredit is evaluated against the chosen <img>; the alt text is
	// the final fallback.
	CoverCredit []extract.Locator

	CoverDescription []extract.Locator
	LeadURL          []extract.Locator
	LeadTitle        []extract.Locator
}

// ArticleRules are the cascades applied to the lead article page.
type ArticleRules struct {
	Title    []extract.Locator
	Authors  []extract.ListLocator
	Abstract []extract.Locator
	DOI      []extract.Locator
	Pages    []extract.Locator

	// Volume, Issue and Date fill gaps left by the listing page.
	Volume []extract.Locator
	Issue  []extract.Locator
	Date   []extract.Locator

	// CoverImages are used when the listing page had no cover.
	CoverImages []string
}

// CurrentURLs returns the absolute current-issue URLs in try order.
func (p Profile) CurrentURLs() []string {
	out := make([]string, 0, len(p.CurrentPaths))
	for _, path := range p.CurrentPaths {
		out = append(out, strings.TrimRight(p.BaseURL, "/")+path)
	}
	return out
}

// IssueURL returns the absolute URL of a back issue.
func (p Profile) IssueURL(volume, issue string) string {
	return strings.TrimRight(p.BaseURL, "/") + fmt.Sprintf(p.IssuePath, volume, issue)
}

// --- locator helpers shared by the profiles ---

// volumeIn reads a volume number out of the text found by loc.
func volumeIn(loc extract.Locator) extract.Locator {
	return extract.Map(loc, func(s string) string {
		v, _ := extract.VolumeIssue(s)
		return v
	})
}

// issueIn reads an issue number out of the text found by loc.
func issueIn(loc extract.Locator) extract.Locator {
	return extract.Map(loc, func(s string) string {
		_, i := extract.VolumeIssue(s)
		return i
	})
}

// timeDatetime reads the date portion of the first <time datetime>.
func timeDatetime() extract.Locator {
	return extract.Map(extract.Attr("time[datetime]", "datetime"), extract.ISODatePrefix)
}

// metaDate parses a citation date meta tag such as "2025/06/20".
func metaDate(name string) extract.Locator {
	return extract.DateLocator(extract.Meta(name))
}

// metaPages joins citation_firstpage and citation_lastpage when both exist.
func metaPages() extract.Locator {
	return func(sel *goquery.Selection) string {
		first := extract.First(sel, extract.Meta("citation_firstpage"))
		last := extract.First(sel, extract.Meta("citation_lastpage"))
		if first == "" || last == "" {
			return ""
		}
		return first + "-" + last
	}
}

// mentioning finds the first element matching selector whose lower-cased
// text satisfies match.
func mentioning(selector string, match func(lower string) bool) func(*goquery.Selection) *goquery.Selection {
	return func(sel *goquery.Selection) *goquery.Selection {
		var found *goquery.Selection
		sel.Find(selector).EachWithBreak(func(_ int, el *goquery.Selection) bool {
			if match(strings.ToLower(el.Text())) {
				found = el
				return false
			}
			return true
		})
		return found
	}
}

// textOf returns the text of the element found by find.
func textOf(find func(*goquery.Selection) *goquery.Selection) extract.Locator {
	return func(sel *goquery.Selection) string {
		if el := find(sel); el != nil {
			return el.Text()
		}
		return ""
	}
}

// linkIn returns the href of the first linkSelector inside the element
// found by find.
func linkIn(find func(*goquery.Selection) *goquery.Selection, linkSelector string) extract.Locator {
	return func(sel *goquery.Selection) string {
		if el := find(sel); el != nil {
			return el.Find(linkSelector).First().AttrOr("href", "")
		}
		return ""
	}
}

// linkTextIn returns the text of the first linkSelector inside the
// element found by find.
func linkTextIn(find func(*goquery.Selection) *goquery.Selection, linkSelector string) extract.Locator {
	return func(sel *goquery.Selection) string {
		if el := find(sel); el != nil {
			return el.Find(linkSelector).First().Text()
		}
		return ""
	}
}

// hrefOf returns the href of the first element matching selector.
func hrefOf(selector string) extract.Locator {
	return extract.Attr(selector, "href")
}

// containsAny reports whether s contains at least one word.
func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
