// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/scicover/internal/extract"
	"github.com/pdiddy/scicover/internal/httputil"
	"github.com/pdiddy/scicover/pkg/types"
)

// scraper runs a Profile against live pages.
type scraper struct {
	profile Profile
	fetch   httputil.Fetcher
	logger  *slog.Logger
}

// New returns a Source for p that fetches pages through fetch.
func New(p Profile, fetch httputil.Fetcher, logger *slog.Logger) Source {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &scraper{profile: p, fetch: fetch, logger: logger.With("journal", p.Name)}
}

func (s *scraper) Name() string { return s.profile.Name }
func (s *scraper) Slug() string { return s.profile.Slug }

// ScrapeCurrentIssue tries each current-issue URL in order.
func (s *scraper) ScrapeCurrentIssue(ctx context.Context) (*types.RawRecord, bool) {
	for i, u := range s.profile.CurrentURLs() {
		if i > 0 {
			s.logger.Info("falling back", "url", u)
		}
		if raw, ok := s.scrapeListing(ctx, u); ok {
			return raw, true
		}
	}
	return nil, false
}

// ScrapeIssue scrapes a specific back issue.
func (s *scraper) ScrapeIssue(ctx context.Context, volume, issue string) (*types.RawRecord, bool) {
	s.logger.Info("scraping issue", "volume", volume, "issue", issue)
	raw, ok := s.scrapeListing(ctx, s.profile.IssueURL(volume, issue))
	if !ok {
		return nil, false
	}
	if raw.Volume == "" {
		raw.Volume = volume
	}
	if raw.Issue == "" {
		raw.Issue = issue
	}
	return raw, true
}

func (s *scraper) scrapeListing(ctx context.Context, listingURL string) (*types.RawRecord, bool) {
	s.logger.Debug("fetching listing", "url", listingURL)
	doc, ok := s.fetch.GetDocument(ctx, listingURL)
	if !ok {
		s.logger.Warn("listing page unavailable", "url", listingURL)
		return nil, false
	}
	sel := doc.Selection
	rules := s.profile.Listing
	raw := types.NewRawRecord(s.profile.Name)

	raw.Volume = extract.First(sel, rules.Volume...)
	raw.Issue = extract.First(sel, rules.Issue...)
	raw.Date = extract.First(sel, rules.Date...)
	raw.CoverImageURL, raw.CoverImageCredit = coverImage(sel, listingURL, rules.CoverImages, rules.CoverCredit)
	raw.CoverDescription = extract.First(sel, rules.CoverDescription...)
	raw.ArticleURL = extract.AbsURL(listingURL, extract.First(sel, rules.LeadURL...))
	raw.ArticleTitle = extract.First(sel, rules.LeadTitle...)

	if raw.ArticleURL != "" {
		s.enrichFromArticle(ctx, raw)
	} else {
		s.logger.Warn("no lead article link found", "url", listingURL)
	}

	if s.profile.RequireCover && raw.CoverImageURL == "" {
		s.logger.Warn("no cover image found, dropping record", "url", listingURL)
		return nil, false
	}

	s.logger.Info("scraped issue", "volume", raw.Volume, "issue", raw.Issue, "date", raw.Date, "title", raw.ArticleTitle)
	return raw, true
}

// enrichFromArticle fills article fields from the lead article page.
// A failed fetch leaves the listing-page values in place.
func (s *scraper) enrichFromArticle(ctx context.Context, raw *types.RawRecord) {
	doc, ok := s.fetch.GetDocument(ctx, raw.ArticleURL)
	if !ok {
		s.logger.Warn("article page unavailable", "url", raw.ArticleURL)
		return
	}
	sel := doc.Selection
	rules := s.profile.Article

	if v := extract.First(sel, rules.Title...); v != "" {
		raw.ArticleTitle = v
	}
	raw.AddAuthors(extract.All(sel, rules.Authors...)...)
	if v := extract.First(sel, rules.Abstract...); v != "" {
		raw.ArticleAbstract = v
	}
	if v := extract.First(sel, rules.DOI...); v != "" {
		raw.ArticleDOI = extract.DOIFromHref(v)
		if raw.ArticleDOI == "" {
			raw.ArticleDOI = v
		}
	}
	if v := extract.First(sel, rules.Pages...); v != "" {
		raw.ArticlePages = v
	}
	raw.PreprintURL = safeString(func() string { return extract.FindPreprintURL(sel, s.profile.Preprints) })

	fill(&raw.Volume, sel, rules.Volume)
	fill(&raw.Issue, sel, rules.Issue)
	fill(&raw.Date, sel, rules.Date)
	if raw.CoverImageURL == "" && len(rules.CoverImages) > 0 {
		raw.CoverImageURL, raw.CoverImageCredit = coverImage(sel, raw.ArticleURL, rules.CoverImages, nil)
	}
}

// fill sets *dst from the cascade when it is still empty.
func fill(dst *string, sel *goquery.Selection, locators []extract.Locator) {
	if *dst == "" {
		*dst = extract.First(sel, locators...)
	}
}

// coverImage finds the first <img> matching selectors (in order) with a
// usable source and returns its absolute URL and credit.
func coverImage(sel *goquery.Selection, pageURL string, selectors []string, credit []extract.Locator) (string, string) {
	var img *goquery.Selection
	var src string
	for _, s := range selectors {
		sel.Find(s).EachWithBreak(func(_ int, el *goquery.Selection) bool {
			if v := imgSource(el); v != "" {
				img, src = el, v
				return false
			}
			return true
		})
		if img != nil {
			break
		}
	}
	if img == nil {
		return "", ""
	}
	locs := append(append([]extract.Locator{}, credit...), altOf)
	return extract.AbsURL(pageURL, src), extract.First(img, locs...)
}

// altOf reads the alt attribute of the selection itself.
func altOf(sel *goquery.Selection) string {
	return sel.AttrOr("alt", "")
}

// imgSource returns src, data-src, or the first srcset candidate.
func imgSource(el *goquery.Selection) string {
	for _, a := range []string{"src", "data-src"} {
		if v := strings.TrimSpace(el.AttrOr(a, "")); v != "" {
			return v
		}
	}
	if set := strings.TrimSpace(el.AttrOr("srcset", "")); set != "" {
		if f := strings.Fields(strings.Split(set, ",")[0]); len(f) > 0 {
			return f[0]
		}
	}
	return ""
}

func safeString(fn func() string) (v string) {
	defer func() {
		if recover() != nil {
			v = ""
		}
	}()
	return fn()
}
