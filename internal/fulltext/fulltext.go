// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fulltext retrieves the plain text of a cover-story article from
// preprint servers and open-access publisher pages. Retrieval is best
// effort: when nothing yields enough text the caller summarizes the
// abstract instead.
package fulltext

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/scicover/internal/extract"
	"github.com/pdiddy/scicover/internal/httputil"
	"github.com/pdiddy/scicover/pkg/types"
)

// Body containers on open-access publisher pages, most specific first.
// Only the first match is read.
const (
	sciencedirectBody = "#body, .Body, div[class*='body'], .article-body, #abstracts"
	cambridgeBody     = ".article-body, .article, [class*='article-body'], #maincontent, .body"
)

// provider fetches text from one kind of host.
type provider struct {
	name  string
	match func(url string) bool
	fetch func(ctx context.Context, url string) (text, name string, ok bool)
}

// Fetcher runs the retrieval cascade.
type Fetcher struct {
	pages  httputil.Fetcher
	api    *http.Client
	cfg    types.FullTextConfig
	logger *slog.Logger

	preprints  []provider
	publishers []provider
}

// New returns a Fetcher that reads pages through pages and calls JSON APIs
// (OpenAlex) with api. A nil api uses http.DefaultClient.
func New(pages httputil.Fetcher, api *http.Client, cfg types.FullTextConfig, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if api == nil {
		api = http.DefaultClient
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = types.DefaultMaxChars
	}
	if cfg.MinBodyChars <= 0 {
		cfg.MinBodyChars = types.DefaultMinBodyChars
	}
	cfg.ArxivBase = strings.TrimRight(orDefault(cfg.ArxivBase, types.DefaultArxivBase), "/")
	cfg.ArxivExportBase = strings.TrimRight(orDefault(cfg.ArxivExportBase, types.DefaultArxivExportBase), "/")
	cfg.OpenAlexBase = orDefault(cfg.OpenAlexBase, types.DefaultOpenAlexBase)
	if !strings.HasSuffix(cfg.OpenAlexBase, "/") {
		cfg.OpenAlexBase += "/"
	}

	f := &Fetcher{pages: pages, api: api, cfg: cfg, logger: logger}
	f.preprints = []provider{
		{name: "arxiv", match: hostIs("arxiv.org"), fetch: f.fetchArxiv},
		{name: "biorxiv", match: hostIs("biorxiv.org", "medrxiv.org"), fetch: f.fetchBiorxiv},
		{name: "ssrn", match: hostIs("ssrn.com"), fetch: f.fetchSSRN},
	}
	f.publishers = []provider{
		{name: "sciencedirect", match: hostIs("sciencedirect.com"), fetch: f.bodyFetcher("sciencedirect", sciencedirectBody)},
		{name: "cambridge", match: hostIs("cambridge.org"), fetch: f.bodyFetcher("cambridge", cambridgeBody)},
	}
	return f
}

// Fetch tries the preprint, then the article page, then an open-access
// copy found through the DOI. It returns (nil, false) when none of them
// produced text.
func (f *Fetcher) Fetch(ctx context.Context, preprintURL, articleURL, doi string) (*types.FullTextResult, bool) {
	if preprintURL != "" {
		if res, ok := f.try(ctx, f.preprints, preprintURL); ok {
			return res, true
		}
	}
	if articleURL != "" {
		if res, ok := f.try(ctx, f.publishers, articleURL); ok {
			return res, true
		}
	}
	if doi != "" {
		landing, err := f.resolveOpenAlex(ctx, doi)
		if err != nil {
			f.logger.Debug("OpenAlex lookup failed", "doi", doi, "error", err)
		} else if landing != "" && landing != articleURL {
			if res, ok := f.try(ctx, f.publishers, landing); ok {
				res.Provider = "openalex+" + res.Provider
				return res, true
			}
		}
	}
	return nil, false
}

// abstractProviders only return a preprint abstract.
var abstractProviders = map[string]bool{
	"arxiv-abstract": true,
	"arxiv-api":      true,
	"ssrn":           true,
}

// try dispatches url to the first matching provider.
func (f *Fetcher) try(ctx context.Context, providers []provider, url string) (*types.FullTextResult, bool) {
	for _, p := range providers {
		if !p.match(url) {
			continue
		}
		text, name, ok := p.fetch(ctx, url)
		if !ok {
			f.logger.Debug("no full text", "provider", p.name, "url", url)
			return nil, false
		}
		out, truncated := Truncate(text, f.cfg.MaxChars)
		f.logger.Info("got full text", "provider", name, "chars", utf8.RuneCountInString(out), "truncated", truncated)
		return &types.FullTextResult{Text: out, Provider: name, Truncated: truncated, AbstractOnly: abstractProviders[name]}, true
	}
	return nil, false
}

// bodyFetcher builds a publisher fetcher that accepts the first body
// container longer than MinBodyChars.
func (f *Fetcher) bodyFetcher(name, selector string) func(context.Context, string) (string, string, bool) {
	return func(ctx context.Context, url string) (string, string, bool) {
		doc, ok := f.pages.GetDocument(ctx, url)
		if !ok {
			return "", "", false
		}
		text := firstBlock(doc, selector)
		if !f.longEnough(text) {
			return "", "", false
		}
		return text, name, true
	}
}

func (f *Fetcher) longEnough(text string) bool {
	return utf8.RuneCountInString(text) > f.cfg.MinBodyChars
}

// firstBlock returns the cleaned text of the first element matching selector.
func firstBlock(doc *goquery.Document, selector string) string {
	el := doc.Find(selector).First()
	if el.Length() == 0 {
		return ""
	}
	return extract.BlockText(el)
}

// Truncate bounds text to max characters. When a paragraph break falls in
// the last fifth of the window the text is cut there instead of mid-paragraph.
func Truncate(text string, max int) (string, bool) {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text, false
	}
	head := string([]rune(text)[:max])
	if cut := strings.LastIndex(head, "\n\n"); cut >= 0 && float64(utf8.RuneCountInString(head[:cut])) > 0.8*float64(max) {
		return strings.TrimRight(head[:cut], " \t\r\n"), true
	}
	return strings.TrimRight(head, " \t\r\n"), true
}

// hostIs matches URLs mentioning any of the given domains.
func hostIs(domains ...string) func(string) bool {
	return func(url string) bool {
		for _, d := range domains {
			if strings.Contains(url, d) {
				return true
			}
		}
		return false
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
