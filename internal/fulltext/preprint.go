// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fulltext

import (
	"context"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/pdiddy/scicover/internal/extract"
)

var arxivID = regexp.MustCompile(`(\d{4}\.\d{4,5})(v\d+)?`)

const (
	arxivBody    = "article, .ltx_page_content, .ltx_document"
	biorxivBody  = ".article.fulltext-view, #content-block, .highwire-article-body"
	ssrnAbstract = ".abstract-text, #abstract"
)

// fetchArxiv tries the rendered HTML paper, then the abstract page, then
// the export API entry for the identifier in url.
func (f *Fetcher) fetchArxiv(ctx context.Context, url string) (string, string, bool) {
	id := arxivID.FindString(url)
	if id == "" {
		f.logger.Debug("no arXiv identifier", "url", url)
		return "", "", false
	}

	if doc, ok := f.pages.GetDocument(ctx, f.cfg.ArxivBase+"/html/"+id); ok {
		if text := firstBlock(doc, arxivBody); f.longEnough(text) {
			return text, "arxiv-html", true
		}
	}
	if doc, ok := f.pages.GetDocument(ctx, f.cfg.ArxivBase+"/abs/"+id); ok {
		if text := firstBlock(doc, ".abstract"); text != "" {
			return text, "arxiv-abstract", true
		}
	}
	if text := f.arxivAPISummary(ctx, id); text != "" {
		return text, "arxiv-api", true
	}
	return "", "", false
}

// arxivAPISummary reads the Atom entry for id from the export API.
func (f *Fetcher) arxivAPISummary(ctx context.Context, id string) string {
	body, ok := f.pages.GetText(ctx, f.cfg.ArxivExportBase+"/api/query?id_list="+id)
	if !ok {
		return ""
	}
	feed, err := gofeed.NewParser().ParseString(body)
	if err != nil {
		f.logger.Debug("parsing arXiv feed", "id", id, "error", err)
		return ""
	}
	for _, item := range feed.Items {
		summary := extract.CleanBlock(item.Description)
		if summary == "" {
			summary = extract.CleanBlock(item.Content)
		}
		if summary == "" {
			continue
		}
		if title := extract.CleanText(item.Title); title != "" {
			return title + "\n\n" + summary
		}
		return summary
	}
	return ""
}

// fetchBiorxiv reads the ".full" view of a bioRxiv or medRxiv preprint.
func (f *Fetcher) fetchBiorxiv(ctx context.Context, url string) (string, string, bool) {
	full := strings.TrimRight(url, "/")
	if !strings.HasSuffix(full, ".full") {
		full += ".full"
	}
	doc, ok := f.pages.GetDocument(ctx, full)
	if !ok {
		return "", "", false
	}
	text := firstBlock(doc, biorxivBody)
	if !f.longEnough(text) {
		return "", "", false
	}
	return text, "biorxiv", true
}

// fetchSSRN reads the abstract block; SSRN bodies are rarely public.
func (f *Fetcher) fetchSSRN(ctx context.Context, url string) (string, string, bool) {
	doc, ok := f.pages.GetDocument(ctx, url)
	if !ok {
		return "", "", false
	}
	text := firstBlock(doc, ssrnAbstract)
	if text == "" {
		return "", "", false
	}
	return text, "ssrn", true
}
