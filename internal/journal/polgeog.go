// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"github.com/pdiddy/scicover/internal/extract"
)

// PoliticalGeographyProfile reads the journal on ScienceDirect. It has no
// cover art, so the lead article's graphical abstract stands in for one.
// The current volume is tried first, then articles in press.
func PoliticalGeographyProfile(baseURL string) Profile {
	const (
		header  = ".js-issue-status, .issue-heading, h2[class*='issue'], .u-text-bold"
		journal = "/journal/political-geography"
	)
	return Profile{
		Name:         "Political Geography",
		Slug:         "polgeog",
		Aliases:      []string{"political geography"},
		BaseURL:      orDefault(baseURL, "https://www.sciencedirect.com"),
		CurrentPaths: []string{journal + "/vol/latest", journal + "/articles-in-press"},
		IssuePath:    journal + "/vol/%s/issue/%s",
		RequireCover: false,
		Preprints:    extract.AllPreprints,
		Listing: ListingRules{
			Volume: []extract.Locator{volumeIn(extract.Text(header)), extract.Meta("citation_volume")},
			Issue:  []extract.Locator{issueIn(extract.Text(header)), extract.Meta("citation_issue")},
			Date: []extract.Locator{
				extract.DateLocator(extract.Text(header)),
				metaDate("citation_publication_date"),
			},
			CoverImages: []string{
				"img[src*='graphical-abstract'], img[src*='fx1'], img[class*='graphical'], .graphical-abstract img",
			},
			LeadURL: []extract.Locator{
				hrefOf(".js-article-list-item a.result-list-title-link, a[class*='article-content-title'], dt.article-content a, .article-list-item a[href*='/science/article/']"),
				extract.LinkMatching("a[href]", "/science/article/pii/"),
			},
			LeadTitle: []extract.Locator{
				extract.Text(".js-article-list-item a.result-list-title-link, a[class*='article-content-title'], dt.article-content a, .article-list-item a[href*='/science/article/']"),
				extract.Text("a[href*='/science/article/pii/']"),
			},
		},
		Article: ArticleRules{
			Title: []extract.Locator{
				extract.Text("h1.article-title, span.title-text"),
				extract.Meta("citation_title"),
				extract.MetaProperty("og:title"),
			},
			Authors: []extract.ListLocator{
				extract.TextsOf(".author-group a.author, .author span.text"),
				extract.MetaAll("citation_author"),
			},
			Abstract: []extract.Locator{
				extract.LongText(".abstract, #abstracts, [id*='abstract'], .Abstracts, div[class*='abstract']"),
			},
			DOI: []extract.Locator{
				extract.Meta("citation_doi"),
				extract.DOILink("a[href*='doi.org/10.']"),
			},
			Pages:  []extract.Locator{metaPages()},
			Volume: []extract.Locator{extract.Meta("citation_volume")},
			Issue:  []extract.Locator{extract.Meta("citation_issue")},
			Date:   []extract.Locator{metaDate("citation_publication_date")},
			CoverImages: []string{
				"img[src*='fx1'], .graphical-abstract img, img[alt*='Graphical abstract'], figure img[src*='gr1']",
			},
		},
	}
}
