// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"github.com/pdiddy/scicover/internal/extract"
)

// AmericanSociologicalReviewProfile reads the journal on SAGE. The issue
// heading reads like "Volume 91, Issue 1, February 2026".
func AmericanSociologicalReviewProfile(baseURL string) Profile {
	const (
		header = ".journalNavTitle, .issue-header, h1[class*='issue'], .toc__heading"
		lead   = ".art_title a[href*='/doi/'], .tocArticle a[href*='/doi/'], a.ref[href*='/doi/full/'], .issue-item__title a[href*='/doi/']"
		full   = "a[href*='/doi/full/10.']"
		abs    = "a[href*='/doi/abs/10.']"
	)
	return Profile{
		Name:         "American Sociological Review",
		Slug:         "asr",
		Aliases:      []string{"american sociological review"},
		BaseURL:      orDefault(baseURL, "https://journals.sagepub.com"),
		CurrentPaths: []string{"/toc/asra/current"},
		IssuePath:    "/toc/asra/%s/%s",
		Preprints:    extract.AllPreprints,
		Listing: ListingRules{
			Volume: []extract.Locator{volumeIn(extract.Text(header)), extract.Meta("citation_volume")},
			Issue:  []extract.Locator{issueIn(extract.Text(header)), extract.Meta("citation_issue")},
			Date: []extract.Locator{
				extract.DateLocator(extract.Text(header)),
				metaDate("citation_publication_date"),
			},
			CoverImages: []string{".cover-image img, img[class*='cover'], .journal-cover img, img[src*='cover'], .toc-cover img"},
			LeadURL:     []extract.Locator{hrefOf(lead), hrefOf(full), hrefOf(abs)},
			LeadTitle:   []extract.Locator{extract.Text(lead), extract.Text(full), extract.Text(abs)},
		},
		Article: ArticleRules{
			Title: []extract.Locator{
				extract.Text("h1[property='name'], h1.article-title, .publicationContentTitle h1"),
				extract.Meta("citation_title"),
				extract.MetaProperty("og:title"),
			},
			Authors: []extract.ListLocator{
				extract.TextsOf(".entryAuthor a, .author-name, .contributors a[href*='author']"),
				extract.MetaAll("citation_author"),
			},
			Abstract: []extract.Locator{
				extract.LongText(".abstractSection, .abstract, [class*='abstract'], #abstract, [role='doc-abstract']"),
			},
			DOI: []extract.Locator{
				extract.Meta("citation_doi"),
				extract.DOILink("a[href*='doi.org/10.']"),
			},
			Pages:  []extract.Locator{metaPages()},
			Volume: []extract.Locator{extract.Meta("citation_volume")},
			Issue:  []extract.Locator{extract.Meta("citation_issue")},
			Date:   []extract.Locator{metaDate("citation_publication_date")},
		},
	}
}
