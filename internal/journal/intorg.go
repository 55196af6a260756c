// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"github.com/pdiddy/scicover/internal/extract"
)

// InternationalOrganizationProfile reads the journal on Cambridge Core.
// The lead article is the first research item in the issue listing.
func InternationalOrganizationProfile(baseURL string) Profile {
	const (
		header  = ".journal-issue h1, .issue-title, h1[class*='issue'], .current-issue__details"
		lead    = ".article-item a[href*='/article/'], li[class*='article'] a.part-link, a[class*='title'][href*='/article/'], .listing-citation a[href*='/article/']"
		anyLead = "a[href*='/core/journals/'][href*='/article/']"
		journal = "/core/journals/international-organization"
	)
	return Profile{
		Name:         "International Organization",
		Slug:         "intorg",
		Aliases:      []string{"international organization", "io"},
		BaseURL:      orDefault(baseURL, "https://www.cambridge.org"),
		CurrentPaths: []string{journal + "/latest-issue"},
		IssuePath:    journal + "/issue/%s/%s",
		Preprints:    extract.SocialSciencePreprints,
		Listing: ListingRules{
			Volume: []extract.Locator{volumeIn(extract.Text(header)), extract.Meta("citation_volume")},
			Issue:  []extract.Locator{issueIn(extract.Text(header)), extract.Meta("citation_issue")},
			Date: []extract.Locator{
				extract.DateLocator(extract.Text(header)),
				metaDate("citation_publication_date"),
			},
			CoverImages: []string{".cover-image img, img[class*='cover'], .journal-cover img, img[src*='cover']"},
			LeadURL:     []extract.Locator{hrefOf(lead), hrefOf(anyLead)},
			LeadTitle:   []extract.Locator{extract.Text(lead), extract.Text(anyLead)},
		},
		Article: ArticleRules{
			Title: []extract.Locator{
				extract.Text("h1.article-title, .article-title"),
				extract.Meta("citation_title"),
				extract.MetaProperty("og:title"),
			},
			Authors: []extract.ListLocator{
				extract.TextsOf(".author a, .contrib-author"),
				extract.MetaAll("citation_author"),
			},
			Abstract: []extract.Locator{
				extract.LongText(".abstract, [class*='abstract'], #abstract, [role='doc-abstract']"),
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
