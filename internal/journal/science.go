// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"strings"

	"github.com/pdiddy/scicover/internal/extract"
)

const scienceCoverBlock = ".cover-story, .about-cover, [class*='coverStory'], [class*='AboutCover'], [class*='about-the-cover']"

// coverParagraph finds a paragraph that talks about the cover art.
var coverParagraph = mentioning("p", func(s string) bool {
	return strings.Contains(s, "cover") && containsAny(s, "image", "photo", "illustration")
})

// ScienceProfile reads www.science.org. The issue banner reads like
// "Vol 388, Issue 6753"; the lead article is linked from the cover blurb.
func ScienceProfile(baseURL string) Profile {
	const banner = ".journal-issue__vol, .issue-info-vol, [class*='issueInfo']"
	return Profile{
		Name:         "Science",
		Slug:         "science",
		Aliases:      []string{"sci"},
		BaseURL:      orDefault(baseURL, "https://www.science.org"),
		CurrentPaths: []string{"/toc/science/current"},
		IssuePath:    "/toc/science/%s/%s",
		RequireCover: true,
		Preprints:    extract.NaturalSciencePreprints,
		Listing: ListingRules{
			Volume: []extract.Locator{volumeIn(extract.Text(banner)), extract.Meta("citation_volume")},
			Issue:  []extract.Locator{issueIn(extract.Text(banner)), extract.Meta("citation_issue")},
			Date:   []extract.Locator{timeDatetime(), extract.DateLocator(extract.Text(banner))},
			CoverImages: []string{
				"img[src*='largecover']",
				"img[src*='cover']",
				".cover-image img, .journal-issue__cover img, [class*='coverImage'] img, [class*='CoverImage'] img",
			},
			CoverDescription: []extract.Locator{extract.Text(scienceCoverBlock), textOf(coverParagraph)},
			LeadURL: []extract.Locator{
				extract.Within(scienceCoverBlock, hrefOf("a[href*='/doi/']")),
				linkIn(coverParagraph, "a[href*='/doi/']"),
			},
			LeadTitle: []extract.Locator{
				extract.Within(scienceCoverBlock, extract.Text("a[href*='/doi/']")),
				linkTextIn(coverParagraph, "a[href*='/doi/']"),
			},
		},
		Article: ArticleRules{
			Title: []extract.Locator{
				extract.Text("h1.article-title, h1[property='name'], .publicationContentTitle h1"),
				extract.Meta("citation_title"),
				extract.MetaProperty("og:title"),
			},
			Authors: []extract.ListLocator{
				extract.TextsOf(".contributors a[href*='author'], .authors-list a, [class*='author-name']"),
				extract.MetaAll("citation_author"),
			},
			Abstract: []extract.Locator{
				extract.LongText(".abstract, [role='doc-abstract'], .abstractSection"),
				extract.Meta("dc.Description"),
			},
			DOI: []extract.Locator{
				extract.DOILink("a[href*='doi.org/10.']"),
				extract.Meta("citation_doi"),
				extract.Meta("dc.Identifier"),
			},
			Pages: []extract.Locator{metaPages()},
			Date:  []extract.Locator{metaDate("citation_publication_date"), metaDate("dc.Date")},
		},
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
