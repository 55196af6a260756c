// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/scicover/internal/extract"
)

var natureCanonical = regexp.MustCompile(`/volumes/(\d+)/issues/(\d+)`)

const (
	natureCoverBlock    = "[data-test='cover-story'], .cover-story, [class*='CoverStory'], [class*='cover-story']"
	natureThisWeekBlock = ".c-section--this-week, [data-test='editorial-summary'], [class*='editorial-summary']"
)

// figcaptionCredit reads the caption of the <figure> enclosing a cover image.
func figcaptionCredit(img *goquery.Selection) string {
	return img.Closest("figure").Find("figcaption").First().Text()
}

// NatureProfile reads www.nature.com. Issue metadata is carried in
// citation meta tags, with the canonical URL as a fallback.
func NatureProfile(baseURL string) Profile {
	canonical := extract.Attr("link[rel='canonical']", "href")
	return Profile{
		Name:         "Nature",
		Slug:         "nature",
		Aliases:      []string{"nat"},
		BaseURL:      orDefault(baseURL, "https://www.nature.com"),
		CurrentPaths: []string{"/nature/current-issue"},
		IssuePath:    "/nature/volumes/%s/issues/%s",
		RequireCover: true,
		Preprints:    extract.NaturalSciencePreprints,
		Listing: ListingRules{
			Volume: []extract.Locator{extract.Meta("citation_volume"), extract.Regex(canonical, natureCanonical, 1)},
			Issue:  []extract.Locator{extract.Meta("citation_issue"), extract.Regex(canonical, natureCanonical, 2)},
			Date: []extract.Locator{
				metaDate("citation_publication_date"),
				extract.DateLocator(extract.Text(".c-journal-heading__date, [data-test='issue-date'], [class*='issueDate']")),
			},
			CoverImages: []string{
				"img[src*='springernature.com']",
				"img[src*='nature-cms']",
				".c-issue-cover img, [data-test='issue-cover'] img, [class*='cover'] img, .issue-cover-image img",
			},
			CoverCredit:      []extract.Locator{figcaptionCredit},
			CoverDescription: []extract.Locator{extract.Text(natureCoverBlock), extract.Text(natureThisWeekBlock)},
			LeadURL: []extract.Locator{
				extract.Within(natureCoverBlock, hrefOf("a[href*='/articles/']")),
				extract.Within(natureThisWeekBlock, hrefOf("a[href*='/articles/']")),
				hrefOf("a[href*='/articles/s41586-']"),
			},
			LeadTitle: []extract.Locator{
				extract.Within(natureCoverBlock, extract.Text("a[href*='/articles/']")),
				extract.Within(natureThisWeekBlock, extract.Text("a[href*='/articles/']")),
				extract.Text("a[href*='/articles/s41586-']"),
			},
		},
		Article: ArticleRules{
			Title: []extract.Locator{
				extract.Text("h1.c-article-title, h1[data-test='article-title'], h1[itemprop='headline']"),
				extract.Meta("citation_title"),
				extract.MetaProperty("og:title"),
			},
			Authors: []extract.ListLocator{
				extract.TextsOf(".c-article-author-list__item a[data-test='author-name'], [itemprop='author'] [itemprop='name'], .c-author-list a"),
				extract.MetaAll("citation_author"),
			},
			Abstract: []extract.Locator{
				extract.LongText("#Abs1-content, [data-test='article-abstract'], .c-article-section__content[id*='abstract'], [id='abstract'] .c-article-section__content"),
				extract.Meta("dc.description"),
			},
			DOI: []extract.Locator{
				extract.Meta("citation_doi"),
				extract.DOILink("a[data-track-action='view doi']"),
			},
			Pages: []extract.Locator{metaPages()},
		},
	}
}
