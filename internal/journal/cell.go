// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"strings"

	"github.com/pdiddy/scicover/internal/extract"
)

const (
	cellCoverBlock = ".on-the-cover, [class*='onTheCover'], [class*='OnTheCover'], [class*='about-the-cover'], .cover-description"
	cellLeadLink   = "a[href*='/fulltext/'], a[href*='/abstract/']"
)

func mentionsCover(s string) bool {
	return strings.Contains(s, "on the cover") || strings.Contains(s, "cover image")
}

var (
	cellCoverParagraph = mentioning("p", mentionsCover)
	cellCoverDiv       = mentioning("div:not(:has(div))", mentionsCover)
)

// CellProfile reads www.cell.com. The issue header carries "Volume 188
// Issue 12" and a long-form date.
func CellProfile(baseURL string) Profile {
	const header = ".issue-info, .issueTocHeader, [class*='issueInfo'], [class*='toc-header'] .issue-meta"
	return Profile{
		Name:         "Cell",
		Slug:         "cell",
		Aliases:      []string{"cell press"},
		BaseURL:      orDefault(baseURL, "https://www.cell.com"),
		CurrentPaths: []string{"/cell/current"},
		IssuePath:    "/cell/vol-%s/issue-%s",
		RequireCover: true,
		Preprints:    extract.NaturalSciencePreprints,
		Listing: ListingRules{
			Volume: []extract.Locator{volumeIn(extract.Text(header)), extract.Meta("citation_volume")},
			Issue:  []extract.Locator{issueIn(extract.Text(header)), extract.Meta("citation_issue")},
			Date: []extract.Locator{
				extract.DateLocator(extract.Text(header)),
				metaDate("citation_publication_date"),
			},
			CoverImages: []string{
				".cover-image img, .toc-cover img, [class*='coverImage'] img, [class*='CoverImage'] img, .issue-cover img",
				"img[src*='cover']",
				"img[src*='els-cdn']",
			},
			CoverDescription: []extract.Locator{
				extract.Text(cellCoverBlock),
				textOf(cellCoverParagraph),
				textOf(cellCoverDiv),
			},
			LeadURL: []extract.Locator{
				extract.Within(cellCoverBlock, hrefOf(cellLeadLink)),
				linkIn(cellCoverParagraph, cellLeadLink),
				linkIn(cellCoverDiv, cellLeadLink),
				hrefOf("a[href*='/cell/fulltext/S0092-8674']"),
			},
			LeadTitle: []extract.Locator{
				extract.Within(cellCoverBlock, extract.Text(cellLeadLink)),
				linkTextIn(cellCoverParagraph, cellLeadLink),
				linkTextIn(cellCoverDiv, cellLeadLink),
				extract.Text("a[href*='/cell/fulltext/S0092-8674']"),
			},
		},
		Article: ArticleRules{
			Title: []extract.Locator{
				extract.Text("h1.article-header__title, h1[class*='article-title']"),
				extract.Meta("citation_title"),
				extract.MetaProperty("og:title"),
			},
			Authors: []extract.ListLocator{
				extract.TextsOf(".author-name, [class*='authorName']"),
				extract.MetaAll("citation_author"),
			},
			Abstract: []extract.Locator{
				extract.LongText("#abstracts, .abstract, [class*='Abstract'], [id='abstract'] .section-paragraph"),
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
