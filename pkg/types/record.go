// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the scicover pipeline:
// the raw record produced by a journal scraper, the persisted record read
// by the front-end, full-text results, and configuration.
package types

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the ISO-8601 calendar date format used for record dates.
const DateLayout = "2006-01-02"

// RawRecord is the unit produced by one journal scraper run. Absence of a
// value is represented by the empty string or an empty slice; Journal is
// always set by the scraper.
type RawRecord struct {
	// Journal is the human-readable journal name (e.g. "Science").
	Journal string `json:"journal"`

	Volume string `json:"volume"`
	Issue  string `json:"issue"`

	// Date is the issue date as YYYY-MM-DD, or empty if unknown.
	Date string `json:"date"`

	// CoverImageURL is the absolute URL of the cover image.
	CoverImageURL string `json:"cover_image_url"`

	// CoverImageCredit is the photographer or illustrator credit.
	CoverImageCredit string `json:"cover_image_credit"`

	// CoverDescription is the "on the cover" text from the listing page.
	CoverDescription string `json:"cover_description"`

	ArticleTitle string `json:"article_title"`

	// ArticleAuthors lists authors in byline order without duplicates.
	ArticleAuthors []string `json:"article_authors"`

	ArticleAbstract string `json:"article_abstract"`

	// ArticleDOI is the bare DOI (e.g. "10.1126/science.abc1234").
	ArticleDOI string `json:"article_doi"`

	// ArticleURL is the absolute URL of the article page.
	ArticleURL string `json:"article_url"`

	// ArticlePages is a page range such as "123-127".
	ArticlePages string `json:"article_pages"`

	// PreprintURL links to a preprint version on a known repository.
	PreprintURL string `json:"preprint_url"`
}

// NewRawRecord returns an empty record for the named journal.
func NewRawRecord(journal string) *RawRecord {
	return &RawRecord{Journal: journal, ArticleAuthors: []string{}}
}

// AddAuthors appends names to the author list, skipping blanks and names
// already present, preserving order.
func (r *RawRecord) AddAuthors(names ...string) {
	seen := make(map[string]bool, len(r.ArticleAuthors))
	for _, a := range r.ArticleAuthors {
		seen[a] = true
	}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		r.ArticleAuthors = append(r.ArticleAuthors, n)
	}
}

// SummaryMode records whether a summary was generated from the full text
// or from the abstract alone.
type SummaryMode string

const (
	ModeFullText     SummaryMode = "full-text"
	ModeAbstractOnly SummaryMode = "abstract-only"
)

// BilingualText holds a Traditional Chinese and an English variant.
type BilingualText struct {
	ZH string `json:"zh" yaml:"zh"`
	EN string `json:"en" yaml:"en"`
}

// Complete reports whether both variants are non-blank.
func (b BilingualText) Complete() bool {
	return strings.TrimSpace(b.ZH) != "" && strings.TrimSpace(b.EN) != ""
}

// AISummary is the validated output of the summarization step.
type AISummary struct {
	Title   BilingualText `json:"title"`
	Summary BilingualText `json:"summary"`
}

// CoverImage references the cover image by remote URL and by path
// relative to the data directory.
type CoverImage struct {
	URL       string `json:"url"`
	LocalPath string `json:"local_path"`
	Credit    string `json:"credit"`
}

// Article holds the lead article's bibliographic metadata.
type Article struct {
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	Abstract string   `json:"abstract"`
	DOI      string   `json:"doi"`
	URL      string   `json:"url"`
	Pages    string   `json:"pages"`
}

// Record is the persisted unit of output for one journal issue. It is the
// only on-disk record schema.
type Record struct {
	ID               string      `json:"id"`
	Journal          string      `json:"journal"`
	Volume           string      `json:"volume"`
	Issue            string      `json:"issue"`
	Date             string      `json:"date"`
	CoverImage       CoverImage  `json:"cover_image"`
	CoverDescription string      `json:"cover_description"`
	Article          Article     `json:"article"`
	PreprintURL      string      `json:"preprint_url"`
	AISummary        *AISummary  `json:"ai_summary"`
	SummaryMode      SummaryMode `json:"summary_mode"`

	// FullTextProvider names the provider that supplied the full text, or
	// is empty in abstract-only mode.
	FullTextProvider string    `json:"fulltext_provider,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// DisplayTitle returns the AI title when present, falling back to the
// article title for both languages.
func (r *Record) DisplayTitle() BilingualText {
	if r.AISummary != nil && r.AISummary.Title.Complete() {
		return r.AISummary.Title
	}
	return BilingualText{ZH: r.Article.Title, EN: r.Article.Title}
}

// FullTextResult is the outcome of a successful full-text retrieval.
type FullTextResult struct {
	// Text is the plain article text, bounded by the configured budget.
	Text string `json:"text"`

	// Provider identifies which fetcher satisfied the request
	// (e.g. "arxiv-html", "biorxiv", "sciencedirect").
	Provider string `json:"provider"`

	// Truncated reports whether Text was cut to fit the budget.
	Truncated bool `json:"truncated"`

	// AbstractOnly is set when the provider could only reach the
	// preprint abstract, not the article body.
	AbstractOnly bool `json:"abstract_only,omitempty"`
}

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
	nonDateChars = regexp.MustCompile(`[^0-9-]`)
)

// RecordID derives the stable identity key for a (journal, date) pair:
// the lower-cased journal name with non-alphanumeric runs replaced by
// hyphens, followed by the date with everything but digits and hyphens
// removed. RecordID("Science", "2025-06-20") is "science-2025-06-20".
func RecordID(journal, date string) string {
	slug := strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(journal), "-"), "-")
	return slug + "-" + nonDateChars.ReplaceAllString(date, "")
}
