// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	volumeRe = regexp.MustCompile(`(?i)\bVol(?:ume)?\.?\s+(\d+)`)
	issueRe  = regexp.MustCompile(`(?i)\b(?:Issue|No\.?)\s+(\d+)`)
	doiRe    = regexp.MustCompile(`(10\.\d{4,}/\S+)`)
)

// Preprint repository domains recognized in article pages.
var (
	NaturalSciencePreprints = []string{"arxiv.org", "biorxiv.org", "medrxiv.org", "ssrn.com", "chemrxiv.org"}
	SocialSciencePreprints  = []string{"ssrn.com", "socopen.org", "osf.io/preprints/socarxiv"}
	AllPreprints            = []string{"arxiv.org", "biorxiv.org", "medrxiv.org", "ssrn.com", "socopen.org", "osf.io/preprints/socarxiv", "chemrxiv.org"}
)

// VolumeIssue pulls "Vol 388" / "Volume 12" and "Issue 6753" numbers out
// of a banner string. Missing parts are returned empty.
func VolumeIssue(text string) (volume, issue string) {
	if m := volumeRe.FindStringSubmatch(text); m != nil {
		volume = m[1]
	}
	if m := issueRe.FindStringSubmatch(text); m != nil {
		issue = m[1]
	}
	return volume, issue
}

// DOIFromHref extracts a bare DOI from a link such as
// https://doi.org/10.1126/science.abc1234.
func DOIFromHref(href string) string {
	if u, err := url.PathUnescape(href); err == nil {
		href = u
	}
	m := doiRe.FindString(href)
	return strings.TrimRight(m, ".,;)")
}

// DOILink returns a locator that finds the first link matching selector
// and extracts a DOI from its href.
func DOILink(selector string) Locator {
	return func(sel *goquery.Selection) string {
		var out string
		sel.Find(selector).EachWithBreak(func(_ int, el *goquery.Selection) bool {
			out = DOIFromHref(el.AttrOr("href", ""))
			return out == ""
		})
		return out
	}
}

// FindPreprintURL returns the first link in sel whose href mentions one
// of domains.
func FindPreprintURL(sel *goquery.Selection, domains []string) string {
	var out string
	sel.Find("a[href]").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		href := strings.TrimSpace(el.AttrOr("href", ""))
		for _, d := range domains {
			if strings.Contains(href, d) {
				out = href
				return false
			}
		}
		return true
	})
	return out
}

// AbsURL resolves ref against base. Protocol-relative references get an
// https scheme; absolute references are returned unchanged.
func AbsURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if strings.HasPrefix(ref, "//") {
		return "https:" + ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
