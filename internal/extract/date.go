// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
)

// ISOLayout is the normalized date format.
const ISOLayout = "2006-01-02"

const monthPattern = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?`

// dateInText finds day-month-year, month-day-year and month-year phrases.
var dateInText = regexp.MustCompile(`(?i)\b(\d{1,2}\s+` + monthPattern + `\s+\d{4}|` +
	monthPattern + `\s+\d{1,2},?\s+\d{4}|` +
	monthPattern + `\s+\d{4})\b`)

var isoPrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// numericDate matches a leading year-first date such as the
// citation_publication_date value "2025/06/20".
var numericDate = regexp.MustCompile(`^\d{4}[-/.]\d{1,2}(?:[-/.]\d{1,2})?\b`)

var bareNumber = regexp.MustCompile(`^\d+$`)

// Years outside this range are parse artifacts, not issue dates.
const (
	minYear = 1900
	maxYear = 2200
)

var dateLayouts = []string{
	ISOLayout,
	"2006/01/02",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"January 2006",
	"Jan 2006",
}

// ParseDate parses a date fragment in any common format and returns it as
// YYYY-MM-DD. Month-only dates resolve to the first of the month.
func ParseDate(fragment string) (string, bool) {
	s := CleanText(fragment)
	if s == "" || bareNumber.MatchString(s) {
		return "", false
	}
	if m := isoPrefix.FindString(s); m != "" {
		if t, err := time.Parse(ISOLayout, m); err == nil {
			return formatDate(t)
		}
	}
	plain := strings.ReplaceAll(s, ".", "")
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, plain); err == nil {
			return formatDate(t)
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return "", false
	}
	return formatDate(t)
}

func formatDate(t time.Time) (string, bool) {
	if t.Year() < minYear || t.Year() > maxYear {
		return "", false
	}
	return t.Format(ISOLayout), true
}

// DateFromText scans free text such as an issue banner for the first
// phrase that parses as a date.
func DateFromText(text string) (string, bool) {
	for _, m := range dateInText.FindAllString(text, -1) {
		if d, ok := ParseDate(m); ok {
			return d, true
		}
	}
	return "", false
}

// ISODatePrefix returns the leading YYYY-MM-DD of an ISO timestamp such
// as a <time datetime> value, or "".
func ISODatePrefix(s string) string {
	return isoPrefix.FindString(strings.TrimSpace(s))
}

// DateLocator adapts a text locator so its value is parsed into a date.
// Only a date phrase inside the text or a leading year-first date is
// parsed; anything else yields "" so the next locator in the cascade runs.
func DateLocator(loc Locator) Locator {
	return func(sel *goquery.Selection) string {
		v := strings.TrimSpace(loc(sel))
		if d, ok := DateFromText(v); ok {
			return d
		}
		if m := numericDate.FindString(v); m != "" {
			d, _ := ParseDate(m)
			return d
		}
		return ""
	}
}
