// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scicover/internal/catalogue"
	"github.com/pdiddy/scicover/internal/fulltext"
	"github.com/pdiddy/scicover/internal/httputil"
	"github.com/pdiddy/scicover/internal/journal"
	"github.com/pdiddy/scicover/internal/store"
	"github.com/pdiddy/scicover/internal/summarize"
	"github.com/pdiddy/scicover/pkg/types"
)

var fixedNow = time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)

// fakeSource returns a canned record, nothing, or panics.
type fakeSource struct {
	name   string
	raw    *types.RawRecord
	panics bool

	scrapes    int
	issueCalls [][2]string
}

func (f *fakeSource) Name() string { return f.name }
func (f *fakeSource) Slug() string { return f.name }

func (f *fakeSource) ScrapeCurrentIssue(context.Context) (*types.RawRecord, bool) {
	f.scrapes++
	if f.panics {
		panic("selector exploded")
	}
	if f.raw == nil {
		return nil, false
	}
	cp := *f.raw
	return &cp, true
}

func (f *fakeSource) ScrapeIssue(ctx context.Context, volume, issue string) (*types.RawRecord, bool) {
	f.issueCalls = append(f.issueCalls, [2]string{volume, issue})
	return f.ScrapeCurrentIssue(ctx)
}

type fakeImages struct {
	calls int
	err   error
}

func (f *fakeImages) Download(_ context.Context, _, dest string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, []byte("img"), 0o644)
}

type fakeFullText struct {
	calls  int
	result *types.FullTextResult
	panics bool
}

func (f *fakeFullText) Fetch(context.Context, string, string, string) (*types.FullTextResult, bool) {
	f.calls++
	if f.panics {
		panic("parser bug")
	}
	return f.result, f.result != nil
}

type fakeSummarizer struct {
	calls []summarize.Request
	fail  bool
}

func (f *fakeSummarizer) Summarize(_ context.Context, req summarize.Request) (*types.AISummary, bool) {
	f.calls = append(f.calls, req)
	if f.fail {
		return nil, false
	}
	return &types.AISummary{
		Title:   types.BilingualText{ZH: "標題", EN: "Title " + req.Journal},
		Summary: types.BilingualText{ZH: "摘要", EN: "Summary"},
	}, true
}

func scienceRaw() *types.RawRecord {
	raw := types.NewRawRecord("Science")
	raw.Volume = "388"
	raw.Issue = "6753"
	raw.Date = "2025-06-20"
	raw.CoverImageURL = "https://www.science.org/cover.png"
	raw.ArticleTitle = "Locust swarms"
	raw.ArticleURL = "https://www.science.org/doi/10.1126/science.adx1234"
	raw.ArticleAbstract = "Swarms drift downwind."
	raw.AddAuthors("Ada Lovelace")
	return raw
}

func natureRaw() *types.RawRecord {
	raw := types.NewRawRecord("Nature")
	raw.Date = "2025-06-26"
	raw.ArticleTitle = "Deep vents"
	return raw
}

type harness struct {
	store   *store.Store
	images  *fakeImages
	full    *fakeFullText
	summary *fakeSummarizer
	out     *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	return &harness{
		store:   store.New(t.TempDir(), nil),
		images:  &fakeImages{},
		full:    &fakeFullText{},
		summary: &fakeSummarizer{},
		out:     &bytes.Buffer{},
	}
}

func (h *harness) options(sources ...journal.Source) Options {
	return Options{
		Sources:    sources,
		Store:      h.store,
		Images:     h.images,
		FullText:   h.full,
		Summarizer: h.summary,
		Catalogue:  catalogue.New(h.store, nil),
		Now:        func() time.Time { return fixedNow },
		Out:        h.out,
	}
}

func TestRun_ProcessesNewRecord(t *testing.T) {
	h := newHarness(t)
	h.full.result = &types.FullTextResult{Text: "Full body.", Provider: "biorxiv"}

	rep := New(h.options(&fakeSource{name: "Science", raw: scienceRaw()})).Run(context.Background())

	require.Equal(t, []string{"science-2025-06-20"}, rep.Processed)
	assert.Empty(t, rep.Skipped)
	assert.Empty(t, rep.Errors)
	assert.True(t, rep.Succeeded())
	assert.NotEmpty(t, rep.RunID)

	rec, err := h.store.Load("science-2025-06-20")
	require.NoError(t, err)
	assert.Equal(t, "images/science-2025-06-20.png", rec.CoverImage.LocalPath)
	assert.FileExists(t, filepath.Join(h.store.Dir(), "images", "science-2025-06-20.png"))
	assert.Equal(t, types.ModeFullText, rec.SummaryMode)
	assert.Equal(t, "biorxiv", rec.FullTextProvider)
	require.NotNil(t, rec.AISummary)
	assert.Equal(t, "Title Science", rec.AISummary.Title.EN)
	assert.True(t, fixedNow.Equal(rec.CreatedAt))

	require.Len(t, h.summary.calls, 1)
	assert.Equal(t, "Full body.", h.summary.calls[0].FullText)
	assert.Equal(t, []string{"Ada Lovelace"}, h.summary.calls[0].Authors)

	assert.FileExists(t, filepath.Join(h.store.Dir(), store.IndexFile))
	assert.FileExists(t, filepath.Join(h.store.Dir(), store.LatestFile))
	assert.Contains(t, h.out.String(), "processed: science-2025-06-20")
	assert.Contains(t, h.out.String(), "Batch summary: 1 processed, 0 skipped, 0 errors (total: 1)")
}

func TestRun_SkipsExistingRecordWithoutFurtherCalls(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.Save(&types.Record{ID: "science-2025-06-20", Journal: "Science", Date: "2025-06-20"}))

	rep := New(h.options(&fakeSource{name: "Science", raw: scienceRaw()})).Run(context.Background())

	assert.Equal(t, []string{"science-2025-06-20"}, rep.Skipped)
	assert.Empty(t, rep.Processed)
	assert.True(t, rep.Succeeded())
	assert.Zero(t, h.images.calls)
	assert.Zero(t, h.full.calls)
	assert.Empty(t, h.summary.calls)
}

func TestRun_AbsentScrapeIsIsolated(t *testing.T) {
	h := newHarness(t)
	cell := &fakeSource{name: "Cell"}
	nature := &fakeSource{name: "Nature", raw: natureRaw()}

	rep := New(h.options(cell, nature)).Run(context.Background())

	require.Len(t, rep.Errors, 1)
	assert.Equal(t, SourceError{Journal: "Cell", Error: "scraper returned no record"}, rep.Errors[0])
	assert.Equal(t, []string{"nature-2025-06-26"}, rep.Processed)
	assert.True(t, rep.Succeeded())
}

func TestRun_PanicIsIsolatedAndCatalogueStillRebuilt(t *testing.T) {
	h := newHarness(t)
	boom := &fakeSource{name: "Science", panics: true}
	nature := &fakeSource{name: "Nature", raw: natureRaw()}

	rep := New(h.options(boom, nature)).Run(context.Background())

	require.Len(t, rep.Errors, 1)
	assert.Equal(t, "Science", rep.Errors[0].Journal)
	assert.Contains(t, rep.Errors[0].Error, "selector exploded")
	assert.Equal(t, []string{"nature-2025-06-26"}, rep.Processed)

	idx, err := os.ReadFile(filepath.Join(h.store.Dir(), store.IndexFile))
	require.NoError(t, err)
	assert.Contains(t, string(idx), "nature-2025-06-26")
}

func TestRun_AllSourcesFailing(t *testing.T) {
	h := newHarness(t)
	rep := New(h.options(&fakeSource{name: "Cell"}, &fakeSource{name: "ASR", panics: true})).Run(context.Background())

	assert.Len(t, rep.Errors, 2)
	assert.False(t, rep.Succeeded())
	assert.FileExists(t, filepath.Join(h.store.Dir(), store.IndexFile))
}

func TestRun_MissingDateUsesToday(t *testing.T) {
	h := newHarness(t)
	raw := natureRaw()
	raw.Date = ""

	rep := New(h.options(&fakeSource{name: "Nature", raw: raw})).Run(context.Background())

	require.Equal(t, []string{"nature-2026-02-14"}, rep.Processed)
	rec, err := h.store.Load("nature-2026-02-14")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-14", rec.Date)
}

func TestRun_FailuresDegradeGracefully(t *testing.T) {
	h := newHarness(t)
	h.images.err = errors.New("HTTP 403")
	h.full.panics = true
	h.summary.fail = true

	rep := New(h.options(&fakeSource{name: "Science", raw: scienceRaw()})).Run(context.Background())

	require.Equal(t, []string{"science-2025-06-20"}, rep.Processed)
	rec, err := h.store.Load("science-2025-06-20")
	require.NoError(t, err)
	assert.Empty(t, rec.CoverImage.LocalPath)
	assert.Equal(t, "https://www.science.org/cover.png", rec.CoverImage.URL)
	assert.Equal(t, types.ModeAbstractOnly, rec.SummaryMode)
	assert.Nil(t, rec.AISummary)
	assert.Empty(t, rec.FullTextProvider)
}

func TestRun_DryRunSkipsFullTextAndSummary(t *testing.T) {
	h := newHarness(t)
	h.full.result = &types.FullTextResult{Text: "Full body.", Provider: "arxiv-html"}
	opts := h.options(&fakeSource{name: "Science", raw: scienceRaw()})
	opts.DryRun = true

	rep := New(opts).Run(context.Background())

	require.Equal(t, []string{"science-2025-06-20"}, rep.Processed)
	assert.Zero(t, h.full.calls)
	assert.Empty(t, h.summary.calls)
	assert.Equal(t, 1, h.images.calls)

	data, err := os.ReadFile(h.store.Path("science-2025-06-20"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ai_summary": null`)
	assert.Contains(t, string(data), `"summary_mode": "abstract-only"`)
}

func TestRun_TargetsBackIssue(t *testing.T) {
	h := newHarness(t)
	src := &fakeSource{name: "Science", raw: scienceRaw()}
	opts := h.options(src)
	opts.Volume, opts.Issue = "388", "6753"

	New(opts).Run(context.Background())

	assert.Equal(t, [][2]string{{"388", "6753"}}, src.issueCalls)
}

func TestRun_DelayBetweenSources(t *testing.T) {
	h := newHarness(t)
	var waits []time.Duration
	orig := httputil.Sleep
	httputil.Sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	t.Cleanup(func() { httputil.Sleep = orig })

	opts := h.options(&fakeSource{name: "Cell"}, &fakeSource{name: "Nature", raw: natureRaw()}, &fakeSource{name: "ASR"})
	opts.Delay = 2 * time.Second
	New(opts).Run(context.Background())

	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, waits)
}

func TestRun_CancelledContextStopsBeforeNextSource(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &fakeSource{name: "Science", raw: scienceRaw()}

	rep := New(h.options(src)).Run(ctx)

	assert.Zero(t, src.scrapes)
	assert.Zero(t, rep.Total())
}

// shortPages serves a publisher page whose body is under the minimum length.
type shortPages struct{}

func (shortPages) GetText(context.Context, string) (string, bool) {
	return `<html><body><div id="body">A short teaser.</div></body></html>`, true
}

func (p shortPages) GetDocument(ctx context.Context, u string) (*goquery.Document, bool) {
	body, _ := p.GetText(ctx, u)
	return httputil.ParseDocument(body, u)
}

func TestRun_ShortFullTextFallsBackToAbstract(t *testing.T) {
	h := newHarness(t)
	raw := scienceRaw()
	raw.Journal = "Political Geography"
	raw.ArticleURL = "https://www.sciencedirect.com/science/article/pii/S1"
	raw.CoverImageURL = ""
	opts := h.options(&fakeSource{name: "Political Geography", raw: raw})
	opts.FullText = fulltext.New(shortPages{}, nil, types.FullTextConfig{MinBodyChars: 500}, nil)

	rep := New(opts).Run(context.Background())

	require.Equal(t, []string{"political-geography-2025-06-20"}, rep.Processed)
	require.Len(t, h.summary.calls, 1)
	assert.Empty(t, h.summary.calls[0].FullText)
	rec, err := h.store.Load("political-geography-2025-06-20")
	require.NoError(t, err)
	assert.Equal(t, types.ModeAbstractOnly, rec.SummaryMode)
}

func TestRun_PreprintAbstractIsAbstractOnly(t *testing.T) {
	h := newHarness(t)
	h.full.result = &types.FullTextResult{Text: "Preprint abstract.", Provider: "arxiv-api", AbstractOnly: true}
	raw := scienceRaw()
	raw.ArticleAbstract = ""

	rep := New(h.options(&fakeSource{name: "Science", raw: raw})).Run(context.Background())

	require.Equal(t, []string{"science-2025-06-20"}, rep.Processed)
	require.Len(t, h.summary.calls, 1)
	assert.Empty(t, h.summary.calls[0].FullText)
	assert.Equal(t, "Preprint abstract.", h.summary.calls[0].Abstract)

	rec, err := h.store.Load("science-2025-06-20")
	require.NoError(t, err)
	assert.Equal(t, types.ModeAbstractOnly, rec.SummaryMode)
	assert.Equal(t, "arxiv-api", rec.FullTextProvider)
	assert.Equal(t, "Preprint abstract.", rec.Article.Abstract)
}

func TestRun_PreprintAbstractKeepsScrapedAbstract(t *testing.T) {
	h := newHarness(t)
	h.full.result = &types.FullTextResult{Text: "SSRN abstract.", Provider: "ssrn", AbstractOnly: true}

	New(h.options(&fakeSource{name: "Science", raw: scienceRaw()})).Run(context.Background())

	require.Len(t, h.summary.calls, 1)
	assert.Empty(t, h.summary.calls[0].FullText)
	assert.Equal(t, "Swarms drift downwind.", h.summary.calls[0].Abstract)
}
