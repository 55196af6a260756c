// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs every selected journal through scrape, dedupe,
// image download, full-text retrieval, summarization and persistence,
// one source at a time. A failing source is recorded and never stops the
// others; the catalogue is rebuilt at the end of every run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/scicover/internal/catalogue"
	"github.com/pdiddy/scicover/internal/httputil"
	"github.com/pdiddy/scicover/internal/journal"
	"github.com/pdiddy/scicover/internal/store"
	"github.com/pdiddy/scicover/internal/summarize"
	"github.com/pdiddy/scicover/pkg/types"
)

// errNoRecord is reported when a source yields nothing.
var errNoRecord = errors.New("scraper returned no record")

// ImageDownloader saves a remote image to a local path.
type ImageDownloader interface {
	Download(ctx context.Context, url, destPath string) error
}

// FullTextFetcher retrieves article text for summarization.
type FullTextFetcher interface {
	Fetch(ctx context.Context, preprintURL, articleURL, doi string) (*types.FullTextResult, bool)
}

// Summarizer produces the bilingual summary of a record.
type Summarizer interface {
	Summarize(ctx context.Context, req summarize.Request) (*types.AISummary, bool)
}

// Options wires a Runner. Nil collaborators switch the matching step off.
type Options struct {
	Sources []journal.Source
	Store   *store.Store

	// Images downloads cover images into ImagesDir.
	Images    ImageDownloader
	ImagesDir string

	FullText   FullTextFetcher
	Summarizer Summarizer

	// Catalogue is rebuilt after every run; DB, when set, is synced too.
	Catalogue *catalogue.Catalogue
	DB        *catalogue.DB

	// DryRun skips full-text retrieval and summarization.
	DryRun bool

	// Delay is the pause between sources.
	Delay time.Duration

	// Volume and Issue target a back issue instead of the current one.
	Volume string
	Issue  string

	// Now supplies timestamps and the fallback date. Defaults to time.Now.
	Now func() time.Time

	Logger *slog.Logger

	// Out receives human-readable progress lines.
	Out io.Writer
}

// Runner executes pipeline runs.
type Runner struct {
	opts Options
}

// New returns a Runner for opts.
func New(opts Options) *Runner {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.ImagesDir == "" && opts.Store != nil {
		opts.ImagesDir = filepath.Join(opts.Store.Dir(), "images")
	}
	return &Runner{opts: opts}
}

// Run processes every source in order and rebuilds the catalogue.
func (r *Runner) Run(ctx context.Context) *Report {
	rep := &Report{
		RunID:     uuid.NewString(),
		StartedAt: r.opts.Now().UTC(),
		Processed: []string{},
		Skipped:   []string{},
		Errors:    []SourceError{},
	}
	log := r.opts.Logger.With("run", rep.RunID)
	log.Info("pipeline started", "sources", len(r.opts.Sources), "dry_run", r.opts.DryRun)

	for i, src := range r.opts.Sources {
		if i > 0 && r.opts.Delay > 0 {
			if err := httputil.Sleep(ctx, r.opts.Delay); err != nil {
				log.Warn("run interrupted", "error", err)
				break
			}
		}
		if err := ctx.Err(); err != nil {
			log.Warn("run interrupted", "error", err)
			break
		}

		id, skipped, err := r.processSource(ctx, src, log.With("journal", src.Name()))
		switch {
		case err != nil:
			fmt.Fprintf(r.opts.Out, "failed:    %s (%v)\n", src.Name(), err)
			rep.Errors = append(rep.Errors, SourceError{Journal: src.Name(), Error: err.Error()})
		case skipped:
			fmt.Fprintf(r.opts.Out, "skipped:   %s (already exists)\n", id)
			rep.Skipped = append(rep.Skipped, id)
		default:
			fmt.Fprintf(r.opts.Out, "processed: %s\n", id)
			rep.Processed = append(rep.Processed, id)
		}
	}

	r.rebuildCatalogue(ctx, log)

	rep.FinishedAt = r.opts.Now().UTC()
	log.Info("pipeline complete", "processed", len(rep.Processed), "skipped", len(rep.Skipped), "errors", len(rep.Errors))
	rep.WriteSummary(r.opts.Out)
	return rep
}

// processSource runs one source. Panics are converted to errors so the
// next source still runs.
func (r *Runner) processSource(ctx context.Context, src journal.Source, log *slog.Logger) (id string, skipped bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			log.Error("source panicked", "panic", p)
			id, skipped, err = "", false, fmt.Errorf("unhandled error: %v", p)
		}
	}()

	var raw *types.RawRecord
	var ok bool
	if r.opts.Volume != "" || r.opts.Issue != "" {
		raw, ok = src.ScrapeIssue(ctx, r.opts.Volume, r.opts.Issue)
	} else {
		raw, ok = src.ScrapeCurrentIssue(ctx)
	}
	if !ok || raw == nil {
		log.Warn("scraping returned nothing")
		return "", false, errNoRecord
	}

	if raw.Date == "" {
		raw.Date = r.opts.Now().UTC().Format(types.DateLayout)
		log.Warn("no issue date found, using today", "date", raw.Date)
	}

	id = types.RecordID(raw.Journal, raw.Date)
	if r.opts.Store.Exists(id) {
		log.Info("already have record, skipping", "id", id)
		return id, true, nil
	}

	localPath := r.downloadImage(ctx, raw, id, log)

	var fullText *types.FullTextResult
	if !r.opts.DryRun {
		fullText = r.fetchFullText(ctx, raw, log)
	}

	var text string
	switch {
	case fullText == nil:
	case fullText.AbstractOnly:
		if strings.TrimSpace(raw.ArticleAbstract) == "" {
			raw.ArticleAbstract = fullText.Text
		}
	default:
		text = fullText.Text
	}
	req := summarize.RequestFromRecord(raw, text)

	var summary *types.AISummary
	if !r.opts.DryRun && r.opts.Summarizer != nil {
		var ok bool
		summary, ok = r.opts.Summarizer.Summarize(ctx, req)
		if !ok {
			log.Warn("summarization failed, saving without summary", "id", id)
		}
	}

	rec := assemble(raw, id, localPath, summary, req.Mode(), r.opts.Now().UTC())
	if fullText != nil {
		rec.FullTextProvider = fullText.Provider
	}
	if err := r.opts.Store.Save(rec); err != nil {
		return "", false, err
	}
	log.Info("wrote record", "id", id, "mode", rec.SummaryMode)
	return id, false, nil
}

// downloadImage fetches the cover image and returns its path relative to
// the data directory, or "" when there is no image or the download failed.
func (r *Runner) downloadImage(ctx context.Context, raw *types.RawRecord, id string, log *slog.Logger) string {
	if raw.CoverImageURL == "" || r.opts.Images == nil {
		return ""
	}
	dest := store.ImagePath(r.opts.ImagesDir, id, raw.CoverImageURL)
	if err := r.opts.Images.Download(ctx, raw.CoverImageURL, dest); err != nil {
		log.Warn("image download failed", "url", raw.CoverImageURL, "error", err)
		return ""
	}
	rel, err := filepath.Rel(r.opts.Store.Dir(), dest)
	if err != nil {
		rel = dest
	}
	return filepath.ToSlash(rel)
}

// fetchFullText never fails the source; any problem means abstract-only.
func (r *Runner) fetchFullText(ctx context.Context, raw *types.RawRecord, log *slog.Logger) (res *types.FullTextResult) {
	if r.opts.FullText == nil {
		return nil
	}
	defer func() {
		if p := recover(); p != nil {
			log.Warn("full-text fetch failed", "panic", p)
			res = nil
		}
	}()
	res, ok := r.opts.FullText.Fetch(ctx, raw.PreprintURL, raw.ArticleURL, raw.ArticleDOI)
	if !ok || res == nil || res.Text == "" {
		log.Info("no full text available, using abstract-only summary")
		return nil
	}
	log.Info("full text available", "provider", res.Provider, "truncated", res.Truncated)
	return res
}

func (r *Runner) rebuildCatalogue(ctx context.Context, log *slog.Logger) {
	if r.opts.Catalogue == nil {
		return
	}
	if _, _, err := r.opts.Catalogue.Rebuild(ctx); err != nil {
		log.Error("catalogue rebuild failed", "error", err)
		return
	}
	if r.opts.DB == nil {
		return
	}
	recs, err := r.opts.Catalogue.Records(ctx)
	if err != nil {
		log.Error("loading records for search index", "error", err)
		return
	}
	if _, err := r.opts.DB.Sync(ctx, recs, io.Discard); err != nil {
		log.Error("search index sync failed", "error", err)
	}
}

// assemble builds the persisted record from the scrape and summary.
func assemble(raw *types.RawRecord, id, localPath string, summary *types.AISummary, mode types.SummaryMode, now time.Time) *types.Record {
	authors := raw.ArticleAuthors
	if authors == nil {
		authors = []string{}
	}
	return &types.Record{
		ID:      id,
		Journal: raw.Journal,
		Volume:  raw.Volume,
		Issue:   raw.Issue,
		Date:    raw.Date,
		CoverImage: types.CoverImage{
			URL:       raw.CoverImageURL,
			LocalPath: localPath,
			Credit:    raw.CoverImageCredit,
		},
		CoverDescription: raw.CoverDescription,
		Article: types.Article{
			Title:    raw.ArticleTitle,
			Authors:  authors,
			Abstract: raw.ArticleAbstract,
			DOI:      raw.ArticleDOI,
			URL:      raw.ArticleURL,
			Pages:    raw.ArticlePages,
		},
		PreprintURL: raw.PreprintURL,
		AISummary:   summary,
		SummaryMode: mode,
		CreatedAt:   now,
	}
}
