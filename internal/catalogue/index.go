// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalogue derives the front-end views of the record store:
// index.json (every record, newest first), latest.json (the newest record
// per journal) and an optional SQLite full-text search database.
// All of them can be rebuilt from the records at any time.
package catalogue

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/scicover/internal/store"
	"github.com/pdiddy/scicover/pkg/types"
)

// Entry is one row of index.json.
type Entry struct {
	ID              string              `json:"id" yaml:"id"`
	Journal         string              `json:"journal" yaml:"journal"`
	Date            string              `json:"date" yaml:"date"`
	Path            string              `json:"path" yaml:"path"`
	Title           types.BilingualText `json:"title" yaml:"title"`
	CoverURL        string              `json:"cover_url" yaml:"cover_url"`
	CoverImageLocal string              `json:"cover_image_local" yaml:"cover_image_local"`
}

// Index is the content of index.json.
type Index struct {
	Entries   []Entry   `json:"entries"`
	Count     int       `json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Latest maps a journal name to the file name of its newest record.
type Latest map[string]string

// loadWorkers bounds concurrent record reads during a rebuild.
const loadWorkers = 8

// Catalogue rebuilds the derived views of a record store.
type Catalogue struct {
	store  *store.Store
	logger *slog.Logger

	// Now stamps updated_at. Tests replace it for stable output.
	Now func() time.Time
}

// New returns a Catalogue over st.
func New(st *store.Store, logger *slog.Logger) *Catalogue {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Catalogue{store: st, logger: logger, Now: time.Now}
}

// Records loads every readable record, sorted by ID. Unreadable files are
// logged and left out.
func (c *Catalogue) Records(ctx context.Context) ([]*types.Record, error) {
	ids, err := c.store.IDs()
	if err != nil {
		return nil, err
	}
	loaded := make([]*types.Record, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadWorkers)
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := c.store.Load(id)
			if err != nil {
				c.logger.Warn("skipping malformed record", "id", id, "error", err)
				return nil
			}
			loaded[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	recs := make([]*types.Record, 0, len(loaded))
	for _, r := range loaded {
		if r != nil {
			recs = append(recs, r)
		}
	}
	return recs, nil
}

// Rebuild regenerates index.json and latest.json from the store.
func (c *Catalogue) Rebuild(ctx context.Context) (*Index, Latest, error) {
	recs, err := c.Records(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading records: %w", err)
	}

	idx := BuildIndex(recs, c.Now().UTC().Truncate(time.Second))
	if err := store.WriteJSON(c.indexPath(), idx); err != nil {
		return nil, nil, fmt.Errorf("writing %s: %w", store.IndexFile, err)
	}
	c.logger.Info("rebuilt index", "entries", idx.Count)

	latest := BuildLatest(recs)
	if err := store.WriteJSON(c.latestPath(), latest); err != nil {
		return nil, nil, fmt.Errorf("writing %s: %w", store.LatestFile, err)
	}
	c.logger.Info("rebuilt latest", "journals", len(latest))
	return idx, latest, nil
}

func (c *Catalogue) indexPath() string  { return filepath.Join(c.store.Dir(), store.IndexFile) }
func (c *Catalogue) latestPath() string { return filepath.Join(c.store.Dir(), store.LatestFile) }

// BuildIndex returns the index of recs, newest date first and ties broken
// by ascending ID.
func BuildIndex(recs []*types.Record, updatedAt time.Time) *Index {
	entries := make([]Entry, 0, len(recs))
	for _, r := range recs {
		entries = append(entries, Entry{
			ID:              r.ID,
			Journal:         r.Journal,
			Date:            r.Date,
			Path:            r.ID + ".json",
			Title:           r.DisplayTitle(),
			CoverURL:        r.CoverImage.URL,
			CoverImageLocal: r.CoverImage.LocalPath,
		})
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		if n := cmp.Compare(b.Date, a.Date); n != 0 {
			return n
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return &Index{Entries: entries, Count: len(entries), UpdatedAt: updatedAt}
}

// BuildLatest picks the newest record for each journal. Records sharing a
// date are ordered by ID, the greater one winning.
func BuildLatest(recs []*types.Record) Latest {
	best := make(map[string]*types.Record)
	for _, r := range recs {
		if r.Journal == "" {
			continue
		}
		cur, ok := best[r.Journal]
		if !ok || r.Date > cur.Date || (r.Date == cur.Date && r.ID > cur.ID) {
			best[r.Journal] = r
		}
	}
	out := make(Latest, len(best))
	for j, r := range best {
		out[j] = r.ID + ".json"
	}
	return out
}
