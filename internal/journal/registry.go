// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/pdiddy/scicover/internal/httputil"
	"github.com/pdiddy/scicover/pkg/types"
)

// AllSources is the lookup name that selects every registered source.
const AllSources = "all"

// Profiles returns the built-in journal profiles in processing order.
// Base URLs are taken from overrides keyed by slug when present.
func Profiles(overrides map[string]string) []Profile {
	return []Profile{
		ScienceProfile(overrides["science"]),
		NatureProfile(overrides["nature"]),
		CellProfile(overrides["cell"]),
		PoliticalGeographyProfile(overrides["polgeog"]),
		InternationalOrganizationProfile(overrides["intorg"]),
		AmericanSociologicalReviewProfile(overrides["asr"]),
	}
}

// Registry holds the configured sources in a fixed order.
type Registry struct {
	sources []Source
	lookup  map[string]int
}

// NewRegistry builds a source for every profile. Sources listed in
// cfg.Render.Journals fetch through renderer when rendering is enabled;
// all others use fetch.
func NewRegistry(cfg types.Config, fetch, renderer httputil.Fetcher, logger *slog.Logger) *Registry {
	r := &Registry{lookup: make(map[string]int)}
	for _, p := range Profiles(cfg.Sources) {
		f := fetch
		if cfg.Render.Enabled && renderer != nil && slices.Contains(cfg.Render.Journals, p.Slug) {
			f = renderer
		}
		r.Add(New(p, f, logger), p.Aliases...)
	}
	return r
}

// Add appends src and registers its name, slug and aliases for lookup.
func (r *Registry) Add(src Source, aliases ...string) {
	if r.lookup == nil {
		r.lookup = make(map[string]int)
	}
	idx := len(r.sources)
	r.sources = append(r.sources, src)
	for _, k := range append([]string{src.Name(), src.Slug()}, aliases...) {
		r.lookup[normalizeKey(k)] = idx
	}
}

// Sources returns every registered source in order.
func (r *Registry) Sources() []Source {
	return slices.Clone(r.sources)
}

// Slugs returns the slugs of every registered source in order.
func (r *Registry) Slugs() []string {
	out := make([]string, 0, len(r.sources))
	for _, s := range r.sources {
		out = append(out, s.Slug())
	}
	return out
}

// Get looks up a source by name, slug or alias, ignoring case.
func (r *Registry) Get(name string) (Source, bool) {
	idx, ok := r.lookup[normalizeKey(name)]
	if !ok {
		return nil, false
	}
	return r.sources[idx], true
}

// Select resolves names to sources in registry order, without duplicates.
// An empty list or "all" selects everything.
func (r *Registry) Select(names ...string) ([]Source, error) {
	if len(names) == 0 {
		return r.Sources(), nil
	}
	picked := make(map[int]bool)
	for _, n := range names {
		if normalizeKey(n) == AllSources {
			return r.Sources(), nil
		}
		idx, ok := r.lookup[normalizeKey(n)]
		if !ok {
			return nil, fmt.Errorf("unknown journal %q (known: %s)", n, strings.Join(r.Slugs(), ", "))
		}
		picked[idx] = true
	}
	var out []Source
	for i, s := range r.sources {
		if picked[i] {
			out = append(out, s)
		}
	}
	return out, nil
}

func normalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
