// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scicover/pkg/types"
)

func testRegistry(cfg types.Config) *Registry {
	return NewRegistry(cfg, &pages{}, &pages{}, nil)
}

func TestRegistry_Order(t *testing.T) {
	r := testRegistry(types.DefaultConfig())
	assert.Equal(t, []string{"science", "nature", "cell", "polgeog", "intorg", "asr"}, r.Slugs())
}

func TestRegistry_Get(t *testing.T) {
	r := testRegistry(types.DefaultConfig())
	tests := []struct {
		name string
		want string
	}{
		{"science", "science"},
		{"Science", "science"},
		{"political geography", "polgeog"},
		{"Political  Geography", "polgeog"},
		{"polgeog", "polgeog"},
		{"International Organization", "intorg"},
		{"intorg", "intorg"},
		{"american sociological review", "asr"},
		{"ASR", "asr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, ok := r.Get(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.want, src.Slug())
		})
	}

	_, ok := r.Get("lancet")
	assert.False(t, ok)
}

func TestRegistry_Select(t *testing.T) {
	r := testRegistry(types.DefaultConfig())

	all, err := r.Select()
	require.NoError(t, err)
	assert.Len(t, all, 6)

	all, err = r.Select("cell", "ALL")
	require.NoError(t, err)
	assert.Len(t, all, 6)

	picked, err := r.Select("asr", "science", "sci")
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, "science", picked[0].Slug())
	assert.Equal(t, "asr", picked[1].Slug())

	_, err = r.Select("lancet")
	assert.ErrorContains(t, err, `unknown journal "lancet"`)
}

func TestRegistry_SourceOverridesAndRendering(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.Sources = map[string]string{"cell": "http://127.0.0.1:9999"}
	cfg.Render = types.RenderConfig{Enabled: true, Journals: []string{"cell"}}
	plain, rendered := &pages{}, &pages{}

	r := NewRegistry(cfg, plain, rendered, nil)
	cell, ok := r.Get("cell")
	require.True(t, ok)
	sc := cell.(*scraper)
	assert.Equal(t, "http://127.0.0.1:9999", sc.profile.BaseURL)
	assert.Same(t, rendered, sc.fetch)

	science, _ := r.Get("science")
	assert.Same(t, plain, science.(*scraper).fetch)
	assert.Equal(t, "https://www.science.org", science.(*scraper).profile.BaseURL)
}
