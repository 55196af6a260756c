// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordID(t *testing.T) {
	tests := []struct {
		journal, date, want string
	}{
		{"Science", "2025-06-20", "science-2025-06-20"},
		{"Political Geography", "2025-03-01", "political-geography-2025-03-01"},
		{"  Cell!! ", "2024-11-07", "cell-2024-11-07"},
		{"American Sociological Review", "2025/02/01", "american-sociological-review-20250201"},
		{"Nature", "2025-06-20T00:00:00Z", "nature-2025-06-20000000"},
	}
	for _, tt := range tests {
		t.Run(tt.journal+"/"+tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, RecordID(tt.journal, tt.date))
		})
	}
}

func TestRecordID_Deterministic(t *testing.T) {
	a := RecordID("International Organization", "2025-01-15")
	b := RecordID("International Organization", "2025-01-15")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, RecordID("International Organization", "2025-01-16"))
}

func TestAddAuthors(t *testing.T) {
	r := NewRawRecord("Science")
	r.AddAuthors("Ada Lovelace", " ", "Alan Turing", "Ada Lovelace")
	r.AddAuthors("Alan Turing", "Grace Hopper")

	assert.Equal(t, []string{"Ada Lovelace", "Alan Turing", "Grace Hopper"}, r.ArticleAuthors)
}

func TestBilingualText_Complete(t *testing.T) {
	assert.True(t, BilingualText{ZH: "標題", EN: "Title"}.Complete())
	assert.False(t, BilingualText{ZH: "標題", EN: "  "}.Complete())
	assert.False(t, BilingualText{}.Complete())
}

func TestDisplayTitle(t *testing.T) {
	rec := &Record{Article: Article{Title: "Original"}}
	assert.Equal(t, BilingualText{ZH: "Original", EN: "Original"}, rec.DisplayTitle())

	rec.AISummary = &AISummary{Title: BilingualText{ZH: "中文", EN: "English"}}
	assert.Equal(t, BilingualText{ZH: "中文", EN: "English"}, rec.DisplayTitle())
}

func TestRecord_JSONShape(t *testing.T) {
	rec := Record{
		ID:          "science-2025-06-20",
		Journal:     "Science",
		Date:        "2025-06-20",
		CoverImage:  CoverImage{URL: "https://example.org/c.jpg", LocalPath: "images/science-2025-06-20.jpg"},
		Article:     Article{Title: "T", Authors: []string{"A"}},
		SummaryMode: ModeAbstractOnly,
		CreatedAt:   time.Date(2025, 6, 21, 8, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	assert.Contains(t, m, "ai_summary")
	assert.Nil(t, m["ai_summary"])
	assert.Equal(t, "abstract-only", m["summary_mode"])
	assert.NotContains(t, m, "fulltext_provider")

	cover, ok := m["cover_image"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "images/science-2025-06-20.jpg", cover["local_path"])

	article, ok := m["article"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "T", article["title"])
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, DefaultTimeout, c.HTTP.Timeout)
	assert.Equal(t, 2, c.HTTP.Attempts)
	assert.Equal(t, 3*time.Second, c.HTTP.RetryDelay)
	assert.Equal(t, 60000, c.FullText.MaxChars)
	assert.Equal(t, 500, c.FullText.MinBodyChars)
	assert.True(t, c.FullText.Enabled)
	assert.Equal(t, ProviderOpenAI, c.AI.Provider)
	assert.Equal(t, DefaultAIBaseURL, c.AI.BaseURL)
	assert.Equal(t, 1, c.AI.MaxRetries)
	assert.Equal(t, "data", c.DataDir)
	assert.Equal(t, filepath.Join("data", "images"), c.ImagesDir)
	assert.Equal(t, filepath.Join("data", "catalogue.db"), c.Catalogue.DBPath)
	assert.Equal(t, DefaultOpenAlexBase, c.FullText.OpenAlexBase)
	assert.Equal(t, "https://arxiv.org", c.FullText.ArxivBase)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	c := Config{
		HTTP:     HTTPConfig{Attempts: 4, RetryDelay: -1},
		DataDir:  "out",
		AI:       AIConfig{Provider: ProviderClaude, Model: "m"},
		FullText: FullTextConfig{MaxChars: 100},
	}
	c.ApplyDefaults()

	assert.Equal(t, 4, c.HTTP.Attempts)
	assert.Equal(t, time.Duration(0), c.HTTP.RetryDelay)
	assert.Equal(t, "out", c.DataDir)
	assert.Equal(t, "m", c.AI.Model)
	assert.Empty(t, c.AI.BaseURL)
	assert.Equal(t, 100, c.FullText.MaxChars)
}

func TestApplyDefaults_ModelPerProvider(t *testing.T) {
	tests := []struct {
		provider AIProvider
		want     string
	}{
		{ProviderOpenAI, DefaultModel},
		{"", DefaultModel},
		{ProviderClaude, DefaultClaudeModel},
		{ProviderVertex, DefaultVertexModel},
	}
	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			c := Config{AI: AIConfig{Provider: tt.provider}}
			c.ApplyDefaults()
			assert.Equal(t, tt.want, c.AI.Model)
		})
	}
}
