// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scicover/internal/catalogue"
	"github.com/pdiddy/scicover/pkg/types"
)

func newTestViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	configureEnv(v)
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(newTestViper(t))
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, filepath.Join("data", "images"), cfg.ImagesDir)
	assert.Equal(t, filepath.Join("data", "catalogue.db"), cfg.Catalogue.DBPath)
	assert.True(t, cfg.FullText.Enabled)
	assert.Equal(t, types.ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, 1, cfg.AI.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
}

func TestLoadConfig_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scicover.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: out
delay: 2s
journals: [science, nature]
ai:
  provider: claude
  model: claude-sonnet
fulltext:
  max_chars: 1000
sources:
  cell: http://127.0.0.1:8080
render:
  enabled: true
  journals: [cell]
`), 0o644))

	t.Setenv("SCICOVER_AI_MODEL", "from-env")
	t.Setenv("SCICOVER_HTTP_ATTEMPTS", "5")

	v := newTestViper(t)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	loadedSecrets = map[string]string{"anthropic-api-key": "ak_file"}
	t.Cleanup(func() { loadedSecrets = nil })

	cfg, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "out", cfg.DataDir)
	assert.Equal(t, filepath.Join("out", "images"), cfg.ImagesDir)
	assert.Equal(t, 2*time.Second, cfg.Delay)
	assert.Equal(t, []string{"science", "nature"}, cfg.Journals)
	assert.Equal(t, types.ProviderClaude, cfg.AI.Provider)
	assert.Equal(t, "from-env", cfg.AI.Model)
	assert.Equal(t, "ak_file", cfg.AI.APIKey)
	assert.Equal(t, 5, cfg.HTTP.Attempts)
	assert.Equal(t, 1000, cfg.FullText.MaxChars)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.Sources["cell"])
	assert.True(t, cfg.Render.Enabled)
	assert.Equal(t, []string{"cell"}, cfg.Render.Journals)
}

func TestLoadConfig_ProviderDefaultModel(t *testing.T) {
	t.Setenv("SCICOVER_AI_PROVIDER", "vertex")

	cfg, err := loadConfig(newTestViper(t))
	require.NoError(t, err)
	assert.Equal(t, types.ProviderVertex, cfg.AI.Provider)
	assert.Equal(t, types.DefaultVertexModel, cfg.AI.Model)
}

func TestFormatSearchOutput(t *testing.T) {
	results := []catalogue.SearchResult{
		{ID: "science-2025-06-20", Journal: "Science", Date: "2025-06-20", Title: types.BilingualText{EN: "Locust swarms", ZH: "蝗蟲"}},
		{ID: "asr-2025-06-01", Journal: "American Sociological Review", Date: "2025-06-01", ArticleTitle: "Neighborhood ties"},
	}

	var buf bytes.Buffer
	require.NoError(t, formatSearchOutput(&buf, results, false))
	out := buf.String()
	assert.Contains(t, out, "Locust swarms")
	assert.Contains(t, out, "Neighborhood ties")
	assert.Contains(t, out, "American Sociological Review")
	assert.Contains(t, out, "2 results")

	buf.Reset()
	require.NoError(t, formatSearchOutput(&buf, nil, false))
	assert.Equal(t, "No results found.\n", buf.String())

	buf.Reset()
	require.NoError(t, formatSearchOutput(&buf, nil, true))
	assert.Equal(t, "[]\n", buf.String())
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "abcd...", clip("abcdefghij", 7))
	assert.Equal(t, "蝗蟲蝗蟲...", clip("蝗蟲蝗蟲蝗蟲蝗蟲", 7))
}
