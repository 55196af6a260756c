// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scicover/pkg/types"
)

func sampleRecord(id string) *types.Record {
	return &types.Record{
		ID:      id,
		Journal: "Science",
		Volume:  "388",
		Issue:   "6753",
		Date:    "2025-06-20",
		CoverImage: types.CoverImage{
			URL:       "https://www.science.org/cover.jpg",
			LocalPath: "images/" + id + ".jpg",
			Credit:    "Photo: A. Lee",
		},
		Article: types.Article{
			Title:   "Locust swarms <follow> the wind",
			Authors: []string{"Ada Lovelace"},
			DOI:     "10.1126/science.adx1234",
		},
		AISummary: &types.AISummary{
			Title:   types.BilingualText{ZH: "蝗蟲隨風", EN: "Locusts ride the wind"},
			Summary: types.BilingualText{ZH: "摘要", EN: "Summary"},
		},
		SummaryMode: types.ModeAbstractOnly,
		CreatedAt:   time.Date(2025, 6, 21, 8, 0, 0, 0, time.UTC),
	}
}

func TestSaveLoad(t *testing.T) {
	s := New(t.TempDir(), nil)
	rec := sampleRecord("science-2025-06-20")

	assert.False(t, s.Exists(rec.ID))
	require.NoError(t, s.Save(rec))
	assert.True(t, s.Exists(rec.ID))

	got, err := s.Load(rec.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_WritesReadableJSON(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nested", "data"), nil)
	require.NoError(t, s.Save(sampleRecord("science-2025-06-20")))

	data, err := os.ReadFile(s.Path("science-2025-06-20"))
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `"蝗蟲隨風"`)
	assert.Contains(t, text, `<follow>`)
	assert.Contains(t, text, "\n  \"journal\": \"Science\"")
	assert.True(t, strings.HasSuffix(text, "}\n"))
}

func TestSave_RequiresID(t *testing.T) {
	s := New(t.TempDir(), nil)
	assert.Error(t, s.Save(&types.Record{Journal: "Science"}))
}

func TestSave_FailureLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	s := New(filepath.Join(blocker, "data"), nil)
	err := s.Save(sampleRecord("science-2025-06-20"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "science-2025-06-20")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSave_ReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, nil)
	rec := sampleRecord("nature-2025-06-19")
	require.NoError(t, s.Save(rec))
	rec.Volume = "642"
	require.NoError(t, s.Save(rec))

	got, err := s.Load(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "642", got.Volume)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := New(t.TempDir(), nil).Load("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoad_FillsMissingIDFromFileName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cell-2025-01-02.json"), []byte(`{"journal":"Cell"}`), 0o644))

	got, err := New(dir, nil).Load("cell-2025-01-02")
	require.NoError(t, err)
	assert.Equal(t, "cell-2025-01-02", got.ID)
}

func TestIDsAndList(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, nil)
	require.NoError(t, s.Save(sampleRecord("science-2025-06-20")))
	require.NoError(t, s.Save(sampleRecord("cell-2025-06-19")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, IndexFile), []byte(`{"entries":[]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, LatestFile), []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{not json`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`hi`), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "images"), 0o755))

	ids, err := s.IDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"broken", "cell-2025-06-19", "science-2025-06-20"}, ids)

	recs, err := s.List()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "cell-2025-06-19", recs[0].ID)
	assert.Equal(t, "science-2025-06-20", recs[1].ID)
}

func TestIDs_MissingDir(t *testing.T) {
	ids, err := New(filepath.Join(t.TempDir(), "absent"), nil).IDs()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestImagePath(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://x.test/cover.PNG", ".png"},
		{"https://x.test/cover.gif?w=400", ".gif"},
		{"https://x.test/cover.webp#frag", ".webp"},
		{"https://x.test/cover.jpeg", ".jpg"},
		{"https://x.test/cover", ".jpg"},
		{"https://x.test/png/cover.jpg", ".jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, ImageExt(tt.url))
		})
	}
	assert.Equal(t, filepath.Join("data", "images", "science-2025-06-20.png"), ImagePath(filepath.Join("data", "images"), "science-2025-06-20", "https://x.test/a.png"))
}
