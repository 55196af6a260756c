// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/pdiddy/scicover/internal/store"
	"github.com/pdiddy/scicover/pkg/types"
)

type object struct {
	data        string
	contentType string
}

// memBucket honours ifAbsent like a real bucket and can fail named objects.
type memBucket struct {
	objects map[string]object
	fail    map[string]bool
	puts    []string
}

func newMemBucket() *memBucket {
	return &memBucket{objects: map[string]object{}, fail: map[string]bool{}}
}

func (b *memBucket) Put(_ context.Context, name, contentType string, r io.Reader, ifAbsent bool) error {
	b.puts = append(b.puts, name)
	if b.fail[name] {
		return errors.New("503 backend error")
	}
	if _, ok := b.objects[name]; ok && ifAbsent {
		return ErrExists
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.objects[name] = object{data: string(data), contentType: contentType}
	return nil
}

func seed(t *testing.T) (*store.Store, string) {
	t.Helper()
	dir := t.TempDir()
	st := store.New(dir, nil)
	require.NoError(t, st.Save(&types.Record{ID: "science-2025-06-20", Journal: "Science", Date: "2025-06-20"}))
	require.NoError(t, st.Save(&types.Record{ID: "nature-2025-06-26", Journal: "Nature", Date: "2025-06-26"}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, store.IndexFile), []byte(`{"entries":[]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, store.LatestFile), []byte(`{}`), 0o644))

	images := filepath.Join(dir, "images")
	require.NoError(t, os.MkdirAll(images, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(images, "science-2025-06-20.jpg"), []byte("jpg"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(images, ".DS_Store"), []byte("x"), 0o644))
	return st, images
}

func TestPublish_UploadsEverything(t *testing.T) {
	st, images := seed(t)
	bucket := newMemBucket()
	var out bytes.Buffer

	sum, err := New(bucket, st, images, "data", nil).Publish(context.Background(), &out)
	require.NoError(t, err)

	assert.Equal(t, &Summary{Uploaded: 5}, sum)
	assert.Equal(t, []string{
		"data/nature-2025-06-26.json",
		"data/science-2025-06-20.json",
		"data/images/science-2025-06-20.jpg",
		"data/index.json",
		"data/latest.json",
	}, bucket.puts)
	assert.Equal(t, "image/jpeg", bucket.objects["data/images/science-2025-06-20.jpg"].contentType)
	assert.Equal(t, "application/json", bucket.objects["data/index.json"].contentType)
	assert.Contains(t, bucket.objects["data/science-2025-06-20.json"].data, `"journal": "Science"`)
	assert.Contains(t, out.String(), "Publish summary: 5 uploaded, 0 already present, 0 failed")
}

func TestPublish_RecordsAreWriteOnceIndexIsReplaced(t *testing.T) {
	st, images := seed(t)
	bucket := newMemBucket()
	bucket.objects["science-2025-06-20.json"] = object{data: "remote"}
	bucket.objects["index.json"] = object{data: "stale"}

	sum, err := New(bucket, st, images, "", nil).Publish(context.Background(), io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Existing)
	assert.Equal(t, 4, sum.Uploaded)
	assert.Equal(t, "remote", bucket.objects["science-2025-06-20.json"].data)
	assert.Equal(t, `{"entries":[]}`, bucket.objects["index.json"].data)
}

func TestPublish_FailureIsCountedAndOthersContinue(t *testing.T) {
	st, images := seed(t)
	bucket := newMemBucket()
	bucket.fail["nature-2025-06-26.json"] = true
	var out bytes.Buffer

	sum, err := New(bucket, st, images, "", nil).Publish(context.Background(), &out)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 4, sum.Uploaded)
	assert.Contains(t, out.String(), "failed:   nature-2025-06-26.json (503 backend error)")
}

func TestPublish_MissingImagesAndIndex(t *testing.T) {
	dir := t.TempDir()
	st := store.New(dir, nil)
	require.NoError(t, st.Save(&types.Record{ID: "cell-2025-06-12", Journal: "Cell", Date: "2025-06-12"}))
	bucket := newMemBucket()

	sum, err := New(bucket, st, filepath.Join(dir, "images"), "", nil).Publish(context.Background(), io.Discard)
	require.NoError(t, err)
	assert.Equal(t, &Summary{Uploaded: 1}, sum)
}

func TestGCSError(t *testing.T) {
	assert.ErrorIs(t, gcsError("a", &googleapi.Error{Code: http.StatusPreconditionFailed}), ErrExists)

	err := gcsError("a.json", &googleapi.Error{Code: http.StatusForbidden, Message: "denied"})
	assert.NotErrorIs(t, err, ErrExists)
	assert.ErrorContains(t, err, "writing gs object a.json")
}
