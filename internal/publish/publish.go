// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish uploads the data directory to a storage bucket so the
// front-end can serve it. Record files and images are written once and
// never replaced; index.json and latest.json are overwritten every time.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"github.com/pdiddy/scicover/internal/store"
)

// ErrExists is returned by Bucket.Put when ifAbsent is set and the object
// is already present.
var ErrExists = errors.New("object already exists")

// Bucket stores named objects.
type Bucket interface {
	Put(ctx context.Context, name, contentType string, r io.Reader, ifAbsent bool) error
}

// GCSBucket is a Bucket backed by Google Cloud Storage.
type GCSBucket struct {
	handle *storage.BucketHandle
}

// NewGCSBucket wraps the named bucket.
func NewGCSBucket(client *storage.Client, name string) *GCSBucket {
	return &GCSBucket{handle: client.Bucket(name)}
}

// Put writes r to the object. With ifAbsent the write is conditional on
// the object not existing and ErrExists reports a lost race.
func (b *GCSBucket) Put(ctx context.Context, name, contentType string, r io.Reader, ifAbsent bool) error {
	obj := b.handle.Object(name)
	if ifAbsent {
		obj = obj.If(storage.Conditions{DoesNotExist: true})
	}
	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return gcsError(name, err)
	}
	if err := w.Close(); err != nil {
		return gcsError(name, err)
	}
	return nil
}

func gcsError(name string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
		return ErrExists
	}
	return fmt.Errorf("writing gs object %s: %w", name, err)
}

// Summary counts the outcome of a publish.
type Summary struct {
	Uploaded int
	Existing int
	Failed   int
}

// Publisher copies a record store and its images into a Bucket.
type Publisher struct {
	bucket    Bucket
	store     *store.Store
	imagesDir string
	prefix    string
	logger    *slog.Logger
}

// New returns a Publisher. Object names are prefix joined with the path
// relative to the data directory; images always land under "images/".
func New(bucket Bucket, st *store.Store, imagesDir, prefix string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Publisher{bucket: bucket, store: st, imagesDir: imagesDir, prefix: prefix, logger: logger}
}

// Publish uploads records, then images, then the index files. A failed
// object is counted and reported but does not stop the others. The
// returned error covers only failures to enumerate local files.
func (p *Publisher) Publish(ctx context.Context, w io.Writer) (*Summary, error) {
	sum := &Summary{}

	ids, err := p.store.IDs()
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		p.upload(ctx, w, sum, p.store.Path(id), id+".json", true)
	}

	images, err := p.images()
	if err != nil {
		return nil, err
	}
	for _, name := range images {
		p.upload(ctx, w, sum, filepath.Join(p.imagesDir, name), path.Join("images", name), true)
	}

	for _, name := range []string{store.IndexFile, store.LatestFile} {
		local := filepath.Join(p.store.Dir(), name)
		if _, err := os.Stat(local); err != nil {
			continue
		}
		p.upload(ctx, w, sum, local, name, false)
	}

	fmt.Fprintf(w, "\nPublish summary: %d uploaded, %d already present, %d failed\n",
		sum.Uploaded, sum.Existing, sum.Failed)
	return sum, nil
}

func (p *Publisher) upload(ctx context.Context, w io.Writer, sum *Summary, local, rel string, ifAbsent bool) {
	name := p.prefix + rel
	if err := ctx.Err(); err != nil {
		sum.Failed++
		fmt.Fprintf(w, "failed:   %s (%v)\n", name, err)
		return
	}

	f, err := os.Open(local)
	if err != nil {
		sum.Failed++
		fmt.Fprintf(w, "failed:   %s (%v)\n", name, err)
		return
	}
	defer f.Close()

	err = p.bucket.Put(ctx, name, contentType(rel), f, ifAbsent)
	switch {
	case errors.Is(err, ErrExists):
		sum.Existing++
		p.logger.Debug("object already present", "object", name)
	case err != nil:
		sum.Failed++
		p.logger.Warn("upload failed", "object", name, "error", err)
		fmt.Fprintf(w, "failed:   %s (%v)\n", name, err)
	default:
		sum.Uploaded++
		fmt.Fprintf(w, "uploaded: %s\n", name)
	}
}

// images lists the regular, non-hidden files in the images directory.
func (p *Publisher) images() ([]string, error) {
	entries, err := os.ReadDir(p.imagesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading images directory %s: %w", p.imagesDir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, e.Name())
	}
	return out, nil
}

func contentType(name string) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
