// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists one JSON file per cover-story record in a data
// directory, keyed by record ID. The catalogue files (index.json and
// latest.json) share the directory but are not records.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pdiddy/scicover/pkg/types"
)

// ErrNotFound is returned by Load when no record has the given ID.
var ErrNotFound = errors.New("record not found")

// Catalogue file names written alongside the records.
const (
	IndexFile  = "index.json"
	LatestFile = "latest.json"
)

// Store reads and writes records under a single directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// New returns a Store rooted at dir. The directory is created on first save.
func New(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{dir: dir, logger: logger}
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the file path for a record ID.
func (s *Store) Path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Exists reports whether a record with id has been persisted.
func (s *Store) Exists(id string) bool {
	_, err := os.Stat(s.Path(id))
	return err == nil
}

// Save writes rec atomically. The record ID must be set.
func (s *Store) Save(rec *types.Record) error {
	if rec.ID == "" {
		return errors.New("saving record: empty id")
	}
	if err := WriteJSON(s.Path(rec.ID), rec); err != nil {
		return fmt.Errorf("saving record %s: %w", rec.ID, err)
	}
	s.logger.Debug("saved record", "id", rec.ID, "path", s.Path(rec.ID))
	return nil
}

// Load reads the record with id.
func (s *Store) Load(id string) (*types.Record, error) {
	return LoadFile(s.Path(id))
}

// LoadFile reads a record from path.
func LoadFile(path string) (*types.Record, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var rec types.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if rec.ID == "" {
		rec.ID = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	return &rec, nil
}

// IDs returns the IDs of every record file, sorted by file name.
// Catalogue files and non-JSON files are ignored.
func (s *Store) IDs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.dir, err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || name == IndexFile || name == LatestFile {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	slices.Sort(ids)
	return ids, nil
}

// List loads every record in ID order. Files that cannot be parsed are
// logged and skipped.
func (s *Store) List() ([]*types.Record, error) {
	ids, err := s.IDs()
	if err != nil {
		return nil, err
	}
	recs := make([]*types.Record, 0, len(ids))
	for _, id := range ids {
		rec, err := s.Load(id)
		if err != nil {
			s.logger.Warn("skipping malformed record", "id", id, "error", err)
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// ImageExt guesses an image file extension from its URL. Unknown types
// are assumed to be JPEG.
func ImageExt(imageURL string) string {
	lower := strings.ToLower(imageURL)
	if i := strings.IndexAny(lower, "?#"); i >= 0 {
		lower = lower[:i]
	}
	for _, ext := range []string{".png", ".gif", ".webp"} {
		if strings.HasSuffix(lower, ext) {
			return ext
		}
	}
	return ".jpg"
}

// ImagePath returns where the cover image for id is stored under imagesDir.
func ImagePath(imagesDir, id, imageURL string) string {
	return filepath.Join(imagesDir, id+ImageExt(imageURL))
}

// WriteJSON encodes v as indented JSON (HTML characters unescaped, trailing
// newline) and replaces path atomically. The temp file is removed on failure.
func WriteJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return WriteFileAtomic(path, buf.Bytes())
}

// WriteFileAtomic writes data to a temp file in path's directory and
// renames it into place.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("moving file into place: %w", err)
	}
	return nil
}
