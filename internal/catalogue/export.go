// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalogue

import (
	"context"
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scicover/internal/store"
)

const exportLimit = 100000

// ExportYAML writes every record matching opts to path as YAML.
func (d *DB) ExportYAML(ctx context.Context, path string, opts QueryOptions) error {
	results, err := d.exportResults(ctx, opts)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return store.WriteFileAtomic(path, data)
}

// ExportJSON writes every record matching opts to path as JSON.
func (d *DB) ExportJSON(ctx context.Context, path string, opts QueryOptions) error {
	results, err := d.exportResults(ctx, opts)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return store.WriteFileAtomic(path, append(data, '\n'))
}

func (d *DB) exportResults(ctx context.Context, opts QueryOptions) ([]SearchResult, error) {
	opts.MaxResults = exportLimit
	results, err := d.Search(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if results == nil {
		results = []SearchResult{}
	}
	return results, nil
}
