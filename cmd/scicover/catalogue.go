// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scicover/internal/catalogue"
	"github.com/pdiddy/scicover/internal/store"
)

var catalogueCmd = &cobra.Command{
	Use:   "catalogue",
	Short: "Rebuild, search and export the record catalogue",
	Long: `Catalogue manages the files the front-end reads (index.json and
latest.json) and a local SQLite database with full-text search over
titles, authors, abstracts and summaries in both languages.`,
}

// --- rebuild subcommand ---

var catalogueRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Regenerate index.json, latest.json and the search database",
	RunE:  runCatalogueRebuild,
}

func runCatalogueRebuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	d, err := newDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	cat := catalogue.New(store.New(d.cfg.DataDir, d.logger), d.logger)
	idx, latest, err := cat.Rebuild(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Wrote %s (%d records) and %s (%d journals)\n",
		store.IndexFile, idx.Count, store.LatestFile, len(latest))

	if noDB, _ := cmd.Flags().GetBool("no-db"); noDB {
		return nil
	}
	db, err := catalogue.OpenDB(d.cfg.Catalogue.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	recs, err := cat.Records(ctx)
	if err != nil {
		return err
	}
	sum, err := db.Sync(ctx, recs, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\nSearch index: %d indexed, %d updated, %d unchanged, %d removed\n",
		sum.Indexed, sum.Updated, sum.Skipped, sum.Removed)
	return nil
}

// --- search subcommand ---

var catalogueSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the catalogue with full-text queries",
	Long: `Search runs an FTS5 query over the catalogue database. Without a query
it lists the newest records. Run "catalogue rebuild" first.`,
	RunE: runCatalogueSearch,
}

func runCatalogueSearch(cmd *cobra.Command, args []string) error {
	d, err := newDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	db, err := catalogue.OpenDB(d.cfg.Catalogue.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := db.Search(cmd.Context(), queryOptsFromFlags(cmd, args))
	if err != nil {
		return err
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(os.Stdout, results, jsonOutput)
}

func formatSearchOutput(w io.Writer, results []catalogue.SearchResult, jsonOutput bool) error {
	if jsonOutput {
		if results == nil {
			results = []catalogue.SearchResult{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-10s  %-28s  %s\n", "Rank", "Date", "Journal", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for i, r := range results {
		title := r.Title.EN
		if title == "" {
			title = r.ArticleTitle
		}
		fmt.Fprintf(w, "%-4d  %-10s  %-28s  %s\n", i+1, r.Date, clip(r.Journal, 28), clip(title, 54))
	}
	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// clip shortens s to n runes, marking the cut with an ellipsis.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// --- export subcommand ---

var catalogueExportCmd = &cobra.Command{
	Use:   "export [query]",
	Short: "Export the catalogue to YAML or JSON",
	Long: `Export writes every record in the catalogue database (or those matching
the query and --journal) to a YAML or JSON file.`,
	RunE: runCatalogueExport,
}

func runCatalogueExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	d, err := newDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	db, err := catalogue.OpenDB(d.cfg.Catalogue.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := queryOptsFromFlags(cmd, args)
	switch format {
	case "yaml", "":
		if out == "" {
			out = filepath.Join(d.cfg.DataDir, "export.yaml")
		}
		err = db.ExportYAML(cmd.Context(), out, opts)
	case "json":
		if out == "" {
			out = filepath.Join(d.cfg.DataDir, "export.json")
		}
		err = db.ExportJSON(cmd.Context(), out, opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", out)
	return nil
}

// --- shared helpers ---

func queryOptsFromFlags(cmd *cobra.Command, args []string) catalogue.QueryOptions {
	journalName, _ := cmd.Flags().GetString("journal")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	return catalogue.QueryOptions{
		Query:      strings.Join(args, " "),
		Journal:    journalName,
		MaxResults: maxResults,
	}
}

func init() {
	catalogueRebuildCmd.Flags().Bool("no-db", false, "skip the search database")

	catalogueSearchCmd.Flags().String("journal", "", "only records from this journal (e.g. \"Nature\")")
	catalogueSearchCmd.Flags().Int("max-results", catalogue.DefaultMaxResults, "maximum number of results")
	catalogueSearchCmd.Flags().Bool("json", false, "output results as JSON")

	catalogueExportCmd.Flags().String("journal", "", "only records from this journal")
	catalogueExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	catalogueExportCmd.Flags().String("out", "", "output file (default: <data_dir>/export.<format>)")

	catalogueCmd.AddCommand(catalogueRebuildCmd, catalogueSearchCmd, catalogueExportCmd)
	rootCmd.AddCommand(catalogueCmd)
}
