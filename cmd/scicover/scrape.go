// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scicover/internal/journal"
	"github.com/pdiddy/scicover/pkg/types"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <journal>",
	Short: "Scrape one journal and print the raw record as JSON",
	Long: `Scrape runs a single journal's extraction and prints what it found.
Nothing is downloaded, summarized or written. Use it to check selectors
after a publisher changes its pages.`,
	Args: cobra.ExactArgs(1),
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().String("volume", "", "scrape this volume instead of the current issue")
	scrapeCmd.Flags().String("issue", "", "scrape this issue instead of the current issue")

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	d, err := newDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	src, ok := d.registry.Get(args[0])
	if !ok {
		_, err := d.registry.Select(args[0])
		return err
	}

	volume, _ := cmd.Flags().GetString("volume")
	issue, _ := cmd.Flags().GetString("issue")
	raw, ok := scrapeOne(cmd, src, volume, issue)
	if !ok {
		return fmt.Errorf("%s: no record found", src.Name())
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(raw)
}

func scrapeOne(cmd *cobra.Command, src journal.Source, volume, issue string) (*types.RawRecord, bool) {
	if volume != "" || issue != "" {
		return src.ScrapeIssue(cmd.Context(), volume, issue)
	}
	return src.ScrapeCurrentIssue(cmd.Context())
}
