// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scicover/internal/catalogue"
	"github.com/pdiddy/scicover/internal/fulltext"
	"github.com/pdiddy/scicover/internal/pipeline"
	"github.com/pdiddy/scicover/internal/store"
	"github.com/pdiddy/scicover/internal/summarize"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrape, summarize and store the cover story of each journal",
	Long: `Run processes every selected journal in turn: it scrapes the current
issue (or the issue given by --volume and --issue), skips issues that
already have a record, downloads the cover image, fetches full text where
possible, summarizes, and writes the record. index.json and latest.json are
rebuilt at the end. A failing journal never stops the others; the command
exits non-zero only when every journal failed.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringSlice("journal", nil, `journals to process by name or alias, or "all" (repeatable)`)
	runCmd.Flags().Bool("dry-run", false, "scrape and store without full text or summaries")
	runCmd.Flags().String("volume", "", "process this volume instead of the current issue")
	runCmd.Flags().String("issue", "", "process this issue instead of the current issue")
	runCmd.Flags().Duration("delay", 0, "pause between journals")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	d, err := newDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()
	cfg := d.cfg

	names := cfg.Journals
	if cmd.Flags().Changed("journal") {
		names, _ = cmd.Flags().GetStringSlice("journal")
	}
	sources, err := d.registry.Select(names...)
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	dryRun = dryRun || cfg.DryRun
	delay := cfg.Delay
	if cmd.Flags().Changed("delay") {
		delay, _ = cmd.Flags().GetDuration("delay")
	}
	volume, _ := cmd.Flags().GetString("volume")
	issue, _ := cmd.Flags().GetString("issue")

	st := store.New(cfg.DataDir, d.logger)
	opts := pipeline.Options{
		Sources:   sources,
		Store:     st,
		Images:    d.client,
		ImagesDir: cfg.ImagesDir,
		Catalogue: catalogue.New(st, d.logger),
		DryRun:    dryRun,
		Delay:     delay,
		Volume:    volume,
		Issue:     issue,
		Logger:    d.logger,
		Out:       os.Stdout,
	}

	if cfg.FullText.Enabled {
		opts.FullText = fulltext.New(d.client, d.client.HTTPClient(), cfg.FullText, d.logger)
	}

	if !dryRun {
		backend, closer, err := summarize.NewBackend(ctx, cfg.AI, d.client.HTTPClient())
		if err != nil {
			return fmt.Errorf("setting up summarizer: %w", err)
		}
		defer closeQuietly(closer)
		opts.Summarizer = summarize.New(backend, cfg.AI.MaxRetries, d.logger)
	}

	if cfg.Catalogue.Enabled {
		db, err := catalogue.OpenDB(cfg.Catalogue.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		opts.DB = db
	}

	rep := pipeline.New(opts).Run(ctx)
	if !rep.Succeeded() {
		return fmt.Errorf("all %d journal(s) failed", len(rep.Errors))
	}
	return nil
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
