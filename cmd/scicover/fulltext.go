// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scicover/internal/fulltext"
)

var fulltextCmd = &cobra.Command{
	Use:   "fulltext",
	Short: "Try the full-text cascade for one article",
	Long: `Fulltext runs the same retrieval the pipeline uses (preprint, then the
publisher page, then an open-access copy found through the DOI) and prints
the provider and the text it got.`,
	RunE: runFulltext,
}

func init() {
	fulltextCmd.Flags().String("preprint", "", "preprint URL (arXiv, bioRxiv, medRxiv, SSRN)")
	fulltextCmd.Flags().String("url", "", "article URL on the publisher site")
	fulltextCmd.Flags().String("doi", "", "article DOI")
	fulltextCmd.Flags().Bool("json", false, "output the result as JSON")

	rootCmd.AddCommand(fulltextCmd)
}

func runFulltext(cmd *cobra.Command, args []string) error {
	preprint, _ := cmd.Flags().GetString("preprint")
	articleURL, _ := cmd.Flags().GetString("url")
	doi, _ := cmd.Flags().GetString("doi")
	if preprint == "" && articleURL == "" && doi == "" {
		return fmt.Errorf("provide at least one of --preprint, --url or --doi")
	}

	d, err := newDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	f := fulltext.New(d.client, d.client.HTTPClient(), d.cfg.FullText, d.logger)
	res, ok := f.Fetch(cmd.Context(), preprint, articleURL, doi)
	if !ok {
		return fmt.Errorf("no full text available")
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	fmt.Fprintf(os.Stdout, "provider:  %s\ntruncated: %t\nchars:     %d\n\n%s\n",
		res.Provider, res.Truncated, len([]rune(res.Text)), res.Text)
	return nil
}
