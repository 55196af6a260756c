// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"cloud.google.com/go/storage"
	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"github.com/pdiddy/scicover/internal/publish"
	"github.com/pdiddy/scicover/internal/store"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload records, images and the catalogue to Cloud Storage",
	Long: `Publish copies the data directory to a Google Cloud Storage bucket.
Records and images that already exist in the bucket are left untouched;
index.json and latest.json are always replaced. Credentials come from
Application Default Credentials or --credentials.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().String("bucket", "", "bucket name (overrides publish.bucket)")
	publishCmd.Flags().String("prefix", "", "object name prefix (overrides publish.prefix)")
	publishCmd.Flags().String("credentials", "", "service account key file")

	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	d, err := newDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	bucket := d.cfg.Publish.Bucket
	if cmd.Flags().Changed("bucket") {
		bucket, _ = cmd.Flags().GetString("bucket")
	}
	prefix := d.cfg.Publish.Prefix
	if cmd.Flags().Changed("prefix") {
		prefix, _ = cmd.Flags().GetString("prefix")
	}
	if bucket == "" {
		return fmt.Errorf("no bucket configured: set publish.bucket or --bucket")
	}

	opts := []option.ClientOption{option.WithUserAgent("scicover/" + version)}
	if creds, _ := cmd.Flags().GetString("credentials"); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return fmt.Errorf("creating storage client: %w", err)
	}
	defer client.Close()

	st := store.New(d.cfg.DataDir, d.logger)
	p := publish.New(publish.NewGCSBucket(client, bucket), st, d.cfg.ImagesDir, prefix, d.logger)
	sum, err := p.Publish(ctx, os.Stdout)
	if err != nil {
		return err
	}
	if sum.Failed > 0 {
		return fmt.Errorf("%d object(s) failed to upload", sum.Failed)
	}
	return nil
}
