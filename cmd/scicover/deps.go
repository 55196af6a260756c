// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scicover/internal/httputil"
	"github.com/pdiddy/scicover/internal/journal"
	"github.com/pdiddy/scicover/pkg/types"
)

// deps holds the collaborators shared by the commands.
type deps struct {
	cfg      types.Config
	logger   *slog.Logger
	client   *httputil.Client
	browser  *httputil.BrowserClient
	registry *journal.Registry
}

func newDeps(cmd *cobra.Command) (*deps, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd)
	d := &deps{
		cfg:    cfg,
		logger: logger,
		client: httputil.NewClient(cfg.HTTP, logger),
	}

	var renderer httputil.Fetcher
	if cfg.Render.Enabled {
		d.browser = httputil.NewBrowserClient(cfg.Render, cfg.HTTP, logger)
		renderer = d.browser
	}
	d.registry = journal.NewRegistry(cfg, d.client, renderer, logger)
	return d, nil
}

func (d *deps) Close() {
	if d.browser != nil {
		d.browser.Close()
	}
}
