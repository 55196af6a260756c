// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the scicover CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scicover/internal/secrets"
	"github.com/pdiddy/scicover/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the scicover CLI.
var rootCmd = &cobra.Command{
	Use:   "scicover",
	Short: "Scrape journal cover stories and summarize them in two languages",
	Long: `scicover reads the current issue of Science, Nature, Cell, Political
Geography, International Organization and American Sociological Review,
extracts the cover story, fetches the article's full text where it is
openly available, and asks a language model for a Traditional Chinese and
English summary. Records are written as JSON into the data directory
together with index.json and latest.json for the front-end.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./scicover.yaml or ~/.config/scicover/scicover.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory for record JSON files (default: data)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output")
	_ = viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))

	setDefaults(viper.GetViper())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("scicover")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "scicover"))
		}
	}

	configureEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// configureEnv maps SCICOVER_AI_MODEL style variables onto nested keys.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("SCICOVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// setDefaults registers every key so environment variables reach
// Unmarshal even when no config file mentions them.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.user_agent", d.HTTP.UserAgent)
	v.SetDefault("http.attempts", d.HTTP.Attempts)
	v.SetDefault("http.retry_delay", d.HTTP.RetryDelay)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("images_dir", "")
	v.SetDefault("journals", []string{})
	v.SetDefault("dry_run", false)
	v.SetDefault("delay", d.Delay)
	v.SetDefault("fulltext.enabled", d.FullText.Enabled)
	v.SetDefault("fulltext.max_chars", d.FullText.MaxChars)
	v.SetDefault("fulltext.min_body_chars", d.FullText.MinBodyChars)
	v.SetDefault("fulltext.openalex_base", d.FullText.OpenAlexBase)
	v.SetDefault("fulltext.arxiv_base", d.FullText.ArxivBase)
	v.SetDefault("fulltext.arxiv_export_base", d.FullText.ArxivExportBase)
	v.SetDefault("ai.provider", string(d.AI.Provider))
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.max_retries", d.AI.MaxRetries)
	v.SetDefault("ai.temperature", d.AI.Temperature)
	v.SetDefault("ai.project", "")
	v.SetDefault("ai.region", "")
	v.SetDefault("catalogue.enabled", false)
	v.SetDefault("catalogue.db_path", "")
	v.SetDefault("publish.bucket", "")
	v.SetDefault("publish.prefix", "")
	v.SetDefault("render.enabled", false)
	v.SetDefault("render.chrome_path", "")
	v.SetDefault("render.journals", []string{})
}

// loadConfig decodes v into a Config, applies defaults and resolves the
// AI key from secrets.
func loadConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	cfg.ApplyDefaults()
	cfg.AI.APIKey = secrets.APIKey(cfg.AI, loadedSecrets, os.Getenv)
	return cfg, nil
}

// newLogger writes text logs to stderr; --verbose lowers the level to debug.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
