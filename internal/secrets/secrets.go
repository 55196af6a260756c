// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: github-token, openai-api-key, anthropic-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/scicover/pkg/types"
)

// Key file names.
const (
	GitHubToken     = "github-token"
	OpenAIAPIKey    = "openai-api-key"
	AnthropicAPIKey = "anthropic-api-key"
)

// GitHubTokenEnv is consulted when no github-token file exists.
const GitHubTokenEnv = "GITHUB_TOKEN"

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// APIKey picks the key for the configured AI provider. An explicit
// cfg.APIKey always wins. The openai provider talks to GitHub Models by
// default and so prefers the GitHub token; a custom base URL prefers the
// OpenAI key. getenv is usually os.Getenv.
func APIKey(cfg types.AIConfig, secrets map[string]string, getenv func(string) string) string {
	if cfg.APIKey != "" {
		return cfg.APIKey
	}
	switch cfg.Provider {
	case types.ProviderClaude:
		return secrets[AnthropicAPIKey]
	case types.ProviderOpenAI:
		github := secrets[GitHubToken]
		if github == "" && getenv != nil {
			github = getenv(GitHubTokenEnv)
		}
		if cfg.BaseURL != "" && cfg.BaseURL != types.DefaultAIBaseURL {
			return firstNonEmpty(secrets[OpenAIAPIKey], github)
		}
		return firstNonEmpty(github, secrets[OpenAIAPIKey])
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
