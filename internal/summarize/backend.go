// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/scicover/pkg/types"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewBackend builds the backend selected by cfg.Provider. The returned
// Closer must be closed when the backend is no longer needed.
func NewBackend(ctx context.Context, cfg types.AIConfig, client *http.Client) (Backend, io.Closer, error) {
	if cfg.Model == "" {
		cfg.Model = types.DefaultModelFor(cfg.Provider)
	}
	switch cfg.Provider {
	case types.ProviderOpenAI, "":
		if cfg.APIKey == "" {
			return nil, nil, fmt.Errorf("openai provider requires an API key (set ai.api_key, GITHUB_TOKEN, or .secrets/github-token)")
		}
		return &OpenAIBackend{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Client:      client,
		}, nopCloser{}, nil
	case types.ProviderClaude:
		if cfg.APIKey == "" {
			return nil, nil, fmt.Errorf("claude provider requires an API key (set ai.api_key or .secrets/anthropic-api-key)")
		}
		return &ClaudeBackend{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Client:      client,
		}, nopCloser{}, nil
	case types.ProviderVertex:
		v, err := NewVertexBackend(ctx, cfg.Project, cfg.Region, cfg.Model, cfg.Temperature)
		if err != nil {
			return nil, nil, err
		}
		return v, v, nil
	default:
		return nil, nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}
