// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/scicover/pkg/types"
)

func TestBrowserClient_LaunchFailureIsNotCached(t *testing.T) {
	b := NewBrowserClient(types.RenderConfig{
		ChromePath: filepath.Join(t.TempDir(), "no-such-chrome"),
	}, types.HTTPConfig{Timeout: time.Second, Attempts: 3}, nil)
	defer b.Close()

	assert.False(t, b.started())

	text, ok := b.GetText(context.Background(), "https://example.org/")
	assert.False(t, ok)
	assert.Empty(t, text)
	assert.False(t, b.started(), "a failed launch must leave the client ready to retry")

	_, err := b.start()
	assert.Error(t, err)
	assert.False(t, b.started())
}

func TestBrowserClient_CloseBeforeStart(t *testing.T) {
	b := NewBrowserClient(types.RenderConfig{}, types.HTTPConfig{}, nil)
	b.Close()
	assert.False(t, b.started())
}
