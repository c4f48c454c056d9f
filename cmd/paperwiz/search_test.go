// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperwiz/internal/backend"
	"github.com/pdiddy/paperwiz/internal/secrets"
	"github.com/pdiddy/paperwiz/internal/session"
	"github.com/pdiddy/paperwiz/pkg/types"
)

func TestStreamProgress(t *testing.T) {
	ch := make(chan session.Update, 4)
	ch <- session.Update{Kind: session.UpdateLoading, Message: session.LoadingMessage}
	ch <- session.Update{Kind: session.UpdatePaper, Paper: types.Paper{ID: "1", Title: "A"}, Warning: "dup"}
	ch <- session.Update{Kind: session.UpdateDone, Message: "Found 1 paper(s)."}
	close(ch)

	var buf bytes.Buffer
	require.NoError(t, streamProgress(&buf, ch))
	assert.Equal(t, session.LoadingMessage+"\n  [1] A\n  warning: dup\nFound 1 paper(s).\n", buf.String())
}

func TestStreamProgressFailure(t *testing.T) {
	ch := make(chan session.Update, 2)
	ch <- session.Update{Kind: session.UpdateFailed, Message: "down", Err: types.ErrBackendUnavailable}
	close(ch)

	var buf bytes.Buffer
	err := streamProgress(&buf, ch)
	assert.ErrorIs(t, err, types.ErrBackendUnavailable)
	assert.Equal(t, "down\n", buf.String())
}

func TestLoadWorkspaceConfigDefaults(t *testing.T) {
	cfg := loadWorkspaceConfig()
	assert.Equal(t, backend.DefaultURL, cfg.Search.URL)
	assert.Equal(t, defaultTimeout, cfg.HTTP.Timeout)
	assert.Equal(t, defaultUserAgent, cfg.HTTP.UserAgent)
	assert.Equal(t, 10, cfg.Lookup.CitationsLimit)
	assert.Equal(t, types.ProviderNone, cfg.Generator.Provider)
	assert.Equal(t, types.DocumentNative, cfg.Document.Backend)
}

func TestLoadWorkspaceConfigSecrets(t *testing.T) {
	prev := loadedSecrets
	t.Cleanup(func() {
		loadedSecrets = prev
		viper.Set("generator.provider", string(types.ProviderNone))
	})
	loadedSecrets = secrets.Set{
		secrets.OpenAIKey:          "sk-test",
		secrets.SemanticScholarKey: "s2-test",
	}
	viper.Set("generator.provider", string(types.ProviderOpenAI))

	cfg := loadWorkspaceConfig()
	assert.Equal(t, "sk-test", cfg.Generator.APIKey)
	assert.Equal(t, "s2-test", cfg.Lookup.SemanticScholarAPIKey)
}

func TestBuildDepsWithoutGenerator(t *testing.T) {
	cfg := loadWorkspaceConfig()
	cfg.Generator.Provider = types.ProviderNone
	deps, err := buildDeps(context.Background(), cfg, logger)
	require.NoError(t, err)

	assert.Nil(t, deps.Generator)
	assert.NotNil(t, deps.Sources[types.ArtifactCitation].Primary)
	assert.Nil(t, deps.Sources[types.ArtifactBibTeX].Fallback)
	assert.NotNil(t, deps.Documents)
}

func TestBuildDepsRejectsUnknownProvider(t *testing.T) {
	cfg := loadWorkspaceConfig()
	cfg.Generator.Provider = "mystery"
	_, err := buildDeps(context.Background(), cfg, logger)
	assert.Error(t, err)
}
