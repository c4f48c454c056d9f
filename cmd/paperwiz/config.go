// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/paperwiz/internal/artifact"
	"github.com/pdiddy/paperwiz/internal/backend"
	"github.com/pdiddy/paperwiz/internal/document"
	"github.com/pdiddy/paperwiz/internal/generate"
	"github.com/pdiddy/paperwiz/internal/httputil"
	"github.com/pdiddy/paperwiz/internal/orchestrator"
	"github.com/pdiddy/paperwiz/internal/scholar"
	"github.com/pdiddy/paperwiz/internal/secrets"
	"github.com/pdiddy/paperwiz/internal/session"
	"github.com/pdiddy/paperwiz/internal/topic"
	"github.com/pdiddy/paperwiz/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "paperwiz/0.1"
)

func setDefaults() {
	viper.SetDefault("http.timeout", defaultTimeout)
	viper.SetDefault("http.user_agent", defaultUserAgent)
	viper.SetDefault("search.url", backend.DefaultURL)
	viper.SetDefault("search.stream_buffer", 0)
	viper.SetDefault("lookup.citations_limit", 10)
	viper.SetDefault("generator.provider", string(types.ProviderNone))
	viper.SetDefault("generator.max_tokens", 2048)
	viper.SetDefault("document.backend", string(types.DocumentNative))
}

// loadWorkspaceConfig reads the typed configuration from viper. API keys left
// empty in config fall back to the matching .secrets/ file.
func loadWorkspaceConfig() types.WorkspaceConfig {
	cfg := types.WorkspaceConfig{
		HTTP: types.HTTPConfig{
			Timeout:   viper.GetDuration("http.timeout"),
			UserAgent: viper.GetString("http.user_agent"),
		},
		Search: types.SearchConfig{
			URL:          viper.GetString("search.url"),
			StreamBuffer: viper.GetInt("search.stream_buffer"),
		},
		Lookup: types.LookupConfig{
			BibTeXURL:             viper.GetString("lookup.bibtex_url"),
			CitationsURL:          viper.GetString("lookup.citations_url"),
			CitationsLimit:        viper.GetInt("lookup.citations_limit"),
			SemanticScholarAPIKey: viper.GetString("lookup.semantic_scholar_api_key"),
		},
		Generator: types.GeneratorConfig{
			Provider:  types.GeneratorProvider(viper.GetString("generator.provider")),
			Model:     viper.GetString("generator.model"),
			APIKey:    viper.GetString("generator.api_key"),
			Endpoint:  viper.GetString("generator.endpoint"),
			MaxTokens: viper.GetInt("generator.max_tokens"),
		},
		Document: types.DocumentConfig{
			Backend: types.DocumentBackend(viper.GetString("document.backend")),
		},
	}

	if cfg.Lookup.SemanticScholarAPIKey == "" {
		cfg.Lookup.SemanticScholarAPIKey = loadedSecrets.Get(secrets.SemanticScholarKey)
	}
	if cfg.Generator.APIKey == "" {
		switch cfg.Generator.Provider {
		case types.ProviderOpenAI:
			cfg.Generator.APIKey = loadedSecrets.Get(secrets.OpenAIKey)
		case types.ProviderClaude:
			cfg.Generator.APIKey = loadedSecrets.Get(secrets.AnthropicKey)
		}
	}
	return cfg
}

// buildDeps wires every session collaborator from cfg.
func buildDeps(ctx context.Context, cfg types.WorkspaceConfig, log *slog.Logger) (session.Deps, error) {
	hc := httputil.NewClient(cfg.HTTP, log)
	lookup := scholar.New(cfg.Lookup, hc)

	gen, err := generate.New(cfg.Generator, nil)
	if err != nil {
		return session.Deps{}, fmt.Errorf("configuring generator: %w", err)
	}
	var og orchestrator.Generator
	if gen != nil {
		og = gen
		log.Info("fallback generator ready", "generator", gen.Name())
	}

	docs, err := document.New(ctx, cfg.Document)
	if err != nil {
		return session.Deps{}, fmt.Errorf("configuring document extraction: %w", err)
	}

	return session.Deps{
		Search:    backend.New(cfg.Search.URL, hc),
		Topics:    topic.Heuristic{},
		Documents: docs,
		Generator: og,
		Sources: map[types.ArtifactKind]artifact.Source{
			types.ArtifactCitation: {Primary: lookup.Citations},
			types.ArtifactBibTeX: {
				Primary:  lookup.BibTeX,
				Fallback: orchestrator.BibTeXFallback(og),
			},
		},
		Buffer: cfg.Search.StreamBuffer,
		Logger: log,
	}, nil
}
