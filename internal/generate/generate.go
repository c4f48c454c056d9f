// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate provides the fallback text generators: hosted OpenAI and
// Claude models and a local Ollama server. All of them take a fully rendered
// prompt and return the model's text.
package generate

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pdiddy/paperwiz/pkg/types"
)

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

const (
	defaultOpenAIModel = "gpt-4o"
	defaultClaudeModel = "claude-sonnet-4-5"
	defaultOllamaModel = "llama3.1:latest"
	defaultOllamaHost  = "http://127.0.0.1:11434"
	defaultMaxTokens   = 2048

	defaultHTTPTimeout = 3 * time.Minute
)

// New builds the generator selected by cfg.Provider. ProviderNone (or an
// empty provider) yields a nil Generator and no error.
func New(cfg types.GeneratorConfig, hc *http.Client) (Generator, error) {
	if hc == nil {
		hc = &http.Client{Timeout: defaultHTTPTimeout}
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	switch cfg.Provider {
	case "", types.ProviderNone:
		return nil, nil
	case types.ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai generator requires an API key")
		}
		return NewOpenAI(cfg.APIKey, orDefault(cfg.Model, defaultOpenAIModel), cfg.Endpoint, maxTokens, hc), nil
	case types.ProviderClaude:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("claude generator requires an API key")
		}
		return &Claude{
			APIKey:    cfg.APIKey,
			Model:     orDefault(cfg.Model, defaultClaudeModel),
			MaxTokens: maxTokens,
			Endpoint:  cfg.Endpoint,
			Client:    hc,
		}, nil
	case types.ProviderOllama:
		return &Ollama{
			Host:   orDefault(cfg.Endpoint, defaultOllamaHost),
			Model:  orDefault(cfg.Model, defaultOllamaModel),
			Client: hc,
		}, nil
	default:
		return nil, fmt.Errorf("unknown generator provider %q: use none, openai, claude, or ollama", cfg.Provider)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
