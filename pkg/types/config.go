// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by every remote collaborator.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paperwiz/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the search backend and ingestion stream.
type SearchConfig struct {
	// URL is the chatbot endpoint that maps a keyword to papers.
	URL string `json:"url" yaml:"url"`

	// StreamBuffer is the capacity of the progress update channel (default 0, unbuffered).
	StreamBuffer int `json:"stream_buffer" yaml:"stream_buffer"`
}

// LookupConfig holds settings for the per-paper primary sources.
type LookupConfig struct {
	// BibTeXURL is the BibTeX lookup endpoint, queried with ?id=CorpusId:<id>.
	BibTeXURL string `json:"bibtex_url" yaml:"bibtex_url"`

	// CitationsURL is the Semantic Scholar Graph API paper base.
	CitationsURL string `json:"citations_url" yaml:"citations_url"`

	// CitationsLimit caps the number of citing papers fetched per paper (default 10).
	CitationsLimit int `json:"citations_limit" yaml:"citations_limit"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`
}

// GeneratorProvider selects the fallback text generator implementation.
type GeneratorProvider string

const (
	ProviderNone   GeneratorProvider = "none"
	ProviderOpenAI GeneratorProvider = "openai"
	ProviderClaude GeneratorProvider = "claude"
	ProviderOllama GeneratorProvider = "ollama"
)

// GeneratorConfig holds settings for the fallback text generator.
type GeneratorConfig struct {
	// Provider is one of none, openai, claude, ollama.
	Provider GeneratorProvider `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "gpt-4o").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for hosted providers.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Endpoint overrides the provider base URL (Ollama host, OpenAI-compatible proxy).
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// MaxTokens bounds the completion length for providers that require it.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// DocumentBackend selects how uploaded documents are turned into text.
type DocumentBackend string

const (
	DocumentNative     DocumentBackend = "native"
	DocumentMarkitdown DocumentBackend = "markitdown"
)

// DocumentConfig holds settings for document extraction.
type DocumentConfig struct {
	// Backend is native (in-process parsers) or markitdown (container).
	Backend DocumentBackend `json:"backend" yaml:"backend"`
}

// WorkspaceConfig groups every setting the workspace needs.
type WorkspaceConfig struct {
	HTTP      HTTPConfig      `json:"http" yaml:"http"`
	Search    SearchConfig    `json:"search" yaml:"search"`
	Lookup    LookupConfig    `json:"lookup" yaml:"lookup"`
	Generator GeneratorConfig `json:"generator" yaml:"generator"`
	Document  DocumentConfig  `json:"document" yaml:"document"`
}
