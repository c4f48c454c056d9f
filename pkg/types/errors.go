// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Error taxonomy shared across the workspace. Each failing layer wraps one of
// these with fmt.Errorf("...: %w") so callers classify with errors.Is.
var (
	// ErrExtraction marks an unreadable or unsupported uploaded document.
	ErrExtraction = errors.New("document extraction failed")

	// ErrTopicExtraction marks text from which no search keyword could be derived.
	ErrTopicExtraction = errors.New("topic extraction failed")

	// ErrBackendUnavailable marks a failed or malformed search backend call.
	ErrBackendUnavailable = errors.New("search backend unavailable")

	// ErrArtifactPrimary marks a failed per-paper primary lookup.
	ErrArtifactPrimary = errors.New("primary artifact lookup failed")

	// ErrArtifactFallback marks a failed fallback generation.
	ErrArtifactFallback = errors.New("fallback generation failed")

	// ErrSelectionInvalid marks an action requested with too few selected papers.
	ErrSelectionInvalid = errors.New("selection invalid")

	// ErrNotFound marks a registry lookup for an unknown title or id.
	ErrNotFound = errors.New("not found")

	// ErrNoSession marks an action requested before any search ran.
	ErrNoSession = errors.New("no active session")

	// ErrSessionReplaced marks a write attempted against a discarded session.
	ErrSessionReplaced = errors.New("session replaced by a newer search")

	// ErrAlreadyRun marks a second Run call on a session.
	ErrAlreadyRun = errors.New("session already run")
)
