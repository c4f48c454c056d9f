// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package topic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperwiz/pkg/types"
)

func TestExtractTopic(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "short query kept", text: "quantum computing", want: "quantum computing"},
		{name: "stopwords dropped", text: "Find me papers about Graph Neural Networks", want: "graph neural networks"},
		{name: "punctuation split", text: "reinforcement-learning, robotics!", want: "reinforcement-learning robotics"},
		{
			name: "frequent bigram wins",
			text: "Error correction is central. Surface codes provide error correction, and " +
				"fault tolerant thresholds depend on error correction overhead in hardware.",
			want: "error correction",
		},
		{
			name: "falls back to frequent word",
			text: "Transformers dominate translation. Vision transformers followed, then transformers for audio arrived.",
			want: "transformers",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Heuristic{}.ExtractTopic(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractTopicNoContent(t *testing.T) {
	for _, text := range []string{"", "   ", "the of and", "?!"} {
		_, err := Heuristic{}.ExtractTopic(text)
		assert.ErrorIs(t, err, types.ErrTopicExtraction, "input %q", text)
	}
}

func TestExtractTopicLongDocument(t *testing.T) {
	doc := strings.Repeat("Quantum annealing schedules matter. ", 20) + "Unrelated closing words here."
	got, err := Heuristic{}.ExtractTopic("optimization " + doc)
	require.NoError(t, err)
	assert.Equal(t, "quantum annealing", got)
}

func TestMostFrequentTieBreaksByFirstOccurrence(t *testing.T) {
	got, n := mostFrequent([]string{"b", "a", "a", "b"})
	assert.Equal(t, "b", got)
	assert.Equal(t, 2, n)
}
